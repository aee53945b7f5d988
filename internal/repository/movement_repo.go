package repository

import (
	"context"
	"sync"
	"time"

	"go-inventory-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovementRepository is the journal of applied stock movements.
type MovementRepository interface {
	Create(ctx context.Context, m *model.Movement) error
	FindAll(ctx context.Context) ([]model.Movement, error)
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

func (r *movementRepo) Create(ctx context.Context, m *model.Movement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movementRepo) FindAll(ctx context.Context) ([]model.Movement, error) {
	var movements []model.Movement
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&movements).Error
	return movements, err
}

// memoryMovementRepo keeps the journal for the lifetime of the process when no
// database is configured.
type memoryMovementRepo struct {
	mu        sync.Mutex
	movements []model.Movement
	now       func() time.Time
}

func NewMemoryMovementRepo() MovementRepository {
	return &memoryMovementRepo{now: time.Now}
}

func (r *memoryMovementRepo) Create(ctx context.Context, m *model.Movement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.now()
	}
	r.mu.Lock()
	r.movements = append(r.movements, *m)
	r.mu.Unlock()
	return nil
}

func (r *memoryMovementRepo) FindAll(ctx context.Context) ([]model.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Movement, 0, len(r.movements))
	for i := len(r.movements) - 1; i >= 0; i-- {
		out = append(out, r.movements[i])
	}
	return out, nil
}
