package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/pkg/validator"

	"go.uber.org/zap"
)

const notifyTimeout = 30 * time.Second

// Ledger persists the full store snapshot.
type Ledger interface {
	Save(ctx context.Context, records []model.InventoryRecord) error
}

// LowStockNotifier delivers one report per call.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, records []model.InventoryRecord, settings model.MailSettings) error
}

// MailSettingsProvider returns the settings in effect right now.
type MailSettingsProvider interface {
	Mail() model.MailSettings
}

// Publisher pushes change events to connected displays.
type Publisher interface {
	Publish(msg []byte)
}

type InventoryService interface {
	RecordSource
	StockIn(ctx context.Context, id string, qty int) (*Outcome, error)
	StockOut(ctx context.Context, id string, qty int) (*Outcome, error)
	RegisterProduct(ctx context.Context, in *RegisterProductInput) (*Outcome, error)
	SetOrderPending(ctx context.Context, id string, pending bool) (*Outcome, error)
	ImportRows(ctx context.Context, rows []model.Row) (*ImportOutcome, error)
	GetRecord(id string) (model.InventoryRecord, error)
	LowStock(threshold *int) []model.InventoryRecord
	Movements(ctx context.Context) ([]model.Movement, error)
}

// Outcome is the result of a committed mutation. SaveErr and NotifyErr are
// side-channel failures: the mutation itself has already been applied.
type Outcome struct {
	Record    model.InventoryRecord
	LowStock  []model.InventoryRecord
	SaveErr   error
	NotifyErr error
}

// Warnings lists the side-channel failures for display.
func (o *Outcome) Warnings() []string {
	return warnings(o.SaveErr, o.NotifyErr)
}

type ImportOutcome struct {
	Imported []model.InventoryRecord
	SaveErr  error
}

func (o *ImportOutcome) Warnings() []string {
	return warnings(o.SaveErr)
}

type RegisterProductInput struct {
	ID        string    `json:"id" validate:"required"`
	Name      string    `json:"name" validate:"required"`
	Category  string    `json:"category"`
	Quantity  CountText `json:"quantity" validate:"required,nonneg_int"`
	Location  string    `json:"location"`
	Threshold CountText `json:"threshold" validate:"required,nonneg_int"`
}

// CountText is a count typed by an operator. JSON clients may send it either
// as a string or as a number.
type CountText string

func (c *CountText) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*c = CountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("count must be a string or a number: %w", err)
	}
	*c = CountText(n.String())
	return nil
}

type InventoryDeps struct {
	Records          repository.RecordRepository
	Movements        repository.MovementRepository
	Ledger           Ledger
	Policy           LowStockPolicy
	Notifier         LowStockNotifier
	Settings         MailSettingsProvider
	Publisher        Publisher
	Logger           *zap.Logger
	DefaultThreshold int
}

type inventoryService struct {
	mu               sync.Mutex
	records          repository.RecordRepository
	movements        repository.MovementRepository
	ledger           Ledger
	policy           LowStockPolicy
	notifier         LowStockNotifier
	settings         MailSettingsProvider
	publisher        Publisher
	log              *zap.Logger
	defaultThreshold int
}

func NewInventoryService(deps InventoryDeps) InventoryService {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	movements := deps.Movements
	if movements == nil {
		movements = repository.NewMemoryMovementRepo()
	}
	return &inventoryService{
		records:          deps.Records,
		movements:        movements,
		ledger:           deps.Ledger,
		policy:           deps.Policy,
		notifier:         deps.Notifier,
		settings:         deps.Settings,
		publisher:        deps.Publisher,
		log:              log,
		defaultThreshold: deps.DefaultThreshold,
	}
}

func (s *inventoryService) Records() []model.InventoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.records.All()
}

func (s *inventoryService) GetRecord(id string) (model.InventoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records.FindByID(id)
	if !ok {
		return model.InventoryRecord{}, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSpace(id))
	}
	return rec, nil
}

func (s *inventoryService) LowStock(threshold *int) []model.InventoryRecord {
	records := s.Records()
	if threshold != nil {
		return s.policy.ScanBelow(records, *threshold)
	}
	return s.policy.Scan(records)
}

func (s *inventoryService) Movements(ctx context.Context) ([]model.Movement, error) {
	return s.movements.FindAll(ctx)
}

func (s *inventoryService) StockIn(ctx context.Context, id string, qty int) (*Outcome, error) {
	// 1. Validate input before touching the store
	if qty < 1 {
		return nil, fmt.Errorf("%w: stock-in quantity must be at least 1", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSpace(id))
	}
	if qty > math.MaxInt-current.Quantity {
		return nil, fmt.Errorf("%w: stock-in of %d would overflow the count of %s", ErrValidation, qty, current.ID)
	}

	// 2. Apply; a replenishment clears the pending order
	rec, _ := s.records.Update(id, func(r *model.InventoryRecord) {
		r.Quantity += qty
		r.OrderPending = false
	})

	out := &Outcome{Record: rec}
	out.SaveErr = s.commit(ctx, "stock_in", model.Movement{
		RecordID:      rec.ID,
		RecordName:    rec.Name,
		Type:          model.MovementIn,
		Quantity:      qty,
		QuantityAfter: rec.Quantity,
	})
	return out, nil
}

func (s *inventoryService) StockOut(ctx context.Context, id string, qty int) (*Outcome, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: stock-out quantity must be at least 1", ErrValidation)
	}

	out, err := s.applyStockOut(ctx, id, qty)
	if err != nil {
		return nil, err
	}

	// Notification happens outside the lock; it may wait on the mail server.
	if len(out.LowStock) > 0 {
		out.NotifyErr = s.notifyLowStock(ctx, out.LowStock)
	}
	return out, nil
}

func (s *inventoryService) applyStockOut(ctx context.Context, id string, qty int) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.records.FindByID(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSpace(id))
	}
	if qty > current.Quantity {
		return nil, fmt.Errorf("%w: requested %d, %s has %d", ErrInsufficientStock, qty, current.ID, current.Quantity)
	}

	rec, _ := s.records.Update(id, func(r *model.InventoryRecord) {
		r.Quantity -= qty
	})

	out := &Outcome{Record: rec}
	out.SaveErr = s.commit(ctx, "stock_out", model.Movement{
		RecordID:      rec.ID,
		RecordName:    rec.Name,
		Type:          model.MovementOut,
		Quantity:      -qty,
		QuantityAfter: rec.Quantity,
	})
	out.LowStock = s.policy.Scan(s.records.All())
	return out, nil
}

func (s *inventoryService) RegisterProduct(ctx context.Context, in *RegisterProductInput) (*Outcome, error) {
	// 1. Normalize and validate the form
	in.ID = strings.TrimSpace(in.ID)
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Location = strings.TrimSpace(in.Location)
	in.Quantity = CountText(strings.TrimSpace(string(in.Quantity)))
	in.Threshold = CountText(strings.TrimSpace(string(in.Threshold)))

	var formatErr *validator.ErrorResponse
	for _, e := range validator.ValidateStruct(in) {
		if e.Tag == "required" {
			return nil, fmt.Errorf("%w: field '%s' is required", ErrValidation, e.FailedField)
		}
		if formatErr == nil {
			formatErr = e
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// 2. Duplicate id check (exact, case-sensitive, after trimming)
	for _, r := range s.records.All() {
		if strings.TrimSpace(r.ID) == in.ID {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, in.ID)
		}
	}
	if formatErr != nil {
		return nil, fmt.Errorf("%w: quantity and threshold must be integers >= 0 (field '%s')", ErrValidation, formatErr.FailedField)
	}

	qty, _ := strconv.Atoi(string(in.Quantity))
	threshold, _ := strconv.Atoi(string(in.Threshold))
	rec := model.InventoryRecord{
		ID:        in.ID,
		Name:      in.Name,
		Category:  model.NormalizeLabel(in.Category),
		Location:  model.NormalizeLabel(in.Location),
		Quantity:  qty,
		Threshold: threshold,
	}

	// 3. Store
	if err := s.records.Append(rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
		}
		return nil, err
	}

	out := &Outcome{Record: rec}
	out.SaveErr = s.commit(ctx, "product_registered", model.Movement{
		RecordID:      rec.ID,
		RecordName:    rec.Name,
		Type:          model.MovementRegister,
		Quantity:      rec.Quantity,
		QuantityAfter: rec.Quantity,
	})
	return out, nil
}

func (s *inventoryService) SetOrderPending(ctx context.Context, id string, pending bool) (*Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records.Update(id, func(r *model.InventoryRecord) {
		r.OrderPending = pending
	})
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSpace(id))
	}

	out := &Outcome{Record: rec}
	out.SaveErr = s.commit(ctx, "order_flagged", model.Movement{
		RecordID:      rec.ID,
		RecordName:    rec.Name,
		Type:          model.MovementOrder,
		QuantityAfter: rec.Quantity,
		Note:          "order_pending=" + strconv.FormatBool(pending),
	})
	return out, nil
}

// ImportRows appends every row of an import file or none of them.
func (s *inventoryService) ImportRows(ctx context.Context, rows []model.Row) (*ImportOutcome, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: import file has no rows", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(rows))
	records := make([]model.InventoryRecord, 0, len(rows))
	var dups []string
	for i, row := range rows {
		rec := model.RecordFromRow(row, s.defaultThreshold)
		if rec.ID == "" || rec.Name == "" {
			// header is line 1
			return nil, fmt.Errorf("%w: line %d needs both id and name", ErrValidation, i+2)
		}
		if _, exists := s.records.FindByID(rec.ID); exists || seen[rec.ID] {
			dups = append(dups, rec.ID)
		}
		seen[rec.ID] = true
		records = append(records, rec)
	}
	if len(dups) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateID, strings.Join(dups, ", "))
	}

	for _, rec := range records {
		if err := s.records.Append(rec); err != nil {
			// unreachable after the checks above
			return nil, err
		}
	}

	out := &ImportOutcome{Imported: records}
	if err := s.save(ctx); err != nil {
		out.SaveErr = err
	}
	for _, rec := range records {
		s.journal(ctx, model.Movement{
			RecordID:      rec.ID,
			RecordName:    rec.Name,
			Type:          model.MovementImport,
			Quantity:      rec.Quantity,
			QuantityAfter: rec.Quantity,
		})
	}
	s.publish("records_imported", map[string]interface{}{"count": len(records)})
	return out, nil
}

// commit runs the post-mutation steps shared by all single-record operations:
// full save, journal entry, change event. Only the save error is returned.
func (s *inventoryService) commit(ctx context.Context, action string, m model.Movement) error {
	saveErr := s.save(ctx)
	s.journal(ctx, m)
	s.publish(action, map[string]interface{}{
		"id":       m.RecordID,
		"name":     m.RecordName,
		"quantity": m.QuantityAfter,
	})
	return saveErr
}

func (s *inventoryService) save(ctx context.Context) error {
	if s.ledger == nil {
		return nil
	}
	if err := s.ledger.Save(ctx, s.records.All()); err != nil {
		s.log.Error("ledger save failed, memory is ahead of the file", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (s *inventoryService) journal(ctx context.Context, m model.Movement) {
	s.log.Info(m.String())
	if err := s.movements.Create(ctx, &m); err != nil {
		s.log.Warn("failed to journal movement", zap.String("id", m.RecordID), zap.Error(err))
	}
}

func (s *inventoryService) publish(action string, data map[string]interface{}) {
	if s.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"type":   "inventory_changed",
		"action": action,
		"data":   data,
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("failed to encode change event", zap.Error(err))
		return
	}
	s.publisher.Publish(msg)
}

func (s *inventoryService) notifyLowStock(ctx context.Context, low []model.InventoryRecord) error {
	if s.notifier == nil {
		return nil
	}
	var settings model.MailSettings
	if s.settings != nil {
		settings = s.settings.Mail()
	}

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyLowStock(ctx, low, settings); err != nil {
		s.log.Warn("low-stock notification failed", zap.Int("items", len(low)), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrNotification, err)
	}
	s.log.Info("low-stock notification sent", zap.Int("items", len(low)), zap.String("to", settings.Recipient))
	return nil
}

func warnings(errs ...error) []string {
	out := []string{}
	for _, err := range errs {
		if err != nil {
			out = append(out, err.Error())
		}
	}
	return out
}
