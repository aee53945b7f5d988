package repository

import (
	"context"
	"os"
	"testing"

	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/pkg/database"

	"github.com/google/uuid"
)

func TestMemoryMovementRepo_NewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryMovementRepo()

	first := &model.Movement{RecordID: "A1", Type: model.MovementIn, Quantity: 2}
	second := &model.Movement{RecordID: "A1", Type: model.MovementOut, Quantity: -1}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatal(err)
	}

	if first.ID == uuid.Nil || first.CreatedAt.IsZero() {
		t.Error("expected id and timestamp to be assigned")
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all[0].Type != model.MovementOut || all[1].Type != model.MovementIn {
		t.Errorf("expected newest first, got %+v", all)
	}
}

func TestMovementRepo_Postgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := database.ConnectDB(dsn)
	if err != nil {
		t.Skipf("Postgres not available: %v", err)
	}
	if err := db.AutoMigrate(&model.Movement{}); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	repo := NewMovementRepo(db)
	m := &model.Movement{RecordID: "it-" + uuid.NewString(), Type: model.MovementIn, Quantity: 1}
	if err := repo.Create(ctx, m); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	defer db.Delete(&model.Movement{}, "id = ?", m.ID)

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, got := range all {
		if got.ID == m.ID {
			found = true
		}
	}
	if !found {
		t.Error("expected created movement to be listed")
	}
}
