package repository

import (
	"errors"
	"testing"

	"go-inventory-ledger/internal/model"
)

func seedRepo(t *testing.T) RecordRepository {
	t.Helper()
	repo := NewRecordRepo(model.DefaultThreshold)
	dups := repo.Load([]model.Row{
		{"id": "A1", "name": "Widget", "category": "Parts", "quantity": "3", "threshold": "5"},
		{"id": "101", "name": "Bolt", "quantity": "40"},
		{"id": "B2", "name": "Gadget", "category": "Tools", "quantity": "10", "threshold": "x"},
	})
	if len(dups) != 0 {
		t.Fatalf("unexpected duplicates: %v", dups)
	}
	return repo
}

func TestRecordRepo_LoadAssignsDefaultThreshold(t *testing.T) {
	repo := seedRepo(t)

	for _, id := range []string{"101", "B2"} {
		rec, ok := repo.FindByID(id)
		if !ok {
			t.Fatalf("expected %s to exist", id)
		}
		if rec.Threshold != model.DefaultThreshold {
			t.Errorf("%s: expected threshold %d, got %d", id, model.DefaultThreshold, rec.Threshold)
		}
	}
}

func TestRecordRepo_FindByIDComparesText(t *testing.T) {
	repo := seedRepo(t)

	if _, ok := repo.FindByID(" 101 "); !ok {
		t.Error("expected trimmed id lookup to succeed")
	}
	if _, ok := repo.FindByID("101.0"); !ok {
		t.Error("expected spreadsheet-style numeric id to match")
	}
	if _, ok := repo.FindByID("a1"); ok {
		t.Error("expected lookup to be case-sensitive")
	}
	if _, ok := repo.FindByID("missing"); ok {
		t.Error("expected missing id to return false")
	}
}

func TestRecordRepo_AppendKeepsOrderAndRejectsDuplicates(t *testing.T) {
	repo := seedRepo(t)

	if err := repo.Append(model.InventoryRecord{ID: "C3", Name: "Nut"}); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := repo.Append(model.InventoryRecord{ID: "A1", Name: "Other"}); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}

	all := repo.All()
	want := []string{"A1", "101", "B2", "C3"}
	if len(all) != len(want) {
		t.Fatalf("expected %d records, got %d", len(want), len(all))
	}
	for i, id := range want {
		if all[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, all[i].ID)
		}
	}
}

func TestRecordRepo_AllReturnsCopy(t *testing.T) {
	repo := seedRepo(t)

	all := repo.All()
	all[0].Quantity = 999

	rec, _ := repo.FindByID("A1")
	if rec.Quantity != 3 {
		t.Errorf("expected store to be unaffected, got quantity %d", rec.Quantity)
	}
}

func TestRecordRepo_Update(t *testing.T) {
	repo := seedRepo(t)

	updated, ok := repo.Update("A1", func(r *model.InventoryRecord) { r.Quantity += 2 })
	if !ok || updated.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d (ok=%v)", updated.Quantity, ok)
	}
	if _, ok := repo.Update("nope", func(r *model.InventoryRecord) {}); ok {
		t.Error("expected update of missing id to fail")
	}
}

func TestRecordRepo_LoadReportsDuplicates(t *testing.T) {
	repo := NewRecordRepo(model.DefaultThreshold)
	dups := repo.Load([]model.Row{{"id": "X"}, {"id": "X "}, {"id": "Y"}})
	if len(dups) != 1 || dups[0] != "X" {
		t.Errorf("expected [X], got %v", dups)
	}
	if repo.Len() != 3 {
		t.Errorf("expected ledger rows to be kept as they are, got %d", repo.Len())
	}
}
