package repository

import (
	"errors"

	"go-inventory-ledger/internal/model"
)

var ErrDuplicateID = errors.New("record id already exists")

// RecordRepository is the ordered in-memory store of ledger records. Insertion
// order is the display order and the serialization order.
//
// Implementations are not safe for concurrent use; the inventory service
// serializes every call.
type RecordRepository interface {
	// Load replaces the contents with the normalized rows and returns the ids
	// that appeared more than once.
	Load(rows []model.Row) []string
	FindByID(id string) (model.InventoryRecord, bool)
	Append(record model.InventoryRecord) error
	Update(id string, fn func(r *model.InventoryRecord)) (model.InventoryRecord, bool)
	All() []model.InventoryRecord
	Len() int
}

type recordRepo struct {
	records          []model.InventoryRecord
	defaultThreshold int
}

func NewRecordRepo(defaultThreshold int) RecordRepository {
	return &recordRepo{defaultThreshold: defaultThreshold}
}

func (r *recordRepo) Load(rows []model.Row) []string {
	records := make([]model.InventoryRecord, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	var duplicates []string
	for _, row := range rows {
		rec := model.RecordFromRow(row, r.defaultThreshold)
		if seen[rec.ID] {
			duplicates = append(duplicates, rec.ID)
		}
		seen[rec.ID] = true
		records = append(records, rec)
	}
	r.records = records
	return duplicates
}

func (r *recordRepo) index(id string) int {
	id = model.NormalizeID(id)
	for i := range r.records {
		if r.records[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *recordRepo) FindByID(id string) (model.InventoryRecord, bool) {
	i := r.index(id)
	if i < 0 {
		return model.InventoryRecord{}, false
	}
	return r.records[i], true
}

func (r *recordRepo) Append(record model.InventoryRecord) error {
	if r.index(record.ID) >= 0 {
		return ErrDuplicateID
	}
	r.records = append(r.records, record)
	return nil
}

// Update applies fn to the stored record and returns the result.
func (r *recordRepo) Update(id string, fn func(r *model.InventoryRecord)) (model.InventoryRecord, bool) {
	i := r.index(id)
	if i < 0 {
		return model.InventoryRecord{}, false
	}
	fn(&r.records[i])
	return r.records[i], true
}

func (r *recordRepo) All() []model.InventoryRecord {
	out := make([]model.InventoryRecord, len(r.records))
	copy(out, r.records)
	return out
}

func (r *recordRepo) Len() int {
	return len(r.records)
}
