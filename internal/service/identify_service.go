package service

import (
	"fmt"
	"strings"

	"go-inventory-ledger/internal/model"
)

// IdentifyService maps scanned or typed text to a record. Neither method
// mutates anything.
type IdentifyService interface {
	ResolveByCode(scanned string) (model.InventoryRecord, error)
	ResolveByManualEntry(text string) (model.InventoryRecord, error)
}

type identifyService struct {
	source RecordSource
}

func NewIdentifyService(source RecordSource) IdentifyService {
	return &identifyService{source: source}
}

// ResolveByCode prefers the id of a label payload. For any other text the
// longest record id contained in it wins, so "ID 10" resolves to "10" and not
// to "1".
func (s *identifyService) ResolveByCode(scanned string) (model.InventoryRecord, error) {
	records := s.source.Records()

	if id, ok := model.LabelID(scanned); ok {
		for _, r := range records {
			if r.ID == id {
				return r, nil
			}
		}
	}

	best := -1
	for i, r := range records {
		if r.ID == "" || !strings.Contains(scanned, r.ID) {
			continue
		}
		if best < 0 || len(r.ID) > len(records[best].ID) {
			best = i
		}
	}
	if best < 0 {
		return model.InventoryRecord{}, fmt.Errorf("%w: no record matches the scanned code", ErrNotFound)
	}
	return records[best], nil
}

func (s *identifyService) ResolveByManualEntry(text string) (model.InventoryRecord, error) {
	id := model.NormalizeID(text)
	if id == "" {
		return model.InventoryRecord{}, fmt.Errorf("%w: id is required", ErrValidation)
	}
	for _, r := range s.source.Records() {
		if r.ID == id {
			return r, nil
		}
	}
	return model.InventoryRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}
