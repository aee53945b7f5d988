package service

import (
	"sort"

	"go-inventory-ledger/internal/model"
)

// RecordSource hands out a snapshot of the store in insertion order.
type RecordSource interface {
	Records() []model.InventoryRecord
}

// FilterSelection holds the checked categories and locations. An empty set in
// a dimension does not restrict that dimension.
type FilterSelection struct {
	Categories []string
	Locations  []string
}

type FilterSets struct {
	Categories []string `json:"categories"`
	Locations  []string `json:"locations"`
}

type FilterService interface {
	DistinctCategories() []string
	DistinctLocations() []string
	Sets() FilterSets
	Visible(sel FilterSelection) []model.InventoryRecord
}

type filterService struct {
	source RecordSource
}

func NewFilterService(source RecordSource) FilterService {
	return &filterService{source: source}
}

func (s *filterService) DistinctCategories() []string {
	return distinct(s.source.Records(), func(r model.InventoryRecord) string { return r.Category })
}

func (s *filterService) DistinctLocations() []string {
	return distinct(s.source.Records(), func(r model.InventoryRecord) string { return r.Location })
}

func (s *filterService) Sets() FilterSets {
	records := s.source.Records()
	return FilterSets{
		Categories: distinct(records, func(r model.InventoryRecord) string { return r.Category }),
		Locations:  distinct(records, func(r model.InventoryRecord) string { return r.Location }),
	}
}

// Visible is recomputed from the store on every call.
func (s *filterService) Visible(sel FilterSelection) []model.InventoryRecord {
	return VisibleRecords(s.source.Records(), sel)
}

// VisibleRecords keeps, in order, the records that pass both dimensions.
func VisibleRecords(records []model.InventoryRecord, sel FilterSelection) []model.InventoryRecord {
	cats := toSet(sel.Categories)
	locs := toSet(sel.Locations)

	out := make([]model.InventoryRecord, 0, len(records))
	for _, r := range records {
		if len(cats) > 0 && !cats[model.NormalizeLabel(r.Category)] {
			continue
		}
		if len(locs) > 0 && !locs[model.NormalizeLabel(r.Location)] {
			continue
		}
		out = append(out, r)
	}
	return out
}

func distinct(records []model.InventoryRecord, label func(model.InventoryRecord) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, r := range records {
		l := model.NormalizeLabel(label(r))
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[model.NormalizeLabel(v)] = true
	}
	return set
}
