package service

import "go-inventory-ledger/internal/model"

// LowStockPolicy decides which records need replenishing. By default every
// record is compared with one global threshold; PerRecord switches to each
// record's own threshold column.
type LowStockPolicy struct {
	Threshold int
	PerRecord bool
}

func NewLowStockPolicy(threshold int, perRecord bool) LowStockPolicy {
	return LowStockPolicy{Threshold: threshold, PerRecord: perRecord}
}

// IsLow reports whether r is at or below its limit and not already on order.
func (p LowStockPolicy) IsLow(r model.InventoryRecord) bool {
	limit := p.Threshold
	if p.PerRecord {
		limit = r.Threshold
	}
	return !r.OrderPending && r.Quantity <= limit
}

// Scan returns the deficient records in store order.
func (p LowStockPolicy) Scan(records []model.InventoryRecord) []model.InventoryRecord {
	var low []model.InventoryRecord
	for _, r := range records {
		if p.IsLow(r) {
			low = append(low, r)
		}
	}
	return low
}

// ScanBelow is Scan with the global threshold replaced by threshold.
func (p LowStockPolicy) ScanBelow(records []model.InventoryRecord, threshold int) []model.InventoryRecord {
	return LowStockPolicy{Threshold: threshold}.Scan(records)
}
