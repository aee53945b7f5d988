package service

import "math"

// DashboardStats summarizes the store for the overview panel.
type DashboardStats struct {
	TotalRecords      int `json:"total_records"`
	TotalQuantity     int `json:"total_quantity"`
	LowStockCount     int `json:"low_stock_count"`
	OrderPendingCount int `json:"order_pending_count"`
	CategoryCount     int `json:"category_count"`
	LocationCount     int `json:"location_count"`
}

type DashboardService interface {
	GetDashboardStats() DashboardStats
}

type dashboardService struct {
	source RecordSource
	policy LowStockPolicy
}

func NewDashboardService(source RecordSource, policy LowStockPolicy) DashboardService {
	return &dashboardService{source: source, policy: policy}
}

func (s *dashboardService) GetDashboardStats() DashboardStats {
	records := s.source.Records()
	stats := DashboardStats{TotalRecords: len(records)}

	categories := map[string]bool{}
	locations := map[string]bool{}
	for _, r := range records {
		// saturate rather than wrap
		if stats.TotalQuantity > math.MaxInt-r.Quantity {
			stats.TotalQuantity = math.MaxInt
		} else {
			stats.TotalQuantity += r.Quantity
		}
		if r.OrderPending {
			stats.OrderPendingCount++
		}
		if s.policy.IsLow(r) {
			stats.LowStockCount++
		}
		categories[r.Category] = true
		locations[r.Location] = true
	}
	stats.CategoryCount = len(categories)
	stats.LocationCount = len(locations)
	return stats
}
