package handler

import (
	"go-inventory-ledger/internal/middleware"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Inventory *InventoryHandler
	Scan      *ScanHandler
	Dashboard *DashboardHandler
	Auth      *AuthHandler
	Settings  *SettingsHandler
}

// Register mounts the /api/v1 routes on app.
func Register(app *fiber.App, h Handlers, auth service.AuthService) {
	api := app.Group("/api/v1")

	// ============ OPERATOR ROUTES ============
	api.Get("/records", h.Inventory.GetRecords)
	api.Get("/records/visible", h.Inventory.GetVisibleRecords)
	api.Post("/records", h.Inventory.RegisterProduct)
	api.Post("/records/import", h.Inventory.ImportRecords)
	api.Post("/records/:id/stock-in", h.Inventory.StockIn)
	api.Post("/records/:id/stock-out", h.Inventory.StockOut)
	api.Post("/records/:id/order", h.Inventory.SetOrderPending)
	api.Get("/records/:id/qr", h.Inventory.GetLabel)
	api.Get("/filters", h.Inventory.GetFilters)
	api.Get("/low-stock", h.Inventory.GetLowStock)
	api.Get("/resolve", h.Inventory.Resolve)
	api.Post("/scan", h.Scan.Scan)
	api.Get("/movements", h.Inventory.GetMovements)
	api.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)

	// ============ ADMIN ROUTES ============
	api.Post("/auth/login", h.Auth.Login)
	admin := api.Group("/settings", middleware.RequireAdmin(auth))
	admin.Get("/mail", h.Settings.GetMailSettings)
	admin.Put("/mail", h.Settings.UpdateMailSettings)
}
