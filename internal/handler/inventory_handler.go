package handler

import (
	"fmt"
	"strconv"
	"strings"

	"go-inventory-ledger/internal/ledger"
	"go-inventory-ledger/internal/model"
	"go-inventory-ledger/internal/scan"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	inventory     service.InventoryService
	filters       service.FilterService
	identify      service.IdentifyService
	importColumns []string
	log           *zap.Logger
}

func NewInventoryHandler(
	inventory service.InventoryService,
	filters service.FilterService,
	identify service.IdentifyService,
	importColumns []string,
	log *zap.Logger,
) *InventoryHandler {
	if log == nil {
		log = zap.NewNop()
	}
	if len(importColumns) == 0 {
		importColumns = ledger.RequiredColumns
	}
	return &InventoryHandler{
		inventory:     inventory,
		filters:       filters,
		identify:      identify,
		importColumns: importColumns,
		log:           log,
	}
}

// quantityRequest takes the count as a number or as typed text.
type quantityRequest struct {
	Quantity service.CountText `json:"quantity"`
}

func (r quantityRequest) count() (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(string(r.Quantity)))
	if err != nil {
		return 0, fmt.Errorf("%w: field 'quantity' must be an integer", service.ErrValidation)
	}
	return n, nil
}

type orderRequest struct {
	Pending *bool `json:"pending"`
}

func outcomeResponse(message string, out *service.Outcome) fiber.Map {
	resp := fiber.Map{
		"message":  message,
		"data":     out.Record,
		"warnings": out.Warnings(),
	}
	if out.LowStock != nil {
		resp["low_stock"] = out.LowStock
	}
	return resp
}

// GetRecords returns the whole store in ledger order
// GET /api/v1/records
func (h *InventoryHandler) GetRecords(c *fiber.Ctx) error {
	return c.JSON(h.inventory.Records())
}

// GetVisibleRecords applies the category and location selection.
// Each query key may repeat: ?category=a&category=b
func (h *InventoryHandler) GetVisibleRecords(c *fiber.Ctx) error {
	sel := service.FilterSelection{
		Categories: queryValues(c, "category"),
		Locations:  queryValues(c, "location"),
	}
	return c.JSON(h.filters.Visible(sel))
}

func (h *InventoryHandler) GetFilters(c *fiber.Ctx) error {
	return c.JSON(h.filters.Sets())
}

func (h *InventoryHandler) RegisterProduct(c *fiber.Ctx) error {
	var in service.RegisterProductInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	out, err := h.inventory.RegisterProduct(c.UserContext(), &in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(outcomeResponse("Product registered", out))
}

func (h *InventoryHandler) StockIn(c *fiber.Ctx) error {
	var req quantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	qty, err := req.count()
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.inventory.StockIn(c.UserContext(), c.Params("id"), qty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(outcomeResponse("Stock added", out))
}

func (h *InventoryHandler) StockOut(c *fiber.Ctx) error {
	var req quantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	qty, err := req.count()
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.inventory.StockOut(c.UserContext(), c.Params("id"), qty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(outcomeResponse("Stock removed", out))
}

// SetOrderPending marks a record as ordered. An empty body means pending=true.
func (h *InventoryHandler) SetOrderPending(c *fiber.Ctx) error {
	pending := true
	if len(c.Body()) > 0 {
		var req orderRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
		}
		if req.Pending != nil {
			pending = *req.Pending
		}
	}

	out, err := h.inventory.SetOrderPending(c.UserContext(), c.Params("id"), pending)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(outcomeResponse("Order flag updated", out))
}

// GetLabel renders the record's QR label as PNG
// GET /api/v1/records/:id/qr
func (h *InventoryHandler) GetLabel(c *fiber.Ctx) error {
	rec, err := h.inventory.GetRecord(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	png, err := scan.EncodePNG(model.LabelText(rec))
	if err != nil {
		h.log.Error("label encode failed", zap.String("id", rec.ID), zap.Error(err))
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+rec.ID+`.png"`)
	return c.Send(png)
}

// ImportRecords appends the rows of an uploaded csv or xlsx file
// POST /api/v1/records/import (multipart field "file")
func (h *InventoryHandler) ImportRecords(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing file"})
	}
	format, err := ledger.FormatFromName(fh.Filename)
	if err != nil {
		return respondError(c, err)
	}

	f, err := fh.Open()
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Unreadable file"})
	}
	defer f.Close()

	rows, err := ledger.ReadImport(f, format, h.importColumns)
	if err != nil {
		return respondError(c, err)
	}

	out, err := h.inventory.ImportRows(c.UserContext(), rows)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(201).JSON(fiber.Map{
		"message":  "Records imported",
		"count":    len(out.Imported),
		"data":     out.Imported,
		"warnings": out.Warnings(),
	})
}

// GetLowStock returns the current deficient records.
// ?threshold=n overrides the configured threshold for this query only.
func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	var threshold *int
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(400).JSON(fiber.Map{"error": "threshold must be an integer >= 0"})
		}
		threshold = &n
	}
	return c.JSON(h.inventory.LowStock(threshold))
}

// Resolve looks up a record from a typed id
// GET /api/v1/resolve?id=...
func (h *InventoryHandler) Resolve(c *fiber.Ctx) error {
	rec, err := h.identify.ResolveByManualEntry(c.Query("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(rec)
}

func (h *InventoryHandler) GetMovements(c *fiber.Ctx) error {
	movements, err := h.inventory.Movements(c.UserContext())
	if err != nil {
		h.log.Error("failed to fetch movements", zap.Error(err))
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch movements"})
	}
	return c.JSON(movements)
}

func queryValues(c *fiber.Ctx, key string) []string {
	var out []string
	for _, v := range c.Context().QueryArgs().PeekMulti(key) {
		if s := strings.TrimSpace(string(v)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
