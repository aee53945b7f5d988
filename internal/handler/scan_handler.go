package handler

import (
	"io"

	"go-inventory-ledger/internal/scan"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ScanHandler struct {
	identify service.IdentifyService
	log      *zap.Logger
}

func NewScanHandler(identify service.IdentifyService, log *zap.Logger) *ScanHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScanHandler{identify: identify, log: log}
}

// Scan decodes the uploaded frames in order and resolves the first code found.
// POST /api/v1/scan (multipart field "image", repeatable)
func (h *ScanHandler) Scan(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["image"]) == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Missing image"})
	}

	frames := make([][]byte, 0, len(form.File["image"]))
	for _, fh := range form.File["image"] {
		f, err := fh.Open()
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Unreadable image"})
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Unreadable image"})
		}
		frames = append(frames, data)
	}

	source, err := scan.ImageSourceFromBytes(frames...)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	text, err := scan.NewScanner(source, h.log).Scan(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	rec, err := h.identify.ResolveByCode(text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"code": text, "data": rec})
}
