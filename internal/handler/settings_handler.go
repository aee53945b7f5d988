package handler

import (
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	settings service.SettingsService
}

func NewSettingsHandler(settings service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetMailSettings never returns the password itself.
func (h *SettingsHandler) GetMailSettings(c *fiber.Ctx) error {
	return c.JSON(h.settings.MailView())
}

func (h *SettingsHandler) UpdateMailSettings(c *fiber.Ctx) error {
	var in service.UpdateMailSettingsInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	view, err := h.settings.UpdateMail(&in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Mail settings updated", "data": view})
}
