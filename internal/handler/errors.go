package handler

import (
	"errors"

	"go-inventory-ledger/internal/ledger"
	"go-inventory-ledger/internal/scan"
	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps service error kinds to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, ledger.ErrMissingColumns),
		errors.Is(err, ledger.ErrUnsupportedFormat):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrDuplicateID):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, scan.ErrNoCode):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrAdminDisabled),
		errors.Is(err, service.ErrForbidden):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "Internal Server Error"
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
