package middleware

import (
	"errors"
	"strings"

	"go-inventory-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
)

// RequireAdmin validates the bearer token issued by the admin login.
func RequireAdmin(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := auth.ValidateToken(parts[1])
		if errors.Is(err, service.ErrForbidden) {
			return c.Status(403).JSON(fiber.Map{"error": err.Error()})
		}
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		c.Locals("role", claims.Role)
		return c.Next()
	}
}
