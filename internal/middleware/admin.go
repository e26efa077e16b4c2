package middleware

import (
	"crypto/subtle"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"
	"github.com/gofiber/fiber/v2"
)

// AdminRequired admits requests carrying the configured X-Admin-Token or a
// verified token whose role claim is admin. Run Identify first.
func AdminRequired(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			given := c.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(given), []byte(cfg.AdminToken)) == 1 {
				return c.Next()
			}
		}

		claims, ok := Claims(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "Unauthorized"})
		}
		if role, _ := claims["role"].(string); role == string(models.RoleAdmin) {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "Admin access required"})
	}
}
