package middleware

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userLocalsKey = "user"

// Identify verifies a bearer token when one is sent and stores it under
// c.Locals("user"). Requests without an Authorization header pass through
// anonymously; a present but invalid token is rejected.
func Identify(cfg *config.Config) fiber.Handler {
	if cfg.JWTSecret == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ContextKey: userLocalsKey,
		Filter: func(c *fiber.Ctx) bool {
			return c.Get(fiber.HeaderAuthorization) == ""
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// Claims returns the verified token claims, if the request carried a token.
func Claims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	token, ok := c.Locals(userLocalsKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

// UserID returns the numeric subject of the verified token.
func UserID(c *fiber.Ctx) (uint, bool) {
	claims, ok := Claims(c)
	if !ok {
		return 0, false
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
