package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"jobboard/app/auth"
	"jobboard/app/config"
)

const SessionCookie = "session"

// AuthMiddleware verifies the session token and exposes its claims to the
// downstream handler. The cookie is the primary transport; a bearer header
// is accepted as a fallback for cross-origin clients that cannot send
// cookies.
func AuthMiddleware(c *fiber.Ctx) error {
	cfg := c.Locals("config").(*config.Config)

	token := c.Cookies(SessionCookie)
	if token == "" {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	claims, err := auth.VerifyToken(token, cfg.JWTSecret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
	}

	c.Locals("claims", claims)

	return c.Next()
}
