package middleware

import (
	"github.com/gofiber/fiber/v2"

	"jobboard/app/auth"
	"jobboard/app/database"
)

// AdminMiddleware runs after AuthMiddleware and requires the admin role.
// The role comes from the token claim captured at issuance; a role change
// after issuance has no effect until the token expires and is reissued.
func AdminMiddleware(c *fiber.Ctx) error {
	claims := c.Locals("claims").(*auth.Claims)

	if claims.Role != database.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "admin access required"})
	}

	return c.Next()
}
