package middleware

import (
	"log"
	"strings"

	"github.com/CmdDeckHQ/cmddeck-web/internal/pkg/env"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthMiddleware guards the changelog admin endpoints with a shared
// token. ADMIN_TOKEN_HASH holds a bcrypt hash of the token so the token
// itself never sits in the environment.
func AdminAuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractAdminTokenFromHeader(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing admin token"})
		}

		hash := strings.TrimSpace(env.GetEnv("ADMIN_TOKEN_HASH", ""))
		if hash == "" {
			log.Print("admin auth: ADMIN_TOKEN_HASH is not configured")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Admin access disabled"})
		}

		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)); err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid admin token"})
		}

		return c.Next()
	}
}

func extractAdminTokenFromHeader(c *fiber.Ctx) string {
	token := strings.TrimSpace(c.Get("X-Admin-Token"))
	if token != "" {
		return token
	}
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
