// middleware/service_auth.go is a shared-secret bearer-token check:
// every request to the operational matchmaking endpoints must carry
// the configured service token.
package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ServiceAuth validates the bearer token against expectedToken.
func ServiceAuth(expectedToken string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			log.Printf("🚫 [SERVICE_AUTH] missing Authorization header for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "service authentication token missing",
			})
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			token = authHeader
		}

		if token != expectedToken {
			log.Printf("❌ [SERVICE_AUTH] invalid token for %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid service authentication token",
			})
		}

		return c.Next()
	}
}
