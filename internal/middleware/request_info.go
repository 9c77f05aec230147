package middleware

import (
	"github.com/gofiber/fiber/v2"

	"medcollab/internal/pkg/reqmeta"
)

// RequestInfo resolves the real client IP (honoring proxy headers) and user
// agent and stashes them in the request context for audit logging.
func RequestInfo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.Get("CF-Connecting-IP")
		if ip == "" {
			ip = c.Get("X-Forwarded-For")
		}
		if ip == "" {
			ip = c.IP()
		}

		ctx := reqmeta.WithMeta(c.UserContext(), reqmeta.Meta{
			IPAddress: ip,
			UserAgent: c.Get("User-Agent"),
		})
		c.SetUserContext(ctx)

		return c.Next()
	}
}
