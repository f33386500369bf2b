package middleware

import (
	"jobhub/internal/infrastructure/ratelimit"

	"github.com/gofiber/fiber/v3"
)

// RateLimit throttles a route per authenticated user, falling back to the
// client IP for anonymous requests. A nil limiter disables the check.
func RateLimit(limiter ratelimit.Limiter, scope string) fiber.Handler {
	return func(c fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}
		key := scope + ":ip:" + c.IP()
		if id, _, ok := CurrentUser(c); ok {
			key = scope + ":user:" + id.String()
		}
		if !limiter.Allow(c.Context(), key) {
			return NewAppError(fiber.StatusTooManyRequests, "Too many requests, please slow down", nil, nil)
		}
		return c.Next()
	}
}
