package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"legalis-admin/internal/ratelimit"
)

const adminIDLocalKey = "adminID"

// AdminAuth requires the X-Admin-ID header set by the API gateway after
// verifying the admin's session.
func AdminAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		adminID := strings.TrimSpace(c.Get("X-Admin-ID"))
		if adminID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Admin authentication required")
		}

		c.Locals(adminIDLocalKey, adminID)
		return c.Next()
	}
}

// AdminID returns the authenticated admin id stored by AdminAuth.
func AdminID(c *fiber.Ctx) string {
	if value, ok := c.Locals(adminIDLocalKey).(string); ok {
		return value
	}
	return ""
}

// RateLimit throttles decision requests per admin. Limiter errors fail
// open so a Redis outage does not block the review queue.
func RateLimit(limiter ratelimit.RateLimiter, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *fiber.Ctx) error {
		if limiter == nil {
			return c.Next()
		}

		key := "admin:" + AdminID(c)
		allowed, err := limiter.Allow(c.Context(), key)
		if err != nil {
			logger.Warn("rate limiter unavailable, allowing request",
				zap.String("key", key),
				zap.Error(err),
			)
			return c.Next()
		}
		if !allowed {
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many requests")
		}

		return c.Next()
	}
}
