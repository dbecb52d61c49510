package middlewares

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/stamply/stamply-core/internal/app/errors"
	"github.com/stamply/stamply-core/internal/app/pkg"
	"github.com/stamply/stamply-core/pkg/ratelimit"
)

// RateLimitMiddleware adapts pkg/ratelimit to fiber routes.
type RateLimitMiddleware struct {
	limiter ratelimit.RateLimiter
}

// NewRateLimitMiddleware creates a new RateLimitMiddleware
func NewRateLimitMiddleware(limiter ratelimit.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// LimitByIP creates a middleware that rate limits by IP address
func (m *RateLimitMiddleware) LimitByIP(limit ratelimit.Rate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := fmt.Sprintf("ip:%s", getIPAddress(c))
		return m.handleRateLimit(c, key, limit)
	}
}

// LimitByUser creates a middleware that rate limits by user ID, falling
// back to IP for unauthenticated requests.
func (m *RateLimitMiddleware) LimitByUser(limit ratelimit.Rate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID := c.Locals("user_id"); userID != nil {
			key := fmt.Sprintf("user:%v", userID)
			return m.handleRateLimit(c, key, limit)
		}
		return m.LimitByIP(limit)(c)
	}
}

// handleRateLimit handles the rate limiting logic
func (m *RateLimitMiddleware) handleRateLimit(c *fiber.Ctx, key string, limit ratelimit.Rate) error {
	allowed, info := m.limiter.Allow(key, limit)

	// Set rate limit headers
	c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
	c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
	c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.Reset.Unix()))

	if !allowed {
		return pkg.ErrorResponse(c, errors.NewTooManyRequestsError("Rate limit exceeded"))
	}

	return c.Next()
}

// getIPAddress gets the client IP address from request
func getIPAddress(c *fiber.Ctx) string {
	// Try X-Forwarded-For header
	if xff := c.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Try X-Real-IP header
	if xrip := c.Get("X-Real-IP"); xrip != "" {
		return xrip
	}

	// Fall back to RemoteIP
	return c.IP()
}
