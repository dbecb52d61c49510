package middlewares

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stamply/stamply-core/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	keys    []string
	allowed bool
}

func (l *stubLimiter) Allow(key string, limit ratelimit.Rate) (bool, ratelimit.RateLimitInfo) {
	l.keys = append(l.keys, key)
	return l.allowed, ratelimit.RateLimitInfo{
		Limit:     limit.Requests,
		Remaining: limit.Requests - 1,
		Reset:     time.Now().Add(limit.Window),
	}
}

func (l *stubLimiter) Reset(key string) error { return nil }

// setUser stands in for RequireAuth, which stores user_id before the
// per-user limit runs.
func setUser(userID uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user_id", userID)
		return c.Next()
	}
}

func TestLimitByUserKeysOnAuthenticatedUser(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	m := NewRateLimitMiddleware(limiter)
	userID := uuid.New()

	app := fiber.New()
	app.Get("/client-cards", setUser(userID), m.LimitByUser(ratelimit.AuthenticatedAPILimit), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/client-cards", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, limiter.keys, 1)
	assert.Equal(t, "user:"+userID.String(), limiter.keys[0])
	assert.Equal(t, "60", resp.Header.Get("X-RateLimit-Limit"))
}

func TestLimitByUserFallsBackToIPWithoutSession(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	m := NewRateLimitMiddleware(limiter)

	app := fiber.New()
	app.Get("/", m.LimitByUser(ratelimit.AuthenticatedAPILimit), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, limiter.keys, 1)
	assert.Equal(t, "ip:203.0.113.7", limiter.keys[0])
}

func TestLimitByUserRejectsWhenExceeded(t *testing.T) {
	limiter := &stubLimiter{allowed: false}
	m := NewRateLimitMiddleware(limiter)

	app := fiber.New()
	app.Get("/", setUser(uuid.New()), m.LimitByUser(ratelimit.AuthenticatedAPILimit), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
