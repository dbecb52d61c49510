package middlewares

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stamply/stamply-core/internal/app/errors"
	"github.com/stamply/stamply-core/internal/app/pkg"
	"github.com/stamply/stamply-core/internal/app/services"
	"github.com/stamply/stamply-core/pkg/apikey"
	"github.com/stamply/stamply-core/pkg/ratelimit"
)

// APIKeyMiddleware authenticates point-of-sale hardware by X-API-Key.
type APIKeyMiddleware struct {
	posKeyService *services.PosKeyService
	limiter       ratelimit.RateLimiter
}

// NewAPIKeyMiddleware creates a new APIKeyMiddleware
func NewAPIKeyMiddleware(posKeyService *services.PosKeyService, limiter ratelimit.RateLimiter) *APIKeyMiddleware {
	return &APIKeyMiddleware{
		posKeyService: posKeyService,
		limiter:       limiter,
	}
}

// RequireKey returns a middleware that requires a live API key holding the
// given scope. The owning business ID is stored in locals under
// "business_id".
func (m *APIKeyMiddleware) RequireKey(scope apikey.Scope) fiber.Handler {
	return func(c *fiber.Ctx) error {
		keyValue := c.Get("X-API-Key")
		if keyValue == "" {
			return pkg.ErrorResponse(c, errors.NewUnauthorizedError("API key required"))
		}

		key, err := m.posKeyService.GetKey(c.Context(), keyValue)
		if err != nil {
			return pkg.ErrorResponse(c, err)
		}

		// Per-key rate limit
		limit := ratelimit.POSAPILimit
		if key.RateLimit > 0 {
			limit = ratelimit.Rate{Requests: key.RateLimit, Window: time.Minute}
		}
		allowed, info := m.limiter.Allow("apikey:"+key.ID.String(), limit)

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.Reset.Unix()))

		if !allowed {
			return pkg.ErrorResponse(c, errors.NewTooManyRequestsError("Rate limit exceeded"))
		}

		if !key.HasScope(scope) {
			return pkg.ErrorResponse(c, errors.NewForbiddenError("Insufficient permissions"))
		}

		// Track last use asynchronously
		go func(id string) {
			if err := m.posKeyService.TouchKey(context.Background(), key.ID); err != nil {
				logrus.Warnf("failed to touch api key %s: %v", id, err)
			}
		}(key.ID.String())

		c.Locals("api_key", key)
		c.Locals("business_id", key.BusinessID)

		return c.Next()
	}
}
