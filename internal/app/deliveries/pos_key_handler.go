package deliveries

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stamply/stamply-core/internal/app/errors"
	"github.com/stamply/stamply-core/internal/app/middlewares"
	"github.com/stamply/stamply-core/internal/app/pkg"
	"github.com/stamply/stamply-core/internal/app/services"
	"github.com/stamply/stamply-core/pkg/apikey"
	"github.com/stamply/stamply-core/pkg/ratelimit"
)

type PosKeyHandler struct {
	posKeyService       *services.PosKeyService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewPosKeyHandler(posKeyService *services.PosKeyService, authMiddleware *middlewares.AuthMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *PosKeyHandler {
	return &PosKeyHandler{
		posKeyService:       posKeyService,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *PosKeyHandler) RegisterRoutes(router fiber.Router) {
	keyGroup := router.Group("/pos-keys")
	keyGroup.Use(h.authMiddleware.RequireAuth, h.rateLimitMiddleware.LimitByUser(ratelimit.AuthenticatedAPILimit), h.authMiddleware.RequireBusiness)

	keyGroup.Post("/", h.CreateKey)
	keyGroup.Get("/", h.ListKeys)
	keyGroup.Delete("/:id", h.RevokeKey)
}

type createPosKeyRequest struct {
	KeyName   string           `json:"key_name"`
	Scopes    apikey.ScopeList `json:"scopes"`
	RateLimit int              `json:"rate_limit"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
}

func (h *PosKeyHandler) CreateKey(c *fiber.Ctx) error {
	var req createPosKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	if req.KeyName == "" {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Key name is required"))
	}
	if len(req.Scopes) == 0 {
		req.Scopes = apikey.ScopeList{apikey.ScopeIssue}
	}

	businessID := c.Locals("user_id").(uuid.UUID)

	key, err := h.posKeyService.CreateKey(c.Context(), businessID, req.KeyName, req.Scopes, req.RateLimit, req.ExpiresAt)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, key)
}

func (h *PosKeyHandler) ListKeys(c *fiber.Ctx) error {
	businessID := c.Locals("user_id").(uuid.UUID)

	keys, err := h.posKeyService.ListKeys(c.Context(), businessID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, keys)
}

func (h *PosKeyHandler) RevokeKey(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewBadRequestError("Invalid API key ID format"))
	}

	businessID := c.Locals("user_id").(uuid.UUID)

	if err := h.posKeyService.RevokeKey(c.Context(), id, businessID); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
