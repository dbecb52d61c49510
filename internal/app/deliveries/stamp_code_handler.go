package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stamply/stamply-core/internal/app/middlewares"
	"github.com/stamply/stamply-core/internal/app/models"
	"github.com/stamply/stamply-core/internal/app/pkg"
	"github.com/stamply/stamply-core/internal/app/services"
	"github.com/stamply/stamply-core/pkg/apikey"
	"github.com/stamply/stamply-core/pkg/ratelimit"
)

type StampCodeHandler struct {
	stampCodeService    *services.StampCodeService
	authMiddleware      *middlewares.AuthMiddleware
	apiKeyMiddleware    *middlewares.APIKeyMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewStampCodeHandler(stampCodeService *services.StampCodeService, authMiddleware *middlewares.AuthMiddleware, apiKeyMiddleware *middlewares.APIKeyMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *StampCodeHandler {
	return &StampCodeHandler{
		stampCodeService:    stampCodeService,
		authMiddleware:      authMiddleware,
		apiKeyMiddleware:    apiKeyMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *StampCodeHandler) RegisterRoutes(router fiber.Router) {
	codeGroup := router.Group("/stamp-codes")
	codeGroup.Use(h.authMiddleware.RequireAuth, h.rateLimitMiddleware.LimitByUser(ratelimit.AuthenticatedAPILimit))

	// Staff issue codes from the dashboard, clients redeem them.
	codeGroup.Post("/", h.authMiddleware.RequireBusiness, h.IssueCode)
	codeGroup.Post("/redeem", h.authMiddleware.RequireClient, h.RedeemCode)

	// Point-of-sale hardware issues codes with an API key instead of a login.
	posGroup := router.Group("/pos")
	posGroup.Post("/stamp-codes", h.apiKeyMiddleware.RequireKey(apikey.ScopeIssue), h.IssueCodeFromPos)
}

func (h *StampCodeHandler) IssueCode(c *fiber.Ctx) error {
	var req models.StampCodeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	businessID := c.Locals("user_id").(uuid.UUID)

	code, err := h.stampCodeService.IssueCode(businessID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, code)
}

func (h *StampCodeHandler) IssueCodeFromPos(c *fiber.Ctx) error {
	var req models.StampCodeCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	businessID := c.Locals("business_id").(uuid.UUID)

	code, err := h.stampCodeService.IssueCode(businessID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, code)
}

func (h *StampCodeHandler) RedeemCode(c *fiber.Ctx) error {
	var req models.StampCodeRedeemRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	clientID := c.Locals("user_id").(uuid.UUID)

	result, err := h.stampCodeService.RedeemCode(clientID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, result)
}
