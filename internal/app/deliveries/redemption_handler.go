package deliveries

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stamply/stamply-core/internal/app/middlewares"
	"github.com/stamply/stamply-core/internal/app/models"
	"github.com/stamply/stamply-core/internal/app/pkg"
	"github.com/stamply/stamply-core/internal/app/services"
	"github.com/stamply/stamply-core/pkg/ratelimit"
)

type RedemptionHandler struct {
	redemptionService   *services.RedemptionService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewRedemptionHandler(redemptionService *services.RedemptionService, authMiddleware *middlewares.AuthMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *RedemptionHandler {
	return &RedemptionHandler{
		redemptionService:   redemptionService,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *RedemptionHandler) RegisterRoutes(router fiber.Router) {
	userLimit := h.rateLimitMiddleware.LimitByUser(ratelimit.AuthenticatedAPILimit)

	router.Post("/rewards/redeem", h.authMiddleware.RequireAuth, userLimit, h.authMiddleware.RequireClient, h.RedeemReward)

	redemptionGroup := router.Group("/redemptions")
	redemptionGroup.Get("/", h.authMiddleware.RequireAuth, userLimit, h.authMiddleware.RequireClient, h.GetClientRedemptions)

	// Staff consume the ticket at the counter.
	router.Post("/tickets/validate/:code", h.authMiddleware.RequireAuth, userLimit, h.authMiddleware.RequireBusiness, h.ValidateTicket)
}

func (h *RedemptionHandler) RedeemReward(c *fiber.Ctx) error {
	var req models.RedeemRewardRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	clientID := c.Locals("user_id").(uuid.UUID)

	ticket, err := h.redemptionService.RedeemReward(clientID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, ticket)
}

func (h *RedemptionHandler) GetClientRedemptions(c *fiber.Ctx) error {
	clientID := c.Locals("user_id").(uuid.UUID)

	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil {
		limit = 50
	}

	redemptions, err := h.redemptionService.GetClientRedemptions(clientID, limit)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, redemptions)
}

func (h *RedemptionHandler) ValidateTicket(c *fiber.Ctx) error {
	code := c.Params("code")
	businessID := c.Locals("user_id").(uuid.UUID)

	redemption, err := h.redemptionService.ValidateTicket(businessID, code)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, redemption)
}
