package deliveries

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stamply/stamply-core/internal/app/middlewares"
	"github.com/stamply/stamply-core/internal/app/models"
	"github.com/stamply/stamply-core/internal/app/pkg"
	"github.com/stamply/stamply-core/internal/app/services"
)

type RewardHandler struct {
	rewardService  *services.RewardService
	authMiddleware *middlewares.AuthMiddleware
}

func NewRewardHandler(rewardService *services.RewardService, authMiddleware *middlewares.AuthMiddleware) *RewardHandler {
	return &RewardHandler{
		rewardService:  rewardService,
		authMiddleware: authMiddleware,
	}
}

func (h *RewardHandler) RegisterRoutes(router fiber.Router) {
	rewardGroup := router.Group("/rewards")

	// Public endpoints
	rewardGroup.Get("/business/:id", h.GetBusinessRewards)
	rewardGroup.Get("/:id", h.GetReward)

	// Protected endpoints (require business authentication)
	rewardGroup.Post("/", h.authMiddleware.RequireAuth, h.authMiddleware.RequireBusiness, h.CreateReward)
	rewardGroup.Patch("/:id", h.authMiddleware.RequireAuth, h.authMiddleware.RequireBusiness, h.UpdateReward)
	rewardGroup.Delete("/:id", h.authMiddleware.RequireAuth, h.authMiddleware.RequireBusiness, h.DeleteReward)
}

func (h *RewardHandler) CreateReward(c *fiber.Ctx) error {
	var req models.RewardCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	businessID := c.Locals("user_id").(uuid.UUID)

	reward, err := h.rewardService.CreateReward(businessID, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, reward)
}

func (h *RewardHandler) GetReward(c *fiber.Ctx) error {
	id := c.Params("id")

	reward, err := h.rewardService.GetReward(id)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, reward)
}

// GetBusinessRewards lists a business's rewards. ?active=true restricts to
// rewards a customer can currently redeem.
func (h *RewardHandler) GetBusinessRewards(c *fiber.Ctx) error {
	businessId := c.Params("id")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		limit = 10
	}
	activeOnly := c.Query("active") == "true"

	pagination := &models.PaginationRequest{Page: page, Limit: limit}

	rewards, err := h.rewardService.GetBusinessRewards(businessId, pagination, activeOnly)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, rewards)
}

func (h *RewardHandler) UpdateReward(c *fiber.Ctx) error {
	id := c.Params("id")

	var req models.RewardUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	businessID := c.Locals("user_id").(uuid.UUID)

	reward, err := h.rewardService.UpdateReward(businessID, id, &req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, reward)
}

func (h *RewardHandler) DeleteReward(c *fiber.Ctx) error {
	id := c.Params("id")

	businessID := c.Locals("user_id").(uuid.UUID)

	if err := h.rewardService.DeleteReward(businessID, id); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
