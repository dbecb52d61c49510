package deliveries

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stamply/stamply-core/internal/app/middlewares"
	"github.com/stamply/stamply-core/internal/app/pkg"
	"github.com/stamply/stamply-core/internal/app/services"
	"github.com/stamply/stamply-core/pkg/ratelimit"
)

type ClientCardHandler struct {
	clientCardService   *services.ClientCardService
	authMiddleware      *middlewares.AuthMiddleware
	rateLimitMiddleware *middlewares.RateLimitMiddleware
}

func NewClientCardHandler(clientCardService *services.ClientCardService, authMiddleware *middlewares.AuthMiddleware, rateLimitMiddleware *middlewares.RateLimitMiddleware) *ClientCardHandler {
	return &ClientCardHandler{
		clientCardService:   clientCardService,
		authMiddleware:      authMiddleware,
		rateLimitMiddleware: rateLimitMiddleware,
	}
}

func (h *ClientCardHandler) RegisterRoutes(router fiber.Router) {
	cardGroup := router.Group("/client-cards")
	cardGroup.Use(h.authMiddleware.RequireAuth, h.rateLimitMiddleware.LimitByUser(ratelimit.AuthenticatedAPILimit), h.authMiddleware.RequireClient)

	cardGroup.Get("/", h.GetClientCards)
	cardGroup.Get("/:id/history", h.GetCardHistory)
}

// GetClientCards returns the authenticated client's cards with derived
// available balances. The portal calls this after every mutating action.
func (h *ClientCardHandler) GetClientCards(c *fiber.Ctx) error {
	clientID := c.Locals("user_id").(uuid.UUID)

	cards, err := h.clientCardService.GetClientCards(clientID)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, cards)
}

func (h *ClientCardHandler) GetCardHistory(c *fiber.Ctx) error {
	clientID := c.Locals("user_id").(uuid.UUID)
	id := c.Params("id")

	limit, err := strconv.Atoi(c.Query("limit", "50"))
	if err != nil {
		limit = 50
	}

	history, err := h.clientCardService.GetCardHistory(clientID, id, limit)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, history)
}
