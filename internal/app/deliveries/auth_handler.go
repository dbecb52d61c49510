package deliveries

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stamply/stamply-core/internal/app/models"
	"github.com/stamply/stamply-core/internal/app/pkg"
	"github.com/stamply/stamply-core/internal/app/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	// Login paths are split by audience so the portals can stay apart.
	router.Post("/business/register", h.RegisterBusiness)
	router.Post("/business/login", h.LoginBusiness)
	router.Post("/clients/register", h.RegisterClient)
	router.Post("/clients/login", h.LoginClient)

	authGroup := router.Group("/auth")
	authGroup.Post("/refresh", h.Refresh)
	authGroup.Post("/logout", h.Logout)
}

func (h *AuthHandler) RegisterBusiness(c *fiber.Ctx) error {
	var req models.RegisterBusinessRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	response, err := h.authService.RegisterBusiness(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}

func (h *AuthHandler) LoginBusiness(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	response, err := h.authService.LoginBusiness(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}

func (h *AuthHandler) RegisterClient(c *fiber.Ctx) error {
	var req models.RegisterClientRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	response, err := h.authService.RegisterClient(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}

func (h *AuthHandler) LoginClient(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	response, err := h.authService.LoginClient(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req models.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	response, err := h.authService.Refresh(&req)
	if err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse(c, response)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req models.LogoutRequest
	if err := c.BodyParser(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	if err := h.authService.Logout(&req); err != nil {
		return pkg.ErrorResponse(c, err)
	}

	return pkg.SuccessResponse[any](c, nil)
}
