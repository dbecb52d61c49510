package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/stamply/stamply-core/internal/app/errors"
	"github.com/stamply/stamply-core/internal/app/models"
	"github.com/stamply/stamply-core/internal/app/pkg"
	"github.com/stamply/stamply-core/internal/infrastructures"
)

type AuthMiddleware struct{}

func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{}
}

// RequireAuth parses the bearer token and stores user_id and user_type in
// locals for downstream handlers.
func (m *AuthMiddleware) RequireAuth(c *fiber.Ctx) error {
	token := c.Get("Authorization")
	if token == "" {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError())
	}

	token = strings.Replace(token, "Bearer ", "", 1)

	userID, userType, err := pkg.ParseAccessToken(infrastructures.Config.JWT_SECRET, token)
	if err != nil {
		return pkg.ErrorResponse(c, errors.NewUnauthorizedError("Invalid or expired token"))
	}

	c.Locals("user_id", userID)
	c.Locals("user_type", userType)

	return c.Next()
}

// RequireBusiness gates a route to business accounts. Must run after RequireAuth.
func (m *AuthMiddleware) RequireBusiness(c *fiber.Ctx) error {
	if userType, ok := c.Locals("user_type").(models.UserType); !ok || userType != models.UserTypeBusiness {
		return pkg.ErrorResponse(c, errors.NewForbiddenError("Business account required"))
	}
	return c.Next()
}

// RequireClient gates a route to client accounts. Must run after RequireAuth.
func (m *AuthMiddleware) RequireClient(c *fiber.Ctx) error {
	if userType, ok := c.Locals("user_type").(models.UserType); !ok || userType != models.UserTypeClient {
		return pkg.ErrorResponse(c, errors.NewForbiddenError("Client account required"))
	}
	return c.Next()
}
