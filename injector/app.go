package injector

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stamply/stamply-core/internal/app/deliveries"
	"github.com/stamply/stamply-core/internal/app/middlewares"
	"github.com/stamply/stamply-core/internal/app/services"
	"github.com/stamply/stamply-core/pkg/ratelimit"
)

// Application represents the main application container for stamply-core
type Application struct {
	HealthHandler       *deliveries.HealthHandler
	AuthHandler         *deliveries.AuthHandler
	RewardHandler       *deliveries.RewardHandler
	ClientCardHandler   *deliveries.ClientCardHandler
	StampCodeHandler    *deliveries.StampCodeHandler
	RedemptionHandler   *deliveries.RedemptionHandler
	PosKeyHandler       *deliveries.PosKeyHandler
	RewardService       *services.RewardService
	RateLimitMiddleware *middlewares.RateLimitMiddleware
}

// RegisterRoutes registers all application routes using a Fiber router
func (app *Application) RegisterRoutes(router fiber.Router) {
	// Apply global rate limit for public API; authenticated routes add a
	// per-user limit in their own handler registrations, after auth runs.
	router.Use(app.RateLimitMiddleware.LimitByIP(ratelimit.PublicAPILimit))

	// Login, register and refresh get the stricter auth limit
	router.Use("/business/login", app.RateLimitMiddleware.LimitByIP(ratelimit.AuthLimit))
	router.Use("/business/register", app.RateLimitMiddleware.LimitByIP(ratelimit.AuthLimit))
	router.Use("/clients/login", app.RateLimitMiddleware.LimitByIP(ratelimit.AuthLimit))
	router.Use("/clients/register", app.RateLimitMiddleware.LimitByIP(ratelimit.AuthLimit))
	router.Use("/auth", app.RateLimitMiddleware.LimitByIP(ratelimit.AuthLimit))

	// Register all handlers
	app.HealthHandler.RegisterRoutes(router)
	app.AuthHandler.RegisterRoutes(router)
	app.RewardHandler.RegisterRoutes(router)
	app.ClientCardHandler.RegisterRoutes(router)
	app.StampCodeHandler.RegisterRoutes(router)
	app.RedemptionHandler.RegisterRoutes(router)
	app.PosKeyHandler.RegisterRoutes(router)
}
