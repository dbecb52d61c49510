//go:build wireinject
// +build wireinject

package injector

import (
	"github.com/google/wire"
	"github.com/stamply/stamply-core/internal/app/deliveries"
	"github.com/stamply/stamply-core/internal/app/middlewares"
	"github.com/stamply/stamply-core/internal/app/services"
	"github.com/stamply/stamply-core/internal/infrastructures"
	"github.com/stamply/stamply-core/pkg/ratelimit"
)

// Infrastructure providers
var infrastructureSet = wire.NewSet(
	infrastructures.NewDatabase,
	infrastructures.NewRedisClient,
	infrastructures.NewValidator,
	wire.Value("stamply"),
	wire.Bind(new(ratelimit.RateLimiter), new(*ratelimit.RedisRateLimiter)),
	ratelimit.NewRedisRateLimiter,
)

// Service providers
var serviceSet = wire.NewSet(
	services.NewAuditService,
	services.NewAuthService,
	services.NewRewardService,
	services.NewClientCardService,
	services.NewStampCodeService,
	services.NewRedemptionService,
	services.NewPosKeyService,
)

// Middleware providers
var middlewareSet = wire.NewSet(
	middlewares.NewAuthMiddleware,
	middlewares.NewRateLimitMiddleware,
	middlewares.NewAPIKeyMiddleware,
)

// Handler providers
var handlerSet = wire.NewSet(
	deliveries.NewHealthHandler,
	deliveries.NewAuthHandler,
	deliveries.NewRewardHandler,
	deliveries.NewClientCardHandler,
	deliveries.NewStampCodeHandler,
	deliveries.NewRedemptionHandler,
	deliveries.NewPosKeyHandler,
	wire.Struct(new(Application), "*"), // This tells Wire to build the Application struct
)

// InitializeApplication initializes the application with all its dependencies
func InitializeApplication() (*Application, error) {
	wire.Build(
		infrastructureSet,
		serviceSet,
		middlewareSet,
		handlerSet,
	)
	return &Application{}, nil // Wire will populate the Application struct based on handlerSet
}
