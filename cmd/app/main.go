package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/sirupsen/logrus"
	"github.com/stamply/stamply-core/injector"
	"github.com/stamply/stamply-core/internal/app/services"
	"github.com/stamply/stamply-core/internal/infrastructures"
)

func main() {
	infrastructures.LoadConfig()

	app, err := injector.InitializeApplication()
	if err != nil {
		logrus.Fatalf("Failed to initialize application: %v", err)
	}

	go sweepExpiredRewards(app.RewardService)

	// Fiber configuration
	config := fiber.Config{
		ReadTimeout:  time.Second * 60,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	}

	router := fiber.New(config)

	// Add CORS middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-API-Key",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length",
		MaxAge:        300,
	}))

	app.RegisterRoutes(router)

	logrus.Fatal(router.Listen(":" + infrastructures.Config.PORT))
}

// sweepExpiredRewards periodically flips expired rewards inactive so the
// customer-facing listing filter stays honest.
func sweepExpiredRewards(rewardService *services.RewardService) {
	for {
		if err := rewardService.UpdateExpiredRewards(); err != nil {
			logrus.Errorf("Failed to sweep expired rewards: %v", err)
		}
		time.Sleep(time.Hour)
	}
}
