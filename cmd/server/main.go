package main

import (
	"log"

	"signup-api/internal/api"
	"signup-api/internal/config"
	"signup-api/internal/database"
	"signup-api/internal/services"
	"signup-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatal("Failed to initialize config:", err)
	}

	// Initialize logging
	logging.InitLogging(config.AppConfig.Mode)

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Set Gin mode
	gin.SetMode(config.AppConfig.Mode)

	// Create Gin engine
	r := gin.Default()

	// Wire services and routes
	store := services.NewSessionStore()
	accounts := services.NewAccountService()
	checkout := services.NewCheckoutService(
		services.NewPaymentGateway(),
		services.NewEmailService(),
		services.NewAffiliateNotifier(),
	)
	api.SetupRoutes(r, store, accounts, checkout)

	// Start server
	port := config.AppConfig.Port
	logging.Infof("Starting server on port %s", port)

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
