package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"pharmasave/internal/adapters/http/middleware"
	"pharmasave/internal/adapters/http/routes"
	"pharmasave/internal/adapters/persistence/models"
	"pharmasave/internal/adapters/persistence/repositories"
	"pharmasave/internal/config"
	"pharmasave/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "pharmasave/docs" // Swagger docs
)

// @title PharmaSave API
// @version 1.0
// @description Near-expiry medicine marketplace: pharmacies list discounted stock, citizens reserve and pick it up before it expires.

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed demo data in development
	if cfg.IsDev() {
		if err := config.NewSeeder(db).Run(); err != nil {
			log.Printf("⚠️ Warning: Failed to seed demo data: %v", err)
		}
	}

	// Start the nightly jobs: stored discount tiers decay with the
	// calendar, so derived fields are refreshed every morning, and
	// expired refresh tokens are purged alongside
	cronService := services.NewCronService(
		repositories.NewMedicineRepository(db),
		repositories.NewRefreshTokenRepository(db),
	)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "PharmaSave API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
