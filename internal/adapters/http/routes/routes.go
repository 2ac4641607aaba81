package routes

import (
	"time"

	"pharmasave/internal/adapters/http/handlers"
	"pharmasave/internal/adapters/http/middleware"
	"pharmasave/internal/adapters/persistence/repositories"
	"pharmasave/internal/config"
	"pharmasave/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	pharmacyRepo := repositories.NewPharmacyRepository(db)
	medicineRepo := repositories.NewMedicineRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	pharmacyService := services.NewPharmacyService(pharmacyRepo)
	medicineService := services.NewMedicineService(medicineRepo, pharmacyRepo)
	orderService := services.NewOrderService(orderRepo, medicineRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	pharmacyHandler := handlers.NewPharmacyHandler(pharmacyService)
	medicineHandler := handlers.NewMedicineHandler(medicineService)
	orderHandler := handlers.NewOrderHandler(orderService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API group
	api := app.Group("/api")

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Post("/logout", middleware.AuthMiddleware(cfg), authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Medicine routes (listings public, creation protected)
	medicineRoutes := api.Group("/medicines")
	medicineRoutes.Get("/", medicineHandler.List)
	medicineRoutes.Get("/search", medicineHandler.Search)
	medicineRoutes.Get("/:id", medicineHandler.GetByID)
	medicineRoutes.Post("/", middleware.AuthMiddleware(cfg), medicineHandler.Create)

	// Pharmacy routes (directory public, creation protected)
	pharmacyRoutes := api.Group("/pharmacies")
	pharmacyRoutes.Get("/nearby", middleware.CacheControl(time.Minute), pharmacyHandler.Nearby)
	pharmacyRoutes.Get("/my", middleware.AuthMiddleware(cfg), pharmacyHandler.My)
	pharmacyRoutes.Get("/:id", middleware.CacheControl(time.Minute), pharmacyHandler.GetByID)
	pharmacyRoutes.Post("/", middleware.AuthMiddleware(cfg), pharmacyHandler.Create)

	// Order routes (all protected, never cached)
	orderRoutes := api.Group("/orders")
	orderRoutes.Use(middleware.AuthMiddleware(cfg))
	orderRoutes.Use(middleware.NoCacheHeaders())
	orderRoutes.Post("/", orderHandler.Create)
	orderRoutes.Get("/my", orderHandler.My)
	orderRoutes.Get("/pharmacy/:pharmacyId", orderHandler.ByPharmacy)
	orderRoutes.Put("/:id", orderHandler.UpdateStatus)
}
