package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/dawaa/internal/broker"
	"github.com/example/dawaa/internal/config"
	"github.com/example/dawaa/internal/handlers"
	"github.com/example/dawaa/internal/logger"
	"github.com/example/dawaa/internal/middleware"
	"github.com/example/dawaa/internal/models"
	"github.com/example/dawaa/internal/repository"
	"github.com/example/dawaa/internal/services"
	"github.com/example/dawaa/internal/workflow"
)

// Register wires up all HTTP routes. publisher may be nil when the
// broker is not configured.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, log *logger.Logger, engines *workflow.Registry, publisher *broker.Publisher) {
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat, log.WithComponent("telegram"))

	authHandler := handlers.NewAuthHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(db)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db, orderRepo, engines, publisher, telegram, log.WithComponent("orders"))
	importHandler := handlers.NewImportHandler(db, productRepo, cfg.ImportStepDelay, log.WithComponent("import"))

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Public catalog
	api.Get("/categories", catalogHandler.ListCategories)
	api.Get("/governorates", catalogHandler.ListGovernorates)
	api.Get("/pharmacies", catalogHandler.ListPharmacies)
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	// Customer orders
	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Get("/orders", orderHandler.ListOrders)

	// Pharmacy workspace
	pharmacy := protected.Group("/pharmacy",
		middleware.RequireRole(models.RolePharmacy, models.RolePrescriptionReader, models.RoleDataEntry))
	pharmacy.Get("/orders", orderHandler.ListPharmacyOrders)
	pharmacy.Get("/orders/:id", orderHandler.GetPharmacyOrder)
	pharmacy.Post("/orders/:id/accept", orderHandler.AcceptOrder)
	pharmacy.Patch("/orders/:id/status", orderHandler.UpdateOrderStatus)
	pharmacy.Post("/orders/:id/prescription-review",
		middleware.RequireRole(models.RolePharmacy, models.RolePrescriptionReader),
		orderHandler.ReviewPrescription)

	pharmacy.Get("/products", productHandler.ListPharmacyProducts)
	pharmacy.Get("/products/import/template", importHandler.Template)
	pharmacy.Post("/products/import/validate", importHandler.ValidateImport)
	pharmacy.Post("/products/import", importHandler.CommitImport)

	// Admin catalog writes
	admin := protected.Group("", middleware.RequireRole(models.RoleAdmin))
	admin.Post("/categories", catalogHandler.CreateCategory)
	admin.Post("/governorates", catalogHandler.CreateGovernorate)
	admin.Post("/governorates/:id/cities", catalogHandler.CreateCity)
	admin.Post("/pharmacies", catalogHandler.CreatePharmacy)
}
