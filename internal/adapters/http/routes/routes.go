package routes

import (
	"arthi-backend/internal/adapters/http/handlers"
	"arthi-backend/internal/adapters/http/middleware"
	"arthi-backend/internal/adapters/payment"
	"arthi-backend/internal/adapters/persistence/repositories"
	"arthi-backend/internal/config"
	"arthi-backend/internal/core/domain"
	"arthi-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers, and registers all routes
func Setup(app *fiber.App, db *gorm.DB, gateway payment.Gateway, cfg *config.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	productRepo := repositories.NewProductRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo)
	applicationService := services.NewApplicationService(applicationRepo, productRepo)
	paymentService := services.NewPaymentService(gateway, applicationRepo, paymentRepo, cfg)
	dashboardService := services.NewDashboardService(db)

	// Handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Authorization gate building blocks
	protect := middleware.Protect(cfg)
	borrowerOnly := middleware.RequireRoles(userRepo, domain.RoleBorrower)
	staffOnly := middleware.StaffOnly(userRepo)
	adminOnly := middleware.AdminOnly(userRepo)
	anyRole := middleware.RequireRoles(userRepo, domain.RoleBorrower, domain.RoleManager, domain.RoleAdmin)

	// Health & docs
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api/v1")
	api.Get("/", healthHandler.APIInfo)

	// Auth (public, stricter rate limit)
	auth := api.Group("/auth", middleware.AuthRateLimiter(), middleware.NoCacheHeaders())
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	// Profile (authenticated)
	api.Get("/me", protect, userHandler.Me)
	api.Patch("/me", protect, userHandler.UpdateMe)

	// User administration
	api.Get("/users", protect, adminOnly, userHandler.List)
	api.Get("/users/:email", protect, staffOnly, userHandler.GetByEmail)
	api.Patch("/users/:id/role", protect, adminOnly, userHandler.UpdateRole)
	api.Patch("/users/:id/suspend", protect, adminOnly, userHandler.Suspend)
	api.Patch("/users/:id/approve", protect, adminOnly, userHandler.Approve)

	// Loan product catalog (public reads, staff writes)
	api.Get("/loans", middleware.CatalogCache(), productHandler.List)
	api.Get("/loans/:id", middleware.CatalogCache(), productHandler.GetByID)
	api.Post("/loans", protect, staffOnly, productHandler.Create)
	api.Patch("/loans/:id", protect, staffOnly, productHandler.Update)
	api.Delete("/loans/:id", protect, staffOnly, productHandler.Delete)

	// Loan applications
	api.Post("/apply-loan", protect, borrowerOnly, applicationHandler.Apply)
	api.Get("/my-applications", protect, applicationHandler.MyApplications)
	api.Get("/pending-applications", protect, staffOnly, applicationHandler.Pending)
	api.Get("/approved-applications", protect, staffOnly, applicationHandler.Approved)
	api.Get("/applications", protect, staffOnly, applicationHandler.List)
	// Any known role may request a transition; the service enforces the
	// required actor per edge (staff approve/reject, owner cancels)
	api.Patch("/application/:id", protect, anyRole, applicationHandler.Transition)

	// Fee payments
	api.Post("/application-fee", protect, borrowerOnly, middleware.NoCacheHeaders(), paymentHandler.ApplicationFee)
	api.Post("/payment-success", protect, borrowerOnly, middleware.NoCacheHeaders(), paymentHandler.PaymentSuccess)
	api.Get("/payment-info/:id", protect, paymentHandler.PaymentInfo)

	// Dashboard
	api.Get("/dashboard/summary", protect, staffOnly, dashboardHandler.Summary)
}
