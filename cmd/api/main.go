package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-pos-ws/internal/handler"
	"go-pos-ws/internal/middleware"
	"go-pos-ws/internal/model"
	"go-pos-ws/internal/repository"
	"go-pos-ws/internal/service"
	"go-pos-ws/internal/ws"
	"go-pos-ws/pkg/config"
	"go-pos-ws/pkg/database"
	"go-pos-ws/pkg/jwt"
	pkglogger "go-pos-ws/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()
	jwt.SetSecret(cfg.JWTSecret)

	log := pkglogger.New()
	defer log.Sync()

	// Database
	db := database.ConnectDB(cfg.DatabaseURL)
	if err := db.AutoMigrate(
		&model.Category{}, &model.Product{}, &model.CashierStock{},
		&model.StockDistribution{}, &model.StockReturn{}, &model.StockAdjustment{},
		&model.Sale{}, &model.SaleItem{}, &model.SaleTax{},
		&model.TaxType{}, &model.QRISPayment{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	); err != nil {
		log.Fatal("auto-migration failed", zap.Error(err))
	}

	seedDefaults(db, log)

	// WebSocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// Wiring
	productRepo := repository.NewProductRepo(db)
	cashierStockRepo := repository.NewCashierStockRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	taxTypeRepo := repository.NewTaxTypeRepo(db)
	qrisRepo := repository.NewQRISPaymentRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	provider := service.NewHTTPProvider(cfg.QRISProviderURL)

	invService := service.NewInventoryService(productRepo, cashierStockRepo, movementRepo, db, wsHub, log)
	movService := service.NewMovementService(productRepo, cashierStockRepo, movementRepo, userRepo, db, wsHub, log)
	saleService := service.NewSaleService(productRepo, cashierStockRepo, saleRepo, taxTypeRepo, db, wsHub, log)
	qrisService := service.NewQRISService(saleService, cashierStockRepo, saleRepo, qrisRepo, provider, db, wsHub, log, cfg.QRISExpiry, cfg.QRISPollInterval)
	taxService := service.NewTaxService(taxTypeRepo)
	dashService := service.NewDashboardService(movementRepo, saleRepo, db)
	authService := service.NewAuthService(userRepo, wsHub, log)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	productHandler := handler.NewProductHandler(invService)
	stockHandler := handler.NewStockHandler(movService, invService)
	saleHandler := handler.NewSaleHandler(saleService, qrisService)
	taxHandler := handler.NewTaxHandler(taxService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)

	// Background sweeper: fail pending QRIS payments past their expiry so
	// sales don't stay PENDING forever when nobody polls
	sweepStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.QRISSweepEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := qrisService.ExpireStale(); err != nil {
					log.Warn("qris expiry sweep failed", zap.Error(err))
				} else if n > 0 {
					log.Info("expired stale qris payments", zap.Int("count", n))
				}
			case <-sweepStop:
				return
			}
		}
	}()

	app := fiber.New(fiber.Config{
		AppName: "POS Backend v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard & reports
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", middleware.RequirePrivilege("report:view"), dashHandler.GetStockMovement)
	protected.Get("/dashboard/sales-summary", middleware.RequirePrivilege("report:view"), dashHandler.GetSalesSummary)

	// Product catalog
	protected.Get("/products", middleware.RequirePrivilege("product:view"), productHandler.GetProducts)
	protected.Get("/products/:id", middleware.RequirePrivilege("product:view"), productHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), productHandler.DeleteProduct)
	protected.Post("/products/:id/adjust-stock", middleware.RequirePrivilege("stock:adjust"), stockHandler.AdjustStock)

	// Categories
	protected.Get("/categories", middleware.RequirePrivilege("product:view"), productHandler.GetCategories)
	protected.Post("/categories", middleware.RequirePrivilege("product:create"), productHandler.CreateCategory)

	// Stock movement
	protected.Post("/stocks/distribute", middleware.RequirePrivilege("stock:distribute"), stockHandler.Distribute)
	protected.Post("/stocks/return", middleware.RequirePrivilege("stock:return"), stockHandler.Return)
	protected.Get("/stocks/mine", middleware.RequirePrivilege("stock:view"), stockHandler.GetMyStock)
	protected.Get("/stocks/cashiers/:cashierId", middleware.RequirePrivilege("stock:view"), stockHandler.GetCashierStock)
	protected.Get("/stocks/distributions", middleware.RequirePrivilege("stock:view"), stockHandler.GetDistributions)
	protected.Get("/stocks/returns", middleware.RequirePrivilege("stock:view"), stockHandler.GetReturns)

	// Sales & checkout
	protected.Post("/sales", middleware.RequirePrivilege("sale:create"), saleHandler.Checkout)
	protected.Post("/sales/preview", middleware.RequirePrivilege("sale:create"), saleHandler.PreviewTotals)
	protected.Post("/sales/qris", middleware.RequirePrivilege("sale:create"), saleHandler.InitiateQRIS)
	protected.Get("/sales/qris/:paymentId", middleware.RequirePrivilege("sale:view"), saleHandler.PollQRIS)
	protected.Get("/sales", middleware.RequirePrivilege("sale:view"), saleHandler.GetSales)
	protected.Get("/sales/:id", middleware.RequirePrivilege("sale:view"), saleHandler.GetSale)
	protected.Post("/sales/:id/cancel", middleware.RequirePrivilege("sale:cancel"), saleHandler.CancelSale)

	// Tax settings
	protected.Get("/taxes", middleware.RequirePrivilege("tax:view"), taxHandler.GetTaxTypes)
	protected.Post("/taxes", middleware.RequirePrivilege("tax:manage"), taxHandler.CreateTaxType)
	protected.Put("/taxes/:id", middleware.RequirePrivilege("tax:manage"), taxHandler.UpdateTaxType)
	protected.Delete("/taxes/:id", middleware.RequirePrivilege("tax:manage"), taxHandler.DeleteTaxType)

	// User management
	protected.Get("/users", middleware.RequirePrivilege("user:view"), userHandler.GetUsers)
	protected.Get("/users/cashiers", middleware.RequirePrivilege("user:view"), userHandler.GetCashiers)
	protected.Get("/users/:id", middleware.RequirePrivilege("user:view"), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Roles & privileges
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	close(sweepStop)
	if err := app.Shutdown(); err != nil {
		log.Fatal("server forced to shutdown", zap.Error(err))
	}
	log.Info("server exited")
}

// seedDefaults creates the privilege catalog, the default roles with their
// policy grants, and the initial MASTER_ADMIN account.
func seedDefaults(db *gorm.DB, log *zap.Logger) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Warn("failed to seed privileges", zap.Error(err))
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Warn("failed to seed roles", zap.Error(err))
	}

	if _, err := userRepo.FindByEmail("admin@example.com"); err == nil {
		return
	}

	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err != nil {
		log.Warn("master admin role missing, skipping admin seed", zap.Error(err))
		return
	}

	admin := &model.User{
		Email:      "admin@example.com",
		FullName:   "Master Administrator",
		RoleID:     &masterRole.ID,
		IsActive:   true,
		Privileges: masterRole.Privileges,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword("admin123"); err != nil {
		log.Warn("failed to hash admin password", zap.Error(err))
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Warn("failed to create admin user", zap.Error(err))
		return
	}
	log.Info("admin user created", zap.String("email", admin.Email))
}
