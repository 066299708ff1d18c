package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"stockroom/internal/handler"
	"stockroom/internal/middleware"
	"stockroom/internal/model"
	"stockroom/internal/repository"
	"stockroom/internal/service"
	"stockroom/internal/ws"
	"stockroom/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup database
	db := database.ConnectDB()
	db.AutoMigrate(
		&model.Product{}, &model.Variation{},
		&model.Supplier{},
		&model.PurchaseOrder{}, &model.PurchaseOrderItem{},
		&model.SalesOrder{}, &model.SalesOrderItem{},
		&model.StockMovement{},
		&model.User{}, &model.Group{}, &model.Permission{},
	)

	// 3. Seed permissions, default groups, and the admin user
	seedPermissionsGroupsAndAdmin(db)

	// 4. Setup websocket hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency injection (wiring layers)
	productRepo := repository.NewProductRepo(db)
	variationRepo := repository.NewVariationRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	purchaseRepo := repository.NewPurchaseOrderRepo(db)
	salesRepo := repository.NewSalesOrderRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	userRepo := repository.NewUserRepo(db)
	groupRepo := repository.NewGroupRepo(db)
	permissionRepo := repository.NewPermissionRepo(db)

	catalogService := service.NewCatalogService(productRepo, variationRepo, movementRepo, db, wsHub)
	supplierService := service.NewSupplierService(supplierRepo)
	purchaseService := service.NewPurchaseOrderService(purchaseRepo, supplierRepo, variationRepo, movementRepo, db, wsHub)
	salesService := service.NewSalesOrderService(salesRepo, variationRepo, movementRepo, db, wsHub)
	dashService := service.NewDashboardService(movementRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, groupRepo, permissionRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	purchaseHandler := handler.NewPurchaseOrderHandler(purchaseService)
	salesHandler := handler.NewSalesOrderHandler(salesService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	groupHandler := handler.NewGroupHandler(userService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Stockroom v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Request logging
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard/stats", middleware.RequirePermission("dashboard:view"), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", middleware.RequirePermission("dashboard:view"), dashHandler.GetStockMovement)

	// Catalog: products and variations
	protected.Get("/products", middleware.RequirePermission("product:view"), catalogHandler.GetProducts)
	protected.Post("/products", middleware.RequirePermission("product:create"), catalogHandler.CreateProduct)
	protected.Get("/products/:id", middleware.RequirePermission("product:view"), catalogHandler.GetProduct)
	protected.Put("/products/:id", middleware.RequirePermission("product:update"), catalogHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequirePermission("product:delete"), catalogHandler.DeleteProduct)
	protected.Get("/products/:id/variations", middleware.RequirePermission("product:view"), catalogHandler.GetProductVariations)
	protected.Post("/products/:id/variations", middleware.RequirePermission("product:create"), catalogHandler.CreateProductVariation)

	protected.Get("/variations/low-stock", middleware.RequirePermission("product:view"), catalogHandler.GetLowStockVariations)
	protected.Get("/variations/:id", middleware.RequirePermission("product:view"), catalogHandler.GetVariation)
	protected.Put("/variations/:id", middleware.RequirePermission("product:update"), catalogHandler.UpdateVariation)
	protected.Delete("/variations/:id", middleware.RequirePermission("product:delete"), catalogHandler.DeleteVariation)
	protected.Post("/variations/:id/adjust-stock", middleware.RequirePermission("variation:adjust_stock"), catalogHandler.AdjustStock)

	// Suppliers
	protected.Get("/suppliers", middleware.RequirePermission("supplier:view"), supplierHandler.GetSuppliers)
	protected.Post("/suppliers", middleware.RequirePermission("supplier:create"), supplierHandler.CreateSupplier)
	protected.Get("/suppliers/:id", middleware.RequirePermission("supplier:view"), supplierHandler.GetSupplier)
	protected.Put("/suppliers/:id", middleware.RequirePermission("supplier:update"), supplierHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", middleware.RequirePermission("supplier:delete"), supplierHandler.DeleteSupplier)

	// Purchase orders
	protected.Get("/purchase-orders", middleware.RequirePermission("purchase:view"), purchaseHandler.GetPurchaseOrders)
	protected.Post("/purchase-orders", middleware.RequirePermission("purchase:create"), purchaseHandler.CreatePurchaseOrder)
	protected.Get("/purchase-orders/:id", middleware.RequirePermission("purchase:view"), purchaseHandler.GetPurchaseOrder)
	protected.Patch("/purchase-orders/:id", middleware.RequirePermission("purchase:receive"), purchaseHandler.TransitionPurchaseOrder)
	protected.Delete("/purchase-orders/:id", middleware.RequirePermission("purchase:create"), purchaseHandler.DeletePurchaseOrder)

	// Sales orders
	protected.Get("/sales-orders", middleware.RequirePermission("sales:view"), salesHandler.GetSalesOrders)
	protected.Post("/sales-orders", middleware.RequirePermission("sales:create"), salesHandler.CreateSalesOrder)
	protected.Get("/sales-orders/:id", middleware.RequirePermission("sales:view"), salesHandler.GetSalesOrder)
	protected.Patch("/sales-orders/:id", middleware.RequirePermission("sales:fulfill"), salesHandler.TransitionSalesOrder)
	protected.Delete("/sales-orders/:id", middleware.RequirePermission("sales:create"), salesHandler.DeleteSalesOrder)

	// User management
	protected.Get("/users/me", userHandler.GetCurrentUser)
	protected.Get("/users", middleware.RequirePermission("user:view"), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePermission("user:view"), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePermission("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePermission("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePermission("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/groups", middleware.RequirePermission("user:assign_groups"), userHandler.AssignGroups)

	// Groups and permissions (admin only, as in the original API)
	protected.Get("/groups", middleware.RequireAdmin(), groupHandler.GetGroups)
	protected.Post("/groups", middleware.RequireAdmin(), groupHandler.CreateGroup)
	protected.Put("/groups/:id", middleware.RequireAdmin(), groupHandler.UpdateGroup)
	protected.Delete("/groups/:id", middleware.RequireAdmin(), groupHandler.DeleteGroup)
	protected.Get("/permissions", middleware.RequireAdmin(), groupHandler.GetPermissions)

	// WebSocket route
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

	// 8. Graceful shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPermissionsGroupsAndAdmin creates default permissions, groups, and
// the admin user if they don't exist
func seedPermissionsGroupsAndAdmin(db *gorm.DB) {
	permissionRepo := repository.NewPermissionRepo(db)
	groupRepo := repository.NewGroupRepo(db)
	userRepo := repository.NewUserRepo(db)

	// 1. Permissions first, groups reference them
	if err := permissionRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed permissions: %v", err)
	}

	// 2. Default groups with their permission sets
	if err := groupRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed groups: %v", err)
	}

	// 3. Default admin user (staff flag set, no group needed)
	if _, err := userRepo.FindByUsername("admin"); err != nil {
		admin := &model.User{
			Username: "admin",
			Email:    "admin@example.com",
			IsAdmin:  true,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		password := os.Getenv("ADMIN_PASSWORD")
		if password == "" {
			password = "admin123"
		}
		if err := admin.SetPassword(password); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin / (ADMIN_PASSWORD or default)")
		}
	}
}
