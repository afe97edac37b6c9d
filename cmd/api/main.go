package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-order-ws/internal/handler"
	"go-order-ws/internal/middleware"
	"go-order-ws/internal/model"
	"go-order-ws/internal/repository"
	"go-order-ws/internal/service"
	"go-order-ws/internal/ws"
	"go-order-ws/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool for production schemas)
	db.AutoMigrate(
		&model.Product{},
		&model.Customer{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryTransaction{},
		&model.User{},
	)

	// 3. Seed default admin user
	seedAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	inventoryRepo := repository.NewInventoryRepo(db)
	userRepo := repository.NewUserRepo(db)

	orderService := service.NewOrderService(orderRepo, productRepo, customerRepo, inventoryRepo, db, wsHub)
	productService := service.NewProductService(productRepo, inventoryRepo, db, wsHub)
	customerService := service.NewCustomerService(customerRepo)
	inventoryService := service.NewInventoryService(inventoryRepo)
	authService := service.NewAuthService(userRepo)

	orderHandler := handler.NewOrderHandler(orderService)
	productHandler := handler.NewProductHandler(productService)
	customerHandler := handler.NewCustomerHandler(customerService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	authHandler := handler.NewAuthHandler(authService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Order Management API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Auth routes needing an authenticated principal
	protected.Post("/auth/register", middleware.RequireRole(model.RoleAdmin), authHandler.Register)
	protected.Post("/auth/change-password", authHandler.ChangePassword)
	protected.Get("/auth/me", authHandler.Me)

	// Customer Routes
	protected.Get("/customers", customerHandler.GetCustomers)
	protected.Get("/customers/:id", customerHandler.GetCustomer)
	protected.Get("/customers/code/:code", customerHandler.GetCustomerByCode)
	protected.Post("/customers", middleware.RequireRole(model.RoleAdmin, model.RoleManager), customerHandler.CreateCustomer)
	protected.Put("/customers/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), customerHandler.UpdateCustomer)
	protected.Delete("/customers/:id", middleware.RequireRole(model.RoleAdmin), customerHandler.DeleteCustomer)

	// Product Routes
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/low-stock", productHandler.GetLowStockProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Get("/products/code/:code", productHandler.GetProductByCode)
	protected.Post("/products", middleware.RequireRole(model.RoleAdmin, model.RoleManager), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequireRole(model.RoleAdmin), productHandler.DeleteProduct)
	protected.Post("/products/:id/adjust-stock", middleware.RequireRole(model.RoleAdmin, model.RoleManager), productHandler.AdjustStock)

	// Order Routes
	protected.Get("/orders", orderHandler.GetOrders)
	protected.Get("/orders/stats", orderHandler.GetOrderStats)
	protected.Get("/orders/stats/revenue", orderHandler.GetOrderRevenue)
	protected.Get("/orders/date-range", orderHandler.GetOrdersByDateRange)
	protected.Get("/orders/number/:number", orderHandler.GetOrderByNumber)
	protected.Get("/orders/customer/:customerId", orderHandler.GetOrdersByCustomer)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Post("/orders", orderHandler.CreateOrder)
	protected.Put("/orders/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), orderHandler.UpdateOrder)
	protected.Patch("/orders/:id/status", orderHandler.UpdateOrderStatus)
	protected.Patch("/orders/:id/payment-status", middleware.RequireRole(model.RoleAdmin, model.RoleManager), orderHandler.UpdatePaymentStatus)
	protected.Delete("/orders/:id", middleware.RequireRole(model.RoleAdmin, model.RoleManager), orderHandler.DeleteOrder)

	// Inventory Ledger Routes
	protected.Get("/inventory/transactions", inventoryHandler.GetTransactions)
	protected.Get("/inventory/transactions/:id", inventoryHandler.GetTransaction)
	protected.Get("/inventory/products/:productId/transactions", inventoryHandler.GetTransactionsByProduct)
	protected.Get("/inventory/products/:productId/net-change", inventoryHandler.GetProductNetChange)

	// Dashboard Routes
	protected.Get("/dashboard/stats", inventoryHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", inventoryHandler.GetStockMovement)

	// WebSocket Route
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

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedAdmin creates the default admin user if it doesn't exist
func seedAdmin(db *gorm.DB) {
	userRepo := repository.NewUserRepo(db)

	if _, err := userRepo.FindByUsername("admin"); err == nil {
		return
	}

	admin := &model.User{
		Username: "admin",
		Email:    "admin@example.com",
		FullName: "Administrator",
		Status:   model.UserActive,
		Role:     model.RoleAdmin,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword("admin123"); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Println("Admin user created: admin / admin123 (ADMIN)")
	}
}
