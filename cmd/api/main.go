package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go-pharmacy-pos/internal/cache"
	"go-pharmacy-pos/internal/handler"
	"go-pharmacy-pos/internal/middleware"
	"go-pharmacy-pos/internal/model"
	"go-pharmacy-pos/internal/repository"
	"go-pharmacy-pos/internal/service"
	"go-pharmacy-pos/internal/ws"
	"go-pharmacy-pos/pkg/database"

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
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.Medicine{}, &model.Sale{}, &model.Purchase{},
		&model.Customer{}, &model.Supplier{}, &model.Vendor{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dashboard cache (optional; stats are recomputed on miss)
	statsCache := newStatsCache()

	// 6. Dependency Injection (Wiring Layers)
	medicineRepo := repository.NewMedicineRepo(db)
	saleRepo := repository.NewSaleRepo(db, medicineRepo)
	purchaseRepo := repository.NewPurchaseRepo(db, medicineRepo)
	customerRepo := repository.NewCustomerRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	vendorRepo := repository.NewVendorRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	invService := service.NewInventoryService(medicineRepo, db, wsHub)
	salesService := service.NewSalesService(saleRepo, medicineRepo, wsHub)
	purchaseService := service.NewPurchaseService(purchaseRepo)
	reportService := service.NewReportService(medicineRepo, saleRepo, statsCache)
	authService := service.NewAuthService(userRepo, roleRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	invHandler := handler.NewInventoryHandler(invService)
	posHandler := handler.NewPOSHandler(salesService)
	salesHandler := handler.NewSalesHandler(salesService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	customerHandler := handler.NewCustomerHandler(customerRepo)
	supplierHandler := handler.NewSupplierHandler(supplierRepo)
	vendorHandler := handler.NewVendorHandler(vendorRepo)
	reportHandler := handler.NewReportHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Pharmacy POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"terminals": wsHub.ClientCount(),
		})
	})

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/register", authHandler.Register)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Medicine catalog (reads for anyone with inventory visibility, writes for managers)
	protected.Get("/medicines", middleware.RequirePrivilege("view_inventory"), invHandler.GetMedicines)
	protected.Get("/medicines/barcode/:code", middleware.RequirePrivilege("view_inventory"), invHandler.GetMedicineByBarcode)
	protected.Get("/medicines/:id", middleware.RequirePrivilege("view_inventory"), invHandler.GetMedicine)
	protected.Post("/medicines", middleware.RequirePrivilege("manage_inventory"), invHandler.CreateMedicine)
	protected.Put("/medicines/:id", middleware.RequirePrivilege("manage_inventory"), invHandler.UpdateMedicine)
	protected.Delete("/medicines/:id", middleware.RequirePrivilege("manage_inventory"), invHandler.DeleteMedicine)

	// Point of sale
	protected.Post("/pos/checkout", middleware.RequirePrivilege("process_sales"), posHandler.Checkout)

	// Sales ledger (cashiers record, pharmacists and admins review)
	protected.Post("/sales", middleware.RequirePrivilege("process_sales"), salesHandler.CreateSale)
	protected.Get("/sales", middleware.RequireAnyPrivilege("manage_sales", "process_sales"), salesHandler.GetSales)
	protected.Get("/sales/:id", middleware.RequireAnyPrivilege("manage_sales", "process_sales"), salesHandler.GetSale)

	// Purchase ledger
	protected.Post("/purchases", middleware.RequirePrivilege("manage_inventory"), purchaseHandler.CreatePurchase)
	protected.Get("/purchases", middleware.RequirePrivilege("view_inventory"), purchaseHandler.GetPurchases)
	protected.Get("/purchases/:id", middleware.RequirePrivilege("view_inventory"), purchaseHandler.GetPurchase)
	protected.Put("/purchases/:id/status", middleware.RequirePrivilege("manage_inventory"), purchaseHandler.UpdateStatus)

	// Directories
	protected.Post("/customers", middleware.RequireAnyPrivilege("manage_sales", "process_sales"), customerHandler.CreateCustomer)
	protected.Get("/customers", customerHandler.GetCustomers)
	protected.Get("/customers/:id", customerHandler.GetCustomer)
	protected.Put("/customers/:id", middleware.RequireAnyPrivilege("manage_sales", "process_sales"), customerHandler.UpdateCustomer)
	protected.Delete("/customers/:id", middleware.RequirePrivilege("manage_sales"), customerHandler.DeleteCustomer)

	protected.Post("/suppliers", middleware.RequirePrivilege("manage_inventory"), supplierHandler.CreateSupplier)
	protected.Get("/suppliers", supplierHandler.GetSuppliers)
	protected.Get("/suppliers/:id", supplierHandler.GetSupplier)
	protected.Put("/suppliers/:id", middleware.RequirePrivilege("manage_inventory"), supplierHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", middleware.RequirePrivilege("manage_inventory"), supplierHandler.DeleteSupplier)

	protected.Post("/vendors", middleware.RequirePrivilege("manage_inventory"), vendorHandler.CreateVendor)
	protected.Get("/vendors", vendorHandler.GetVendors)
	protected.Get("/vendors/:id", vendorHandler.GetVendor)
	protected.Put("/vendors/:id", middleware.RequirePrivilege("manage_inventory"), vendorHandler.UpdateVendor)
	protected.Delete("/vendors/:id", middleware.RequirePrivilege("manage_inventory"), vendorHandler.DeleteVendor)

	// Reporting (dashboard stats are open to any authenticated user)
	protected.Get("/reports/dashboard", reportHandler.GetDashboardStats)
	protected.Get("/reports/expiring", reportHandler.GetExpiringAlerts)
	protected.Get("/reports/low-stock", middleware.RequirePrivilege("view_reports"), reportHandler.GetLowStockReport)
	protected.Get("/reports/inventory", middleware.RequirePrivilege("view_reports"), reportHandler.GetInventoryReport)
	protected.Get("/reports/sales", middleware.RequirePrivilege("view_reports"), reportHandler.GetSalesReport)
	protected.Get("/reports/financial", middleware.RequirePrivilege("view_reports"), reportHandler.GetFinancialReport)
	protected.Get("/reports/top-selling", middleware.RequirePrivilege("view_reports"), reportHandler.GetTopSelling)
	protected.Get("/reports/export", middleware.RequirePrivilege("view_reports"), reportHandler.ExportReport)

	// User Management Routes
	protected.Get("/users", middleware.RequirePrivilege("manage_users"), userHandler.GetUsers)
	protected.Get("/users/:id", middleware.RequirePrivilege("manage_users"), userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("manage_users"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("manage_users"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("manage_users"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("manage_users"), userHandler.UpdateUserPrivileges)

	// Role and Privilege catalogs
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

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

	// 9. Graceful Shutdown
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

	if closer, ok := statsCache.(interface{ Close() error }); ok {
		closer.Close()
	}

	log.Println("Server exited")
}

// newStatsCache reads Redis settings from the environment. Without a
// REDIS_ADDR the dashboard simply recomputes stats on every request.
func newStatsCache() cache.StatsCache {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return cache.NoopStatsCache{}
	}

	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if parsed, err := strconv.Atoi(dbStr); err == nil {
			redisDB = parsed
		}
	}

	return cache.NewRedisStatsCache(addr, os.Getenv("REDIS_PASSWORD"), redisDB)
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign each role its canonical privilege set
	for roleCode, privilegeCodes := range model.RolePrivilegeCodes {
		role, err := roleRepo.FindByCode(roleCode)
		if err != nil {
			log.Printf("Warning: Role %s not found during seeding: %v", roleCode, err)
			continue
		}
		if len(role.Privileges) > 0 {
			continue // already assigned
		}

		privileges, err := privilegeRepo.FindByCodes(privilegeCodes)
		if err != nil {
			log.Printf("Warning: Failed to load privileges for %s: %v", roleCode, err)
			continue
		}
		if err := roleRepo.AssignPrivileges(role, privileges); err != nil {
			log.Printf("Warning: Failed to assign privileges to %s: %v", roleCode, err)
		} else {
			log.Printf("✅ %s role assigned %d privileges", roleCode, len(privileges))
		}
	}

	// 4. Create default admin user
	_, err := userRepo.FindByEmail("admin@example.com")
	if err != nil {
		adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
		if err != nil {
			log.Printf("Warning: ADMIN role missing, skipping admin user seed: %v", err)
			return
		}

		admin := &model.User{
			Email:      "admin@example.com",
			FullName:   "Administrator",
			RoleID:     &adminRole.ID,
			IsActive:   true,
			Privileges: adminRole.Privileges,
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
			log.Println("✅ Admin user created: admin@example.com / admin123 (ADMIN)")
		}
	}
}
