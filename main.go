package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/minhanh-dev/restaurant-pos-api/config"
	"github.com/minhanh-dev/restaurant-pos-api/controllers"
	"github.com/minhanh-dev/restaurant-pos-api/middleware"
	"github.com/minhanh-dev/restaurant-pos-api/models"
	"github.com/minhanh-dev/restaurant-pos-api/services"
)

func main() {
	log.Println("Starting Restaurant POS API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeItem{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.Voucher{},
		&models.Shift{},
		&models.Attendance{},
		&models.SalaryLog{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Realtime hub doubles as the event notifier
	hub := services.NewHub()
	services.InitNotifier(hub)

	// S3-backed images are optional; without a bucket the upload endpoint
	// reports IMAGE_SERVICE_UNAVAILABLE and everything else still works
	if cfg.AWSS3Bucket != "" {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Printf("S3 unavailable, menu image uploads disabled: %v", err)
		} else {
			services.InitImageService(s3Service)
		}
	}

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	router.GET("/ws", func(c *gin.Context) {
		hub.HandleConnection(c.Writer, c.Request)
	})

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)

		// Auth0 is optional in development; when configured every API
		// route below requires a valid token
		if cfg.Auth0Domain != "" {
			v1.Use(middleware.EnsureValidToken(cfg))
		}

		users := v1.Group("/users")
		{
			users.POST("", controllers.CreateUser)
			users.POST("/staff", middleware.RequireRole(models.RoleAdmin), controllers.CreateStaff)
			users.GET("/me", controllers.GetMyProfile)
			users.PUT("/me", controllers.UpdateMyProfile)
			users.GET("", middleware.RequireRole(models.RoleAdmin), controllers.ListUsers)
			users.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteUser)
		}

		menu := v1.Group("/menu")
		{
			menu.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateMenuItem)
			menu.GET("", controllers.ListMenuItems)
			menu.GET("/:id", controllers.GetMenuItem)
			menu.PUT("/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateMenuItem)
			menu.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteMenuItem)
			menu.POST("/:id/image", middleware.RequireRole(models.RoleAdmin), controllers.UploadMenuItemImage)
			menu.POST("/:id/refresh-availability", controllers.RefreshMenuItemAvailability)
			menu.POST("/refresh-availability", controllers.RefreshAllAvailability)
		}

		ingredients := v1.Group("/ingredients")
		{
			ingredients.POST("", middleware.RequireRole(models.RoleAdmin, models.RoleKitchen), controllers.CreateIngredient)
			ingredients.GET("", controllers.ListIngredients)
			ingredients.PUT("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleKitchen), controllers.UpdateIngredient)
			ingredients.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteIngredient)
			ingredients.POST("/consume", middleware.RequireRole(models.RoleAdmin, models.RoleKitchen), controllers.ConsumeIngredients)
		}

		recipes := v1.Group("/recipes")
		{
			recipes.PUT("", middleware.RequireRole(models.RoleAdmin, models.RoleKitchen), controllers.UpsertRecipe)
			recipes.GET("/:menuItemId", controllers.GetRecipe)
		}

		tables := v1.Group("/tables")
		{
			tables.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateTable)
			tables.GET("", controllers.ListTables)
			tables.GET("/:id", controllers.GetTable)
			tables.PUT("/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateTable)
			tables.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteTable)
			tables.POST("/:id/reserve", controllers.ReserveTable)
			tables.POST("/:id/occupy", controllers.OccupyTable)
			tables.POST("/:id/release", controllers.ReleaseTable)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", controllers.CreateOrder)
			orders.GET("", controllers.ListOrders)
			orders.GET("/:id", controllers.GetOrder)
			orders.PUT("/:id/items/:itemId/status", controllers.UpdateItemStatus)
			orders.POST("/:id/items/:itemId/cancel", controllers.CancelDish)
			orders.POST("/:id/items/:itemId/cancel-request", controllers.RequestCancelDish)
			orders.POST("/:id/temp-calculation", controllers.RequestTempCalculation)
			orders.POST("/:id/confirm", middleware.RequireRole(models.RoleAdmin, models.RoleCashier), controllers.ConfirmOrder)
			orders.POST("/:id/split", middleware.RequireRole(models.RoleAdmin, models.RoleCashier), controllers.SplitOrder)
			orders.POST("/merge", middleware.RequireRole(models.RoleAdmin, models.RoleCashier), controllers.MergeOrders)
			orders.POST("/:id/payment", middleware.RequireRole(models.RoleAdmin, models.RoleCashier), controllers.PayOrder)
			orders.POST("/:id/cancel", middleware.RequireRole(models.RoleAdmin, models.RoleCashier), controllers.CancelOrder)
		}

		kitchen := v1.Group("/kitchen", middleware.RequireRole(models.RoleAdmin, models.RoleKitchen))
		{
			kitchen.GET("/queue", controllers.GetKitchenQueue)
			kitchen.PUT("/orders/:id/items/:itemId/status", controllers.UpdateItemStatus)
			kitchen.POST("/orders/:id/items/:itemId/cancel", controllers.CancelDish)
		}

		vouchers := v1.Group("/vouchers")
		{
			vouchers.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateVoucher)
			vouchers.GET("", controllers.ListVouchers)
			vouchers.GET("/:id", middleware.RequireRole(models.RoleAdmin), controllers.GetVoucher)
			vouchers.PUT("/:id", middleware.RequireRole(models.RoleAdmin), controllers.UpdateVoucher)
			vouchers.DELETE("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteVoucher)
			vouchers.POST("/validate", controllers.ValidateVoucher)
		}

		shifts := v1.Group("/shifts")
		{
			shifts.POST("", middleware.RequireRole(models.RoleAdmin), controllers.CreateShift)
			shifts.GET("", controllers.ListShifts)
			shifts.POST("/check-in", controllers.CheckIn)
			shifts.POST("/check-out", controllers.CheckOut)
		}

		salary := v1.Group("/salary", middleware.RequireRole(models.RoleAdmin))
		{
			salary.GET("/compute", controllers.ComputeSalary)
			salary.POST("/finalize", controllers.FinalizeSalary)
			salary.POST("/:id/pay", controllers.MarkSalaryPaid)
			salary.GET("", controllers.ListSalaryLogs)
		}

		reports := v1.Group("/reports", middleware.RequireRole(models.RoleAdmin, models.RoleCashier))
		{
			reports.GET("/revenue", controllers.GetRevenueReport)
			reports.GET("/top-items", controllers.GetTopSellingItems)
		}

		payment := v1.Group("/payment")
		{
			payment.POST("/create-payment-url", controllers.CreatePaymentURL)
			payment.GET("/vnpay-return", controllers.VNPayReturn)
		}

		v1.GET("/activities", middleware.RequireRole(models.RoleAdmin), controllers.ListActivities)
	}

	// Background recovery for reservations whose holders never showed up
	sweeperCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go services.RunReservationSweeper(sweeperCtx, db, time.Duration(cfg.ReservationSweepSeconds)*time.Second)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Restaurant POS API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
