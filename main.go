package main

import (
	"log"
	"net/http"
	"os"

	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/handler"
	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/infrastructure"
	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/middleware"
	"github.com/andrewlin1368/grace-shopper-e-commerce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; real deployments set env vars directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database connection
	db, err := infrastructure.ConnectDatabase(infrastructure.DefaultDatabaseConfig())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Perform all database migrations
	if err := infrastructure.MigrateAllSchemas(db); err != nil {
		log.Fatalf("Failed to migrate database schemas: %v", err)
	}

	// Initialize services
	userService := service.NewUserService(db)
	authService := service.NewAuthService(userService)
	orderService := service.NewOrderService(db)
	productService := service.NewProductService(db)

	authzService, err := service.NewAuthorizationService(db)
	if err != nil {
		log.Fatalf("Failed to initialize authorization service: %v", err)
	}
	profileService := service.NewProfileService(userService, orderService, authzService)

	// Initialize seed data manager and setup sample data
	seedManager := infrastructure.NewSeedDataManager(db, userService, productService)
	if err := seedManager.SeedAll(); err != nil {
		log.Fatalf("Failed to setup seed data: %v", err)
	}

	// Initialize handlers
	userHandler := handler.NewUserHandler(authService, profileService)
	cartHandler := handler.NewCartHandler(orderService)
	productHandler := handler.NewProductHandler(productService)

	// Setup Gin router
	r := gin.Default()

	// CORS設定（開発用）
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Public routes
	r.POST("/user/login", userHandler.Login)
	r.POST("/user/register", userHandler.Register)

	// Authenticated user routes
	user := r.Group("/user")
	user.Use(middleware.AuthMiddleware(authService))
	user.GET("/me", userHandler.Me)
	user.POST("/orders", userHandler.CustomerOrders)

	// Product catalog
	products := r.Group("/products")
	products.Use(middleware.AuthMiddleware(authService))
	products.GET("",
		middleware.RequirePermission(authzService, "products", "read"),
		productHandler.ListProducts)
	products.GET("/:id",
		middleware.RequirePermission(authzService, "products", "read"),
		productHandler.GetProduct)
	products.POST("",
		middleware.RequirePermission(authzService, "products", "write"),
		productHandler.CreateProduct)
	products.PUT("/:id",
		middleware.RequirePermission(authzService, "products", "write"),
		productHandler.UpdateProduct)
	products.DELETE("/:id",
		middleware.RequirePermission(authzService, "products", "delete"),
		productHandler.DeleteProduct)

	// Cart routes (owner-scoped, no extra policy needed)
	cart := r.Group("/cart")
	cart.Use(middleware.AuthMiddleware(authService))
	cart.GET("", cartHandler.GetCart)
	cart.PUT("/initial", cartHandler.ReplaceCart)
	cart.PUT("/add", cartHandler.AddProduct)
	cart.PUT("/increase", cartHandler.IncreaseQuantity)
	cart.PUT("/decrease", cartHandler.DecreaseQuantity)
	cart.PUT("/remove", cartHandler.RemoveProduct)
	cart.POST("/checkout", cartHandler.Checkout)
	cart.PUT("/cancel", cartHandler.CancelOrder)

	// ヘルスチェックエンドポイント
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Grace Shopper API is running",
		})
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting Grace Shopper API on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
