// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/foodorder-backend/internal/config"
	"github.com/your-org/foodorder-backend/internal/interfaces/http/handlers"
	"github.com/your-org/foodorder-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes onto the given group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	setupAuthRoutes(rg, db, cfg)
	setupProductRoutes(rg, db, cfg)
	setupCartRoutes(rg, db, redisClient, cfg)
	setupCheckoutRoutes(rg, db, redisClient, cfg, log)
	setupAdminRoutes(rg, db, cfg)
}

// setupAuthRoutes sets up authentication related routes
func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		// Public auth endpoints
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		// Protected auth endpoints
		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
		}
	}
}

// setupProductRoutes sets up the public menu catalog routes
func setupProductRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
	}
}

// setupCartRoutes sets up cart routes. Carts work for guest sessions
// and authenticated users alike.
func setupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, redisClient, cfg)

	cart := rg.Group("/cart")
	cart.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.ClearCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.POST("/items/:id/increment", cartHandler.IncrementCartItem)
		cart.POST("/items/:id/decrement", cartHandler.DecrementCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveCartItem)
	}
}

// setupCheckoutRoutes sets up the checkout and payment flow routes
func setupCheckoutRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log *logrus.Logger) {
	checkoutHandler := handlers.NewCheckoutHandler(db, redisClient, cfg, log)

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		checkout.GET("/methods", checkoutHandler.ListPaymentMethods)
		checkout.PUT("/method", checkoutHandler.SelectPaymentMethod)
		checkout.POST("/pay", checkoutHandler.Pay)
		checkout.GET("/status", checkoutHandler.GetStatus)
		checkout.POST("/acknowledge", checkoutHandler.Acknowledge)
		checkout.POST("/retry", checkoutHandler.Retry)
		checkout.POST("/fallback", checkoutHandler.FallbackToCash)
		checkout.POST("/cancel", checkoutHandler.Cancel)
		checkout.GET("/receipt", checkoutHandler.DownloadReceipt)
	}
}

// setupAdminRoutes sets up menu management routes, restricted to admins
func setupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	productHandler := handlers.NewProductHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.GET("/products", productHandler.AdminListProducts)
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
	}
}
