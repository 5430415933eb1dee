// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/inventory"
	"github.com/your-org/storefront-backend/internal/domain/ootd"
	"github.com/your-org/storefront-backend/internal/domain/product"
	"github.com/your-org/storefront-backend/internal/domain/timesale"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/domain/wishlist"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
	"gorm.io/gorm"
)

// Services holds the long-lived domain services the router wires up. The
// caller keeps it so shutdown can flush what needs flushing.
type Services struct {
	Cart *cart.Service
}

// SetupRoutes builds every service once and mounts all API routes on the
// router group. The cart service is shared between the cart and auth
// handlers so login-triggered merges go through the same debounced mirror.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Services {
	logger := newLogger(cfg)

	cartService := cart.NewService(db, redisClient, cfg, logger)
	userService := user.NewService(db, cfg, logger)
	adminService := user.NewAdminService(db, redisClient, cfg, logger)
	productService := product.NewService(db, cfg)
	inventoryService := inventory.NewService(db, cfg, logger)
	timesaleService := timesale.NewService(db, cfg, logger)
	wishlistService := wishlist.NewService(db, cfg)
	ootdService := ootd.NewService(db, cfg, logger)
	pdfService := pdf.NewService(cfg)

	authHandler := handlers.NewAuthHandler(userService, cartService, cfg, logger)
	cartHandler := handlers.NewCartHandler(cartService, cfg)
	productHandler := handlers.NewProductHandler(productService, cfg)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, pdfService, cfg)
	timesaleHandler := handlers.NewTimeSaleHandler(timesaleService, cfg)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService, cfg)
	ootdHandler := handlers.NewOOTDHandler(ootdService, cfg)
	userAdminHandler := handlers.NewUserAdminHandler(adminService, cfg)

	// Auth
	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.PUT("/password", authHandler.ChangePassword)
		}
	}

	// Products (public catalog)
	products := rg.Group("/products")
	products.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.GET("/slug/:slug", productHandler.GetProductBySlug)
	}

	// Cart (guest sessions or authenticated users)
	cartGroup := rg.Group("/cart")
	cartGroup.Use(middleware.OptionalAuthMiddleware(cfg))
	{
		cartGroup.GET("", cartHandler.GetCart)
		cartGroup.GET("/count", cartHandler.GetCartCount)
		cartGroup.POST("/items", cartHandler.AddToCart)
		cartGroup.PUT("/items", cartHandler.UpdateCartItem)
		cartGroup.PUT("/items/variant", cartHandler.SelectVariant)
		cartGroup.DELETE("/items/:id", cartHandler.RemoveFromCart)
		cartGroup.DELETE("", cartHandler.ClearCart)
	}
	cartGroup.POST("/merge", middleware.AuthMiddleware(cfg), cartHandler.MergeGuestCart)

	// Time sale countdown (public)
	sale := rg.Group("/timesale")
	{
		sale.GET("/countdown", timesaleHandler.GetCountdown)
		sale.GET("/countdown/stream", timesaleHandler.StreamCountdown)
	}

	// OOTD feed
	feed := rg.Group("/ootd")
	{
		feed.GET("", ootdHandler.GetFeed)
		feed.GET("/:id", ootdHandler.GetPost)

		authed := feed.Group("")
		authed.Use(middleware.AuthMiddleware(cfg))
		{
			authed.POST("", ootdHandler.CreatePost)
			authed.DELETE("/:id", ootdHandler.DeletePost)
			authed.POST("/:id/like", ootdHandler.ToggleLike)
		}
	}

	// Wishlist (authenticated only)
	wl := rg.Group("/wishlist")
	wl.Use(middleware.AuthMiddleware(cfg))
	{
		wl.GET("", wishlistHandler.GetWishlist)
		wl.GET("/count", wishlistHandler.GetWishlistCount)
		wl.GET("/contains/:product_id", wishlistHandler.CheckWishlistItem)
		wl.POST("/toggle/:product_id", wishlistHandler.ToggleWishlistItem)
		wl.DELETE("", wishlistHandler.ClearWishlist)
	}

	// Admin
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		adminProducts := admin.Group("/products")
		{
			adminProducts.GET("/:id", productHandler.AdminGetProduct)
			adminProducts.POST("", productHandler.CreateProduct)
			adminProducts.PUT("/:id", productHandler.UpdateProduct)
			adminProducts.DELETE("/:id", productHandler.DeleteProduct)
		}

		adminInventory := admin.Group("/inventory")
		{
			adminInventory.POST("/transactions", inventoryHandler.ProcessStockTransaction)
			adminInventory.GET("/ledger", inventoryHandler.GetLedger)
			adminInventory.GET("/ledger/report", inventoryHandler.DownloadLedgerReport)
			adminInventory.GET("/ledger/:product_id", inventoryHandler.GetProductLedger)
			adminInventory.POST("/sync", inventoryHandler.SyncStockTotals)
		}

		adminSales := admin.Group("/timesales")
		{
			adminSales.GET("", timesaleHandler.ListTimeSales)
			adminSales.GET("/:id", timesaleHandler.GetTimeSale)
			adminSales.POST("", timesaleHandler.SaveTimeSale)
			adminSales.PUT("/:id", timesaleHandler.SaveTimeSale)
			adminSales.DELETE("/:id", timesaleHandler.DeleteTimeSale)
		}

		adminUsers := admin.Group("/users")
		{
			adminUsers.GET("", userAdminHandler.GetUsers)
			adminUsers.DELETE("/:id", userAdminHandler.DeleteCustomerAccount)
		}
	}

	return &Services{Cart: cartService}
}

// newLogger builds the shared application logger from config
func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger
}
