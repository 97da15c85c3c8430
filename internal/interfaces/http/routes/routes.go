// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/saltbee-gateway/internal/config"
	"github.com/your-org/saltbee-gateway/internal/infrastructure/backend"
	"github.com/your-org/saltbee-gateway/internal/interfaces/http/handlers"
	"github.com/your-org/saltbee-gateway/internal/pkg/keyval"
)

// SetupMenuRoutes sets up menu browsing routes
func SetupMenuRoutes(rg *gin.RouterGroup, store keyval.Store, client *backend.Client, cfg *config.Config, logger *logrus.Logger) {
	menuHandler := handlers.NewMenuHandler(store, client, cfg, logger)

	menu := rg.Group("/menu")
	{
		menu.GET("/items", menuHandler.GetMenu)
	}
}

// SetupCartRoutes sets up cart routes
func SetupCartRoutes(rg *gin.RouterGroup, store keyval.Store, client *backend.Client, cfg *config.Config, logger *logrus.Logger) {
	cartHandler := handlers.NewCartHandler(store, client, cfg, logger)

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.POST("/items", cartHandler.AddToCart)
		cart.PUT("/items/:id", cartHandler.UpdateCartItem)
		cart.DELETE("/items/:id", cartHandler.RemoveCartItem)
		cart.DELETE("", cartHandler.ClearCart)
	}
}

// SetupSessionRoutes sets up table session and scan routes
func SetupSessionRoutes(rg *gin.RouterGroup, store keyval.Store, client *backend.Client, cfg *config.Config, logger *logrus.Logger) {
	sessionHandler := handlers.NewSessionHandler(store, client, cfg, logger)
	scanHandler := handlers.NewScanHandler(store, client, cfg, logger)

	session := rg.Group("/session")
	{
		session.GET("", sessionHandler.GetSession)
		session.POST("/order-type", sessionHandler.SetOrderType)
		session.POST("/reset", sessionHandler.ResetSession)
	}

	scan := rg.Group("/scan")
	{
		scan.POST("", scanHandler.HandleScan)
		scan.POST("/close", scanHandler.CloseScan)
		scan.GET("/success", scanHandler.ConsumeScanSuccess)
	}
}

// SetupOrderRoutes sets up current-order and checkout routes
func SetupOrderRoutes(rg *gin.RouterGroup, store keyval.Store, client *backend.Client, cfg *config.Config, logger *logrus.Logger) {
	orderHandler := handlers.NewOrderHandler(store, client, cfg, logger)
	checkoutHandler := handlers.NewCheckoutHandler(store, client, cfg, logger)

	orders := rg.Group("/orders")
	{
		orders.GET("/current", orderHandler.GetCurrentOrder)
		orders.POST("/refresh", orderHandler.RefreshOrder)
		orders.POST("/request-bill", orderHandler.RequestBill)
	}

	rg.POST("/checkout", checkoutHandler.Confirm)
}

// SetupAuthRoutes sets up customer authentication routes
func SetupAuthRoutes(rg *gin.RouterGroup, store keyval.Store, client *backend.Client, cfg *config.Config, logger *logrus.Logger) {
	authHandler := handlers.NewAuthHandler(store, client, cfg, logger)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/google", authHandler.GoogleLogin)
		auth.POST("/logout", authHandler.Logout)
		auth.GET("/me", authHandler.Me)
	}
}
