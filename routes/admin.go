package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/trendyware/storefront-api/controllers/order"
	"github.com/trendyware/storefront-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey(d.AdminAPIKey))
	{
		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(d.Orders))
			orderAdmin.GET("/:orderID", orderControllers.GetOrderByIDHandler(d.Orders))
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(d.Orders))
			orderAdmin.PUT("/:orderID/tracking", orderControllers.UpdateTrackingInfoHandler(d.Orders))
			orderAdmin.POST("/:orderID/cancel", orderControllers.AdminCancelOrderHandler(d.Orders))
		}

		// ─────────── Wallet Management ───────────
		walletAdmin := adminGroup.Group("/wallet")
		{
			walletAdmin.POST("/deposit", d.Wallet.Deposit())
		}

		// ─────────── Customer Cart Inspection ───────────
		cartAdmin := adminGroup.Group("/user-cart")
		{
			cartAdmin.GET("/:user_id", d.Carts.GetAdminUserCart())
		}
	}
}
