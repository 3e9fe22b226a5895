package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/trendyware/storefront-api/controllers/order"
	"github.com/trendyware/storefront-api/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.JWTSecret))
	{
		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", d.Carts.GetUserCart())
			cartGroup.POST("/", d.Carts.UpdateCartItem())
			cartGroup.DELETE("/:product_id", d.Carts.DeleteCartItem())
			cartGroup.DELETE("/", d.Carts.ClearUserCart())
		}

		// ──────────────── Orders ────────────────
		ordersGroup := userGroup.Group("/orders")
		{
			ordersGroup.GET("/", orderControllers.GetUserOrdersHandler(d.Orders))
			ordersGroup.GET("/:orderID", orderControllers.GetOrderHandler(d.Orders))
			ordersGroup.POST("/checkout", orderControllers.CheckoutHandler(d.Orders))
			ordersGroup.POST("/:orderID/confirm-payment", orderControllers.ConfirmPaymentHandler(d.Orders))
			ordersGroup.POST("/:orderID/cancel", orderControllers.CancelOrderHandler(d.Orders))
		}

		// ──────────────── Wallet ────────────────
		walletGroup := userGroup.Group("/wallet")
		{
			walletGroup.GET("/", d.Wallet.GetBalance())
			walletGroup.GET("/transactions", d.Wallet.ListTransactions())
		}
	}
}

// SetupGuestRoutes registers the guest cart and checkout endpoints.
func SetupGuestRoutes(r *gin.Engine, d Deps) {
	guestGroup := r.Group("/guest")
	{
		guestGroup.GET("/cart", d.Carts.GetGuestCart())
		guestGroup.POST("/cart", d.Carts.UpdateGuestCartItem())
		guestGroup.DELETE("/cart", d.Carts.ClearGuestCart())
		guestGroup.POST("/orders/checkout", orderControllers.GuestCheckoutHandler(d.Orders))
	}
}
