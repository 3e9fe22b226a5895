package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/trendyware/storefront-api/controllers/cart"
	orderControllers "github.com/trendyware/storefront-api/controllers/order"
	paymentControllers "github.com/trendyware/storefront-api/controllers/payment"
	walletControllers "github.com/trendyware/storefront-api/controllers/wallet"
)

// Deps carries the explicitly constructed controllers into route wiring.
type Deps struct {
	Orders   *orderControllers.Controller
	Carts    *cartControllers.Controller
	Wallet   *walletControllers.Controller
	Payments *paymentControllers.Controller
	Hub      *orderControllers.EventHub

	JWTSecret   string
	AdminAPIKey string
}

// SetupRoutes is the single entry-point that wires up the user, guest, admin
// and payment route groups.
func SetupRoutes(r *gin.Engine, d Deps) {
	SetupUserRoutes(r, d)
	SetupGuestRoutes(r, d)
	SetupAdminRoutes(r, d)
	SetupOrderRoutes(r, d)
	SetupPaymentRoutes(r, d)
}
