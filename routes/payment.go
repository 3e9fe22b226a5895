package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupPaymentRoutes registers the simulated gateway endpoints. The webhook
// is unauthenticated by gateway convention; it only flips server-side state
// through the idempotent confirmation path.
func SetupPaymentRoutes(r *gin.Engine, d Deps) {
	payments := r.Group("/payments")
	{
		payments.POST("/session", d.Payments.CreateSession())
		payments.POST("/webhook", d.Payments.Webhook())
	}
}
