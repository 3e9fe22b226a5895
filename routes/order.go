package routes

import (
	"github.com/gin-gonic/gin"
)

// SetupOrderRoutes registers the shared order-event stream.
func SetupOrderRoutes(r *gin.Engine, d Deps) {
	orders := r.Group("/orders")
	{
		// websocket endpoint for real-time order updates
		orders.GET("/ws", d.Hub.Handler())
	}
}
