package orderControllers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/trendyware/storefront-api/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OrderChangeEvent tells connected consoles to revalidate their order views.
type OrderChangeEvent struct {
	OrderID uint               `json:"order_id"`
	Status  models.OrderStatus `json:"status"`
	At      time.Time          `json:"at"`
}

// EventHub fans order-change events out to connected WebSocket clients.
type EventHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewEventHub() *EventHub {
	return &EventHub{clients: make(map[*websocket.Conn]bool)}
}

// GET /orders/ws
func (h *EventHub) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		h.mu.Lock()
		h.clients[conn] = true
		h.mu.Unlock()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.mu.Lock()
				delete(h.clients, conn)
				h.mu.Unlock()
				break
			}
		}
	}
}

// BroadcastOrderChange is best effort; dead connections are dropped.
func (h *EventHub) BroadcastOrderChange(orderID uint, status models.OrderStatus) {
	event := OrderChangeEvent{OrderID: orderID, Status: status, At: time.Now()}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteJSON(event); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
}
