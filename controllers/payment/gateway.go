package paymentControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	orderControllers "github.com/trendyware/storefront-api/controllers/order"
	"github.com/trendyware/storefront-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The gateway is simulated: session creation returns a sandbox URL and the
// webhook trusts the posted status flag. No real provider is called.

type Controller struct {
	db     *gorm.DB
	log    *zap.Logger
	orders *orderControllers.Controller
}

func NewController(db *gorm.DB, log *zap.Logger, orders *orderControllers.Controller) *Controller {
	return &Controller{db: db, log: log, orders: orders}
}

type CreateSessionRequest struct {
	OrderRef string `json:"order_ref" binding:"required"`
}

// POST /payments/session
func (ctl *Controller) CreateSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order_ref is required"})
			return
		}

		var order models.Order
		if err := ctl.db.Where("order_ref = ?", req.OrderRef).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			ctl.log.Error("failed to load order for payment session",
				zap.String("order_ref", req.OrderRef), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create payment session"})
			return
		}

		if order.Status != models.OrderStatusPendingPayment {
			c.JSON(http.StatusConflict, gin.H{"error": "order is not awaiting payment"})
			return
		}

		sessionRef := uuid.NewString()
		c.JSON(http.StatusOK, gin.H{
			"payment_url": fmt.Sprintf("https://pay.sandbox.local/session/%s", sessionRef),
			"session_ref": sessionRef,
			"order_ref":   order.OrderRef,
			"amount":      order.TotalAmount,
			"currency":    order.Currency,
		})
	}
}

// POST /payments/webhook
// Form fields follow the gateway convention: tran_cartid carries the order
// reference, tran_status "A" means approved.
func (ctl *Controller) Webhook() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
			return
		}

		orderRef := c.PostForm("tran_cartid")
		tranStatus := c.PostForm("tran_status")

		if orderRef == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing tran_cartid"})
			return
		}

		if tranStatus != "A" {
			ctl.log.Info("payment not approved",
				zap.String("order_ref", orderRef), zap.String("status", tranStatus))
			c.JSON(http.StatusOK, gin.H{"message": "Payment not successful"})
			return
		}

		var order models.Order
		if err := ctl.db.Where("order_ref = ?", orderRef).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			ctl.log.Error("failed to resolve webhook order",
				zap.String("order_ref", orderRef), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process webhook"})
			return
		}

		// Gateway redeliveries hit the idempotent confirmation path.
		res := ctl.orders.ConfirmPayment(c.Request.Context(), order.ID, orderControllers.SystemCaller)
		c.JSON(res.HTTPStatus(), res)
	}
}
