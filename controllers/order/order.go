package orderControllers

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/trendyware/storefront-api/middleware"
	"github.com/trendyware/storefront-api/models"
	"github.com/trendyware/storefront-api/stock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type CheckoutRequest struct {
	Currency        string         `json:"currency"`
	ShippingAddress models.Address `json:"shipping_address"`
	GuestEmail      string         `json:"guest_email"` // guest checkout only
}

// -------- Helpers --------

func parseOrderID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid order id")
	}
	return uint(id), nil
}

// Generate unique order reference, e.g. 20250908130500-<uuid4>
func generateOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// Shipping is billed per started 30kg band beyond the first kilogram.
func shippingCostFor(totalWeight float64) float64 {
	if totalWeight <= 0 {
		return 0
	}
	return float64(int(math.Ceil((totalWeight-1)/30.0))) * 30.0
}

// errCheckoutRejected aborts the checkout transaction after a line-level
// rejection has been captured as a Result.
var errCheckoutRejected = errors.New("checkout rejected")

// -------- Core Logic --------

// placeOrder creates a pending_payment order from cart lines inside one
// transaction: item snapshots, totals, stock reservations and cart clearing.
// Stock itself is not decremented here; units are held through reservations
// until payment confirmation or expiry.
func (ctl *Controller) placeOrder(
	ctx context.Context,
	userID *string,
	guestEmail string,
	lines []models.CartItem,
	req CheckoutRequest,
	clearCart func(tx *gorm.DB) error,
) (*models.Order, Result) {
	if len(lines) == 0 {
		return nil, fail(KindValidation, "cart is empty")
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	var subtotal, totalWeight float64
	orderItems := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
		totalWeight += line.Weight * float64(line.Quantity)

		productID := line.ProductID
		orderItems = append(orderItems, models.OrderItem{
			ProductID: &productID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Title:     line.Title,
			Flavor:    line.Flavor,
			Weight:    line.Weight,
		})
	}
	shippingCost := shippingCostFor(totalWeight)

	order := models.Order{
		UserID:          userID,
		GuestEmail:      guestEmail,
		Items:           orderItems,
		SubtotalAmount:  subtotal,
		ShippingCost:    shippingCost,
		TotalAmount:     subtotal + shippingCost,
		Currency:        currency,
		Status:          models.OrderStatusPendingPayment,
		ShippingAddress: req.ShippingAddress,
		OrderRef:        generateOrderRef(),
		CreatedAt:       time.Now(),
	}

	var rejection Result
	err := ctl.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range lines {
			err := stock.Reserve(tx, line.ProductID, order.ID, line.Quantity, ctl.reservationTTL)
			switch {
			case errors.Is(err, stock.ErrInsufficientStock):
				// Same condition the advisory cart guard reports; both are
				// stock conflicts, not malformed input.
				rejection = fail(KindConflict,
					"insufficient stock for product: "+line.Title.Resolve(models.DefaultLocale))
				return errCheckoutRejected
			case errors.Is(err, stock.ErrProductNotFound):
				rejection = fail(KindValidation,
					"product no longer available: "+line.Title.Resolve(models.DefaultLocale))
				return errCheckoutRejected
			case err != nil:
				return err
			}
		}

		if clearCart != nil {
			if err := clearCart(tx); err != nil {
				return err
			}
		}
		return nil
	})

	switch {
	case err == nil:
		ctl.afterCommit(ctx, &order, nil)
		return &order, ok(MsgOrderPlaced)
	case errors.Is(err, errCheckoutRejected):
		return nil, rejection
	default:
		ctl.log.Error("checkout failed", zap.Error(err))
		return nil, persistenceFailure()
	}
}

// -------- Handlers --------

// POST /user/orders/checkout
func CheckoutHandler(ctl *Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid checkout payload"})
			return
		}

		var cart models.Cart
		if err := ctl.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user cart not found"})
			return
		}

		order, res := ctl.placeOrder(c.Request.Context(), &userID, "", cart.Items, req,
			func(tx *gorm.DB) error {
				return tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error
			})
		if !res.Success {
			c.JSON(res.HTTPStatus(), res)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": res.Message, "order": order})
	}
}

// POST /guest/orders/checkout?guest_id=...
func GuestCheckoutHandler(ctl *Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		guestID := c.Query("guest_id")
		if guestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.GuestEmail == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guest_email is required"})
			return
		}

		var cart models.GuestCart
		if err := ctl.db.Preload("Items").Where("guest_id = ?", guestID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "guest cart not found"})
			return
		}

		lines := make([]models.CartItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			lines = append(lines, item.CartItem())
		}

		order, res := ctl.placeOrder(c.Request.Context(), nil, req.GuestEmail, lines, req,
			func(tx *gorm.DB) error {
				return tx.Where("cart_id = ?", cart.CartID).Delete(&models.GuestCartItem{}).Error
			})
		if !res.Success {
			c.JSON(res.HTTPStatus(), res)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": res.Message, "order": order})
	}
}

// GET /admin/orders
func GetAllOrdersHandler(ctl *Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if orders, hit := ctl.views.GetAdminOrders(ctx); hit {
			c.JSON(http.StatusOK, orders)
			return
		}

		var orders []models.Order
		if err := ctl.db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			ctl.log.Error("failed to list orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
			return
		}
		ctl.views.SetAdminOrders(ctx, orders)
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders
func GetUserOrdersHandler(ctl *Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ctx := c.Request.Context()
		if orders, hit := ctl.views.GetUserOrders(ctx, userID); hit {
			c.JSON(http.StatusOK, orders)
			return
		}

		var orders []models.Order
		if err := ctl.db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			ctl.log.Error("failed to list user orders",
				zap.String("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
			return
		}
		ctl.views.SetUserOrders(ctx, userID, orders)
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:orderID
func GetOrderHandler(ctl *Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id := c.Param("orderID")
		var order models.Order
		if err := ctl.db.
			Preload("Items").
			Where("user_id = ?", userID).
			Where("id::text = ? OR order_ref = ?", id, id).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": MsgOrderNotFound})
				return
			}
			ctl.log.Error("failed to fetch order", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /admin/orders/:orderID — lookup by numeric id or order_ref
func GetOrderByIDHandler(ctl *Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		var order models.Order
		if err := ctl.db.
			Preload("User").
			Preload("Items").
			Where("id::text = ? OR order_ref = ?", id, id).
			First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": MsgOrderNotFound})
				return
			}
			ctl.log.Error("failed to fetch order", zap.String("id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
