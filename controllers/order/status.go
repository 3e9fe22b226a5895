package orderControllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/trendyware/storefront-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus applies a generic status transition guarded by the state
// machine. Money-bearing transitions are routed through their dedicated
// handlers so the ledger and stock effects cannot be bypassed.
func (ctl *Controller) UpdateOrderStatus(ctx context.Context, orderID uint, newStatus models.OrderStatus) Result {
	switch newStatus {
	case models.OrderStatusCancelled:
		return ctl.CancelOrder(ctx, orderID, "", SystemCaller)
	case models.OrderStatusPaid:
		return ctl.ConfirmPayment(ctx, orderID, SystemCaller)
	}

	var order models.Order
	err := ctl.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}

		if order.Status == newStatus {
			return nil
		}
		if !CanTransition(order.Status, newStatus) {
			return errInvalidTransition
		}

		if err := tx.Model(&order).Update("status", newStatus).Error; err != nil {
			return err
		}
		order.Status = newStatus
		return nil
	})

	switch {
	case err == nil:
		ctl.afterCommit(ctx, &order, nil)
		return ok(MsgStatusUpdated)
	case errors.Is(err, errNotFound):
		return fail(KindNotFound, MsgOrderNotFound)
	case errors.Is(err, errInvalidTransition):
		return fail(KindInvalidTransition, MsgInvalidTransition)
	default:
		ctl.log.Error("order status update failed",
			zap.Uint("order_id", orderID), zap.Error(err))
		return persistenceFailure()
	}
}

// PUT /admin/orders/:orderID/status
func UpdateOrderStatusHandler(ctl *Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		newStatus, err := ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res := ctl.UpdateOrderStatus(c.Request.Context(), orderID, newStatus)
		c.JSON(res.HTTPStatus(), res)
	}
}
