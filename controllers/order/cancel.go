package orderControllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/trendyware/storefront-api/middleware"
	"github.com/trendyware/storefront-api/models"
	"github.com/trendyware/storefront-api/stock"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder cancels an order in one atomic transaction: status flip,
// conditional wallet refund with its ledger row, and stock restoration via
// relative increments. The guard check and the status write share the row
// lock, so concurrent cancellations cannot both refund.
func (ctl *Controller) CancelOrder(ctx context.Context, orderID uint, reason string, caller Caller) Result {
	var (
		order    models.Order
		refunded bool
	)

	err := ctl.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}

		if !caller.owns(&order) {
			return errUnauthorized
		}

		switch order.Status {
		case models.OrderStatusCancelled:
			return errAlreadyCancelled
		case models.OrderStatusCompleted:
			return errCompletedOrder
		}
		previous := order.Status

		if err := tx.Model(&order).Updates(map[string]interface{}{
			"status":        models.OrderStatusCancelled,
			"cancel_reason": reason,
		}).Error; err != nil {
			return err
		}

		// An unpaid order carries no financial claim; refund only orders
		// that reached a paid-or-later state. Guest orders have no wallet.
		if previous != models.OrderStatusPendingPayment && order.TotalAmount > 0 && order.UserID != nil {
			res := tx.Model(&models.Profile{}).
				Where("user_id = ?", *order.UserID).
				UpdateColumn("balance", gorm.Expr("balance + ?", order.TotalAmount))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				profile := models.Profile{UserID: *order.UserID, Balance: order.TotalAmount}
				if err := tx.Create(&profile).Error; err != nil {
					return err
				}
			}

			entry := models.Transaction{
				ID:          uuid.NewString(),
				UserID:      *order.UserID,
				Type:        models.TransactionTypeRefund,
				Amount:      order.TotalAmount,
				Status:      models.TransactionStatusCompleted,
				Description: fmt.Sprintf("refund for cancelled order %s", order.OrderRef),
				CreatedAt:   time.Now(),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			refunded = true
		}

		// Restore stock for every line that still references a product.
		// Relative increments keep concurrent restocks from losing updates.
		var items []models.OrderItem
		if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return err
		}
		for _, item := range items {
			if item.ProductID == nil {
				continue
			}
			if err := tx.Model(&models.Product{}).
				Where("id = ?", *item.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
				return err
			}
		}

		if err := stock.ReleaseForOrder(tx, order.ID); err != nil {
			return err
		}

		order.Status = models.OrderStatusCancelled
		order.CancelReason = reason
		return nil
	})

	switch {
	case err == nil:
		middleware.RecordOrderCancelled(refunded)
		ctl.afterCommit(ctx, &order, func() { ctl.notify.OrderCancellation(&order, reason) })
		return ok(MsgOrderCancelled)
	case errors.Is(err, errNotFound):
		return fail(KindNotFound, MsgOrderNotFound)
	case errors.Is(err, errUnauthorized):
		return fail(KindUnauthorized, MsgUnauthorized)
	case errors.Is(err, errAlreadyCancelled):
		return fail(KindInvalidTransition, MsgAlreadyCancelled)
	case errors.Is(err, errCompletedOrder):
		return fail(KindInvalidTransition, MsgCompletedNoCancel)
	default:
		ctl.log.Error("order cancellation failed",
			zap.Uint("order_id", orderID), zap.Error(err))
		return persistenceFailure()
	}
}

// POST /user/orders/:orderID/cancel
func CancelOrderHandler(ctl *Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := middleware.UserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		orderID, err := parseOrderID(c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req CancelOrderRequest
		_ = c.ShouldBindJSON(&req) // reason is optional
		res := ctl.CancelOrder(c.Request.Context(), orderID, req.Reason, Caller{UserID: userID})
		c.JSON(res.HTTPStatus(), res)
	}
}

// POST /admin/orders/:orderID/cancel
func AdminCancelOrderHandler(ctl *Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req CancelOrderRequest
		_ = c.ShouldBindJSON(&req)
		res := ctl.CancelOrder(c.Request.Context(), orderID, req.Reason, SystemCaller)
		c.JSON(res.HTTPStatus(), res)
	}
}
