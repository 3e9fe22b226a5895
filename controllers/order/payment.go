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

// ConfirmPayment marks an order paid and appends one payment ledger row, all
// in a single transaction under a row lock. Repeating the call on an already
// paid order is a success no-op, so client retries and gateway redeliveries
// are safe.
func (ctl *Controller) ConfirmPayment(ctx context.Context, orderID uint, caller Caller) Result {
	var (
		order       models.Order
		alreadyPaid bool
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

		if order.Status == models.OrderStatusPaid {
			alreadyPaid = true
			return nil
		}

		if !CanTransition(order.Status, models.OrderStatusPaid) {
			return errInvalidTransition
		}

		if err := tx.Model(&order).Update("status", models.OrderStatusPaid).Error; err != nil {
			return err
		}

		// Guest orders have no wallet ledger to write to.
		if order.UserID != nil && order.TotalAmount > 0 {
			entry := models.Transaction{
				ID:          uuid.NewString(),
				UserID:      *order.UserID,
				Type:        models.TransactionTypePayment,
				Amount:      order.TotalAmount,
				Status:      models.TransactionStatusCompleted,
				Description: fmt.Sprintf("payment for order %s", order.OrderRef),
				CreatedAt:   time.Now(),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		// The reservation's claim is consumed once the order is paid.
		if err := stock.ReleaseForOrder(tx, order.ID); err != nil {
			return err
		}

		order.Status = models.OrderStatusPaid
		return nil
	})

	switch {
	case err == nil && alreadyPaid:
		middleware.RecordPaymentConfirmed("already_paid")
		return already(MsgAlreadyPaid)
	case err == nil:
		middleware.RecordPaymentConfirmed("confirmed")
		ctl.afterCommit(ctx, &order, func() { ctl.notify.OrderConfirmation(&order) })
		return ok(MsgPaymentConfirmed)
	case errors.Is(err, errNotFound):
		return fail(KindNotFound, MsgOrderNotFound)
	case errors.Is(err, errUnauthorized):
		return fail(KindUnauthorized, MsgUnauthorized)
	case errors.Is(err, errInvalidTransition):
		return fail(KindInvalidTransition, MsgInvalidTransition)
	default:
		ctl.log.Error("payment confirmation failed",
			zap.Uint("order_id", orderID), zap.Error(err))
		return persistenceFailure()
	}
}

// POST /user/orders/:orderID/confirm-payment
func ConfirmPaymentHandler(ctl *Controller) gin.HandlerFunc {
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
		res := ctl.ConfirmPayment(c.Request.Context(), orderID, Caller{UserID: userID})
		c.JSON(res.HTTPStatus(), res)
	}
}
