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

type TrackingUpdateRequest struct {
	CarrierName    string `json:"carrier_name" binding:"required"`
	TrackingNumber string `json:"tracking_number" binding:"required"`
	TrackingURL    string `json:"tracking_url"`
}

// UpdateTrackingInfo records carrier data and moves the order to shipped.
// The shipped transition is applied regardless of the prior status; see
// updateOrderStatus for the guarded path.
func (ctl *Controller) UpdateTrackingInfo(ctx context.Context, orderID uint, req TrackingUpdateRequest) Result {
	var order models.Order

	err := ctl.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound
			}
			return err
		}

		if err := tx.Model(&order).Updates(map[string]interface{}{
			"carrier_name":    req.CarrierName,
			"tracking_number": req.TrackingNumber,
			"tracking_url":    req.TrackingURL,
			"status":          models.OrderStatusShipped,
		}).Error; err != nil {
			return err
		}

		order.CarrierName = req.CarrierName
		order.TrackingNumber = req.TrackingNumber
		order.TrackingURL = req.TrackingURL
		order.Status = models.OrderStatusShipped
		return nil
	})

	switch {
	case err == nil:
		ctl.afterCommit(ctx, &order, func() { ctl.notify.ShippingUpdate(&order) })
		return ok(MsgTrackingUpdated)
	case errors.Is(err, errNotFound):
		return fail(KindNotFound, MsgOrderNotFound)
	default:
		ctl.log.Error("tracking update failed",
			zap.Uint("order_id", orderID), zap.Error(err))
		return persistenceFailure()
	}
}

// PUT /admin/orders/:orderID/tracking
func UpdateTrackingInfoHandler(ctl *Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c.Param("orderID"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}
		var req TrackingUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tracking payload"})
			return
		}
		res := ctl.UpdateTrackingInfo(c.Request.Context(), orderID, req)
		c.JSON(res.HTTPStatus(), res)
	}
}
