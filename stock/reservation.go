package stock

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/trendyware/storefront-api/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Reserve holds qty units of a product for an order until ttl elapses. The
// availability check and the insert run under a product row lock, so two
// concurrent checkouts cannot both claim the last units. products.stock
// itself is not decremented here.
func Reserve(tx *gorm.DB, productID uint, orderID uint, qty int, ttl time.Duration) error {
	var product models.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	var reserved int64
	if err := tx.Model(&models.StockReservation{}).
		Where("product_id = ? AND expires_at > ?", productID, time.Now()).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&reserved).Error; err != nil {
		return err
	}

	if int64(product.Stock)-reserved < int64(qty) {
		return ErrInsufficientStock
	}

	res := models.StockReservation{
		ID:        uuid.NewString(),
		ProductID: productID,
		OrderID:   &orderID,
		Quantity:  qty,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}
	return tx.Create(&res).Error
}

// ReleaseForOrder drops every reservation held by an order. Called when the
// claim is consumed (payment confirmed) or voided (order cancelled).
func ReleaseForOrder(tx *gorm.DB, orderID uint) error {
	return tx.Where("order_id = ?", orderID).
		Delete(&models.StockReservation{}).Error
}

// StartSweeper deletes expired reservations on a fixed interval until the
// process exits.
func StartSweeper(db *gorm.DB, log *zap.Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		res := db.Where("expires_at <= ?", time.Now()).
			Delete(&models.StockReservation{})
		if res.Error != nil {
			log.Error("reservation sweep failed", zap.Error(res.Error))
			continue
		}
		if res.RowsAffected > 0 {
			log.Info("expired reservations released",
				zap.Int64("count", res.RowsAffected))
		}
	}
}
