package models

import "time"

// StockReservation holds units of a product for an in-flight checkout.
// Available quantity = products.stock - SUM(quantity of live reservations).
// Rows are deleted on payment confirmation, cancellation, or expiry.
type StockReservation struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	OrderID   *uint     `gorm:"index" json:"order_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
