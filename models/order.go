package models

import "time"

type OrderStatus string

const (
	// Order statuses (lifecycle states)
	OrderStatusPendingPayment OrderStatus = "pending_payment" // Placed, awaiting payment
	OrderStatusPaid           OrderStatus = "paid"            // Payment confirmed
	OrderStatusShipped        OrderStatus = "shipped"         // Handed to the carrier
	OrderStatusCompleted      OrderStatus = "completed"       // Delivered and closed (terminal)
	OrderStatusCancelled      OrderStatus = "cancelled"       // Cancelled (terminal)
)

// Terminal reports whether no further transition is permitted out of s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          *string     `gorm:"index" json:"user_id"` // nil for guest orders
	User            *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	GuestEmail      string      `json:"guest_email,omitempty"`
	Items           []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	SubtotalAmount  float64     `json:"subtotal_amount"`
	ShippingCost    float64     `json:"shipping_cost"`
	TotalAmount     float64     `json:"total_amount"`
	Currency        string      `gorm:"type:VARCHAR(3)" json:"currency"`
	Status          OrderStatus `gorm:"type:VARCHAR(20);index" json:"status"`
	ShippingAddress Address     `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	CarrierName     string      `json:"carrier_name,omitempty"`
	TrackingNumber  string      `json:"tracking_number,omitempty"`
	TrackingURL     string      `json:"tracking_url,omitempty"`
	CancelReason    string      `json:"cancel_reason,omitempty"`
	OrderRef        string      `gorm:"uniqueIndex" json:"order_ref"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OrderItem carries immutable product snapshots taken at order time.
// ProductID may dangle once the product is deleted; the snapshots stay valid.
type OrderItem struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	OrderID   uint          `gorm:"index" json:"order_id"`
	ProductID *uint         `json:"product_id"`
	Quantity  int           `gorm:"not null" json:"quantity"`
	UnitPrice float64       `json:"unit_price"`
	Title     LocalizedText `gorm:"type:jsonb" json:"title"`
	Flavor    LocalizedText `gorm:"type:jsonb" json:"flavor"`
	Weight    float64       `json:"weight"`
}
