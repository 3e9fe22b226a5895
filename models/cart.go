package models

import "time"

type Cart struct {
	CartID    uint       `gorm:"primaryKey" json:"cart_id"`
	UserID    string     `gorm:"uniqueIndex" json:"user_id"`                    // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"` // Cascade delete items if cart is deleted
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem keeps a snapshot of the product taken when it was added. The
// StockSnapshot is advisory only: it caps quantities in the UI but the
// authoritative availability check happens at checkout.
type CartItem struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	CartID        uint          `gorm:"index" json:"cart_id"`
	ProductID     uint          `json:"product_id"`
	Title         LocalizedText `gorm:"type:jsonb" json:"title"`
	Flavor        LocalizedText `gorm:"type:jsonb" json:"flavor"`
	Image         string        `json:"image"`
	StockSnapshot int           `json:"stock_snapshot"`
	UnitPrice     float64       `json:"unit_price"`
	RegularPrice  float64       `json:"regular_price"`
	Weight        float64       `json:"weight"`
	Quantity      int           `json:"quantity"`
	AddedAt       time.Time     `json:"added_at"`
}
