package models

import "time"

type GuestCart struct {
	CartID    uint            `gorm:"primaryKey" json:"cart_id"`
	GuestID   string          `gorm:"uniqueIndex" json:"guest_id"`
	Items     []GuestCartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type GuestCartItem struct {
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

// CartItem converts a guest line to the user-cart shape so checkout can
// process both through the same path.
func (i GuestCartItem) CartItem() CartItem {
	return CartItem{
		ProductID:     i.ProductID,
		Title:         i.Title,
		Flavor:        i.Flavor,
		Image:         i.Image,
		StockSnapshot: i.StockSnapshot,
		UnitPrice:     i.UnitPrice,
		RegularPrice:  i.RegularPrice,
		Weight:        i.Weight,
		Quantity:      i.Quantity,
		AddedAt:       i.AddedAt,
	}
}
