package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID           uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Title        LocalizedText `gorm:"type:jsonb;not null" json:"title"`
	Description  LocalizedText `gorm:"type:jsonb" json:"description"`
	Flavor       LocalizedText `gorm:"type:jsonb" json:"flavor"`
	SalePrice    float64       `gorm:"not null" json:"sale_price"`
	RegularPrice float64       `json:"regular_price"`
	Image        string        `json:"image"`
	Weight       float64       `gorm:"not null" json:"weight"`
	Stock        int           `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
