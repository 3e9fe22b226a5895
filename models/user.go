package models

import "time"

type User struct {
	ID        string  `gorm:"primaryKey" json:"id"`
	Email     string  `gorm:"unique;not null" json:"email"`
	Phone     string  `json:"phone"`
	Name      string  `json:"name"`
	Address   Address `gorm:"embedded" json:"address"` // Embeds address fields directly
	Cart      Cart    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"cart"`
	Orders    []Order `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"orders"`
	Profile   Profile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile"`
	CreatedAt time.Time `json:"created_at"`
}

// Address model embedded in User and Order
type Address struct {
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Street     string `json:"street"`
	PostalCode string `json:"postal_code"`
}

// Profile holds the user's wallet balance. The balance is only ever moved
// through atomic relative updates issued alongside a Transaction row.
type Profile struct {
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	Balance   float64   `gorm:"not null;check:balance >= 0" json:"balance"`
	UpdatedAt time.Time `json:"updated_at"`
}
