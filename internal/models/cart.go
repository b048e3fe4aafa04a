package models

import "time"

// CartItem is a single line in a user's cart. Price is the snapshot taken
// from the product record at the time the line was added or last updated.
type CartItem struct {
	ID        uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	CartID    string `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"type:varchar(36)" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
	Price     int64  `json:"price" validate:"gte=0"`
}

// Cart holds at most one open cart per user. Checkout clears the items but
// keeps the cart row.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"user_id" gorm:"uniqueIndex;type:varchar(36)"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	UpdatedAt time.Time  `json:"updated_at"`
}
