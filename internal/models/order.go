package models

import "time"

// Payment statuses an order can carry.
const (
	PaymentPending = "pending"
	PaymentSuccess = "success"
	PaymentFailed  = "failed"
)

// OrderItem represents a single item within an order. Price and Name are
// copied from the product at order time so later catalog edits never change
// past orders.
type OrderItem struct {
	ID        uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID   string `json:"-" gorm:"index;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"type:varchar(36)"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"` // Price at the time of order
}

// Order represents a placed order. UserID is nullable: simulated checkout
// sessions may create an order before the buyer is known, to be claimed
// later. Orders are immutable except for that claim.
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        *string     `json:"user_id" gorm:"index;type:varchar(36)"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount   int64       `json:"total_amount"`
	PaymentStatus string      `json:"payment_status"`
	Simulated     bool        `json:"simulated"`
	CreatedAt     time.Time   `json:"created_at"`
}
