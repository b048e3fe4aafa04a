package repositories

import "shopmart/internal/models"

// ProductSale is the aggregate row behind the admin "top products" report.
type ProductSale struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Revenue   int64  `json:"revenue"`
}

// OrderRepository defines the interface for order data access. Orders are
// immutable once created except for Claim, which attaches a user to an
// order whose user_id is still null.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	ListByUser(userID string) ([]models.Order, error)
	ListAll() ([]models.Order, error)
	Claim(orderID, userID string) error
	DeleteByUserID(userID string) error
	Count() (int64, error)
	TotalRevenue() (int64, error)
	Recent(limit int) ([]models.Order, error)
	TopProducts(limit int) ([]ProductSale, error)
}
