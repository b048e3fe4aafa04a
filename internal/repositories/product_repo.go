package repositories

import "shopmart/internal/models"

// ProductRepository defines the interface for product data access.
//
// DecrementStock is the one write with a business rule attached: it must
// only succeed when the remaining stock covers the requested quantity, as a
// single conditional update, so two concurrent checkouts can never drive
// stock below zero.
type ProductRepository interface {
	List(filter models.ProductFilter) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	DecrementStock(id string, quantity int) error
	Count() (int64, error)
}
