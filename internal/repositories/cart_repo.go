package repositories

import "shopmart/internal/models"

// CartRepository defines the interface for cart data access. A user has at
// most one cart; Save upserts the whole item list in one step.
type CartRepository interface {
	GetByUserID(userID string) (*models.Cart, error)
	Save(cart *models.Cart) error
	Clear(userID string) error
	DeleteByUserID(userID string) error
	Count() (int64, error)
}
