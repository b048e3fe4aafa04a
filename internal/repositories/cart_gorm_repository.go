package repositories

import (
	"errors"
	"fmt"
	"time"

	"shopmart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUserID retrieves a user's cart with its items.
func (r *GORMCartRepository) GetByUserID(userID string) (*models.Cart, error) {
	var cart models.Cart
	if err := r.db.Preload("Items").First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// Save upserts the cart and replaces its item list atomically.
func (r *GORMCartRepository) Save(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	cart.UpdatedAt = time.Now()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		items := cart.Items
		cart.Items = nil
		if err := tx.Save(cart).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.CartItem{}, "cart_id = ?", cart.ID).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].ID = 0
			items[i].CartID = cart.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		cart.Items = items
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Clear empties the cart's items but keeps the cart row.
func (r *GORMCartRepository) Clear(userID string) error {
	var cart models.Cart
	if err := r.db.First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil // nothing to clear
		}
		return fmt.Errorf("failed to load cart for clear: %w", err)
	}
	if err := r.db.Delete(&models.CartItem{}, "cart_id = ?", cart.ID).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return r.db.Model(&cart).Update("updated_at", time.Now()).Error
}

// DeleteByUserID removes the cart and its items entirely.
func (r *GORMCartRepository) DeleteByUserID(userID string) error {
	var cart models.Cart
	if err := r.db.First(&cart, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load cart for delete: %w", err)
	}
	if err := r.db.Delete(&models.CartItem{}, "cart_id = ?", cart.ID).Error; err != nil {
		return fmt.Errorf("failed to delete cart items: %w", err)
	}
	if err := r.db.Delete(&cart).Error; err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// Count returns the total number of carts.
func (r *GORMCartRepository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&models.Cart{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count carts: %w", err)
	}
	return total, nil
}
