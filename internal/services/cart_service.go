package services

import (
	"errors"
	"fmt"

	"shopmart/internal/models"
	"shopmart/internal/repositories"
)

// CartService handles business logic for the per-user shopping cart. Prices
// on cart lines are always snapshotted from the product record; a price sent
// by the client is ignored.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// GetCart returns the user's cart. A user who never added anything gets an
// empty cart rather than an error.
func (s *CartService) GetCart(userID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return &models.Cart{UserID: userID, Items: []models.CartItem{}}, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem puts quantity units of a product into the cart, creating the cart
// lazily on first use. Adding a product already in the cart merges the
// quantities and refreshes the price snapshot.
func (s *CartService) AddItem(userID, productID string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product.Stock < quantity {
		return fmt.Errorf("product %s: %w", productID, repositories.ErrInsufficientStock)
	}

	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		cart = &models.Cart{UserID: userID}
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			cart.Items[i].Price = product.Price
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, models.CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		})
	}
	return s.cartRepo.Save(cart)
}

// UpdateItem sets the quantity of a cart line. A quantity of zero or less
// removes the line.
func (s *CartService) UpdateItem(userID, productID string, quantity int) error {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return err
	}

	found := false
	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ProductID == productID {
			found = true
			if quantity <= 0 {
				continue
			}
			if product, perr := s.productRepo.GetByID(productID); perr == nil {
				it.Price = product.Price
			}
			it.Quantity = quantity
		}
		items = append(items, it)
	}
	if !found {
		return fmt.Errorf("cart item %s: %w", productID, repositories.ErrNotFound)
	}
	cart.Items = items
	return s.cartRepo.Save(cart)
}

// RemoveItem deletes a product line from the cart.
func (s *CartService) RemoveItem(userID, productID string) error {
	cart, err := s.cartRepo.GetByUserID(userID)
	if err != nil {
		return err
	}
	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	cart.Items = items
	return s.cartRepo.Save(cart)
}
