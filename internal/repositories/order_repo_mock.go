package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"shopmart/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = *order
	return nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *MockOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []models.Order
	for _, o := range r.orders {
		if o.UserID != nil && *o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

// ListAll returns every order, newest first.
func (r *MockOrderRepository) ListAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}

// Claim attaches a user to an unclaimed order.
func (r *MockOrderRepository) Claim(orderID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
	}
	if order.UserID != nil {
		return fmt.Errorf("order %s: %w", orderID, ErrAlreadyClaimed)
	}
	order.UserID = &userID
	r.orders[orderID] = order
	return nil
}

// DeleteByUserID removes all of a user's orders.
func (r *MockOrderRepository) DeleteByUserID(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, o := range r.orders {
		if o.UserID != nil && *o.UserID == userID {
			delete(r.orders, id)
		}
	}
	return nil
}

// Count returns the number of stored orders.
func (r *MockOrderRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.orders)), nil
}

// TotalRevenue sums total_amount over all orders.
func (r *MockOrderRepository) TotalRevenue() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var revenue int64
	for _, o := range r.orders {
		revenue += o.TotalAmount
	}
	return revenue, nil
}

// Recent returns the newest orders up to limit.
func (r *MockOrderRepository) Recent(limit int) ([]models.Order, error) {
	orders, err := r.ListAll()
	if err != nil {
		return nil, err
	}
	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// TopProducts aggregates order items by product, ranked by units sold.
func (r *MockOrderRepository) TopProducts(limit int) ([]ProductSale, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byProduct := make(map[string]*ProductSale)
	for _, o := range r.orders {
		for _, it := range o.Items {
			s, ok := byProduct[it.ProductID]
			if !ok {
				s = &ProductSale{ProductID: it.ProductID, Name: it.Name}
				byProduct[it.ProductID] = s
			}
			s.Quantity += int64(it.Quantity)
			s.Revenue += int64(it.Quantity) * it.Price
		}
	}
	sales := make([]ProductSale, 0, len(byProduct))
	for _, s := range byProduct {
		sales = append(sales, *s)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].Quantity > sales[j].Quantity })
	if len(sales) > limit {
		sales = sales[:limit]
	}
	return sales, nil
}
