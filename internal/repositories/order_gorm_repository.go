package repositories

import (
	"errors"
	"fmt"
	"time"

	"shopmart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create inserts a new order with its items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves a single order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// ListByUser returns the user's orders, newest first.
func (r *GORMOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Where("user_id = ?", userID).Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// ListAll returns every order, newest first.
func (r *GORMOrderRepository) ListAll() ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// Claim attaches a user to an order whose user_id is still null. The NULL
// check sits in the same UPDATE so two racing claims get exactly one winner.
func (r *GORMOrderRepository) Claim(orderID, userID string) error {
	res := r.db.Model(&models.Order{}).
		Where("id = ? AND user_id IS NULL", orderID).
		Update("user_id", userID)
	if res.Error != nil {
		return fmt.Errorf("failed to claim order %s: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.Model(&models.Order{}).Where("id = ?", orderID).Count(&count).Error; err == nil && count == 0 {
			return fmt.Errorf("order with ID %s: %w", orderID, ErrNotFound)
		}
		return fmt.Errorf("order %s: %w", orderID, ErrAlreadyClaimed)
	}
	return nil
}

// DeleteByUserID removes all of a user's orders and their items.
func (r *GORMOrderRepository) DeleteByUserID(userID string) error {
	var orders []models.Order
	if err := r.db.Where("user_id = ?", userID).Find(&orders).Error; err != nil {
		return fmt.Errorf("failed to load orders for delete: %w", err)
	}
	for _, o := range orders {
		if err := r.db.Delete(&models.OrderItem{}, "order_id = ?", o.ID).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
	}
	if err := r.db.Delete(&models.Order{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete orders: %w", err)
	}
	return nil
}

// Count returns the total number of orders.
func (r *GORMOrderRepository) Count() (int64, error) {
	var total int64
	if err := r.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

// TotalRevenue sums total_amount over all orders.
func (r *GORMOrderRepository) TotalRevenue() (int64, error) {
	var revenue int64
	err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&revenue).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return revenue, nil
}

// Recent returns the newest orders up to limit.
func (r *GORMOrderRepository) Recent(limit int) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.Preload("Items").Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return orders, nil
}

// TopProducts aggregates order items by product, ranked by units sold.
func (r *GORMOrderRepository) TopProducts(limit int) ([]ProductSale, error) {
	var sales []ProductSale
	err := r.db.Model(&models.OrderItem{}).
		Select("product_id, MAX(name) AS name, SUM(quantity) AS quantity, SUM(quantity * price) AS revenue").
		Group("product_id").
		Order("quantity DESC").
		Limit(limit).
		Scan(&sales).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate product sales: %w", err)
	}
	return sales, nil
}
