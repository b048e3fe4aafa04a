package services

import (
	"fmt"
	"log"
	"time"

	"shopmart/internal/models"
	"shopmart/internal/repositories"
)

// OrderEventPublisher publishes order lifecycle events to the message
// broker. A nil publisher disables eventing.
type OrderEventPublisher interface {
	PublishOrderCreated(orderData map[string]interface{}) error
}

// CheckoutItem is one requested order line. Quantity comes from the client;
// the price never does.
type CheckoutItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// SimulatedItem is a requested line for the simulated payment flow. Price
// and Name are used only when the product cannot be found in the catalog.
type SimulatedItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
	Name      string `json:"name"`
}

// OrderService coordinates checkout: it validates requested lines against
// the inventory, snapshots authoritative prices, persists the order,
// decrements stock and clears the buyer's cart.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	cartRepo    repositories.CartRepository
	publisher   OrderEventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, cartRepo repositories.CartRepository, publisher OrderEventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		publisher:   publisher,
	}
}

// Checkout validates every requested line before any write: each product
// must exist and have enough stock, and the line price is snapshotted from
// the product record, never from client input. If any line fails, no order
// is created and no stock is touched. The commit phase re-validates stock
// through the repository's conditional decrement, so concurrent checkouts
// cannot oversubscribe inventory.
func (s *OrderService) Checkout(userID string, items []CheckoutItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one item is required")
	}

	var total int64
	snapshots := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		product, err := s.productRepo.GetByID(it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s not found: %w", it.ProductID, err)
		}
		if product.Stock < it.Quantity {
			return nil, fmt.Errorf("product %s (requested %d, available %d): %w",
				product.Name, it.Quantity, product.Stock, repositories.ErrInsufficientStock)
		}
		snapshots = append(snapshots, models.OrderItem{
			ProductID: it.ProductID,
			Name:      product.Name,
			Quantity:  it.Quantity,
			Price:     product.Price,
		})
		total += int64(it.Quantity) * product.Price
	}

	order := &models.Order{
		UserID:        &userID,
		Items:         snapshots,
		TotalAmount:   total,
		PaymentStatus: models.PaymentSuccess,
		CreatedAt:     time.Now(),
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, it := range items {
		if err := s.productRepo.DecrementStock(it.ProductID, it.Quantity); err != nil {
			// A concurrent checkout won the race between validation and
			// commit. The conditional decrement refused rather than drive
			// stock negative; the already-inserted order is the documented
			// partial-failure exposure.
			return nil, fmt.Errorf("checkout commit for product %s: %w", it.ProductID, err)
		}
	}

	if err := s.cartRepo.Clear(userID); err != nil {
		log.Printf("failed to clear cart for user %s after checkout: %v", userID, err)
	}

	s.publishCreated(order)
	return order, nil
}

// SimulatedCheckout follows the same snapshot rules as Checkout but is
// tolerant: unknown products fall back to the client-declared price and
// name, lines without enough stock are skipped for decrement, and the buyer
// may be unknown. Such orders carry simulated=true and a nullable user id
// that can be claimed later.
func (s *OrderService) SimulatedCheckout(userID *string, items []SimulatedItem) (*models.Order, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one item is required")
	}

	var total int64
	snapshots := make([]models.OrderItem, 0, len(items))
	type decrement struct {
		productID string
		quantity  int
	}
	var decrements []decrement

	for _, it := range items {
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		product, err := s.productRepo.GetByID(it.ProductID)
		if err != nil {
			// Unknown product: trust the client's declaration, which is why
			// the whole order is flagged simulated.
			total += int64(qty) * it.Price
			snapshots = append(snapshots, models.OrderItem{
				ProductID: it.ProductID,
				Name:      it.Name,
				Quantity:  qty,
				Price:     it.Price,
			})
			continue
		}
		if product.Stock >= qty {
			decrements = append(decrements, decrement{productID: product.ID, quantity: qty})
		}
		total += int64(qty) * product.Price
		snapshots = append(snapshots, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  qty,
			Price:     product.Price,
		})
	}

	order := &models.Order{
		UserID:        userID,
		Items:         snapshots,
		TotalAmount:   total,
		PaymentStatus: models.PaymentSuccess,
		Simulated:     true,
		CreatedAt:     time.Now(),
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create simulated order: %w", err)
	}

	for _, d := range decrements {
		if err := s.productRepo.DecrementStock(d.productID, d.quantity); err != nil {
			log.Printf("simulated checkout: skipping decrement for product %s: %v", d.productID, err)
		}
	}
	if userID != nil {
		if err := s.cartRepo.Clear(*userID); err != nil {
			log.Printf("failed to clear cart for user %s after simulated checkout: %v", *userID, err)
		}
	}

	s.publishCreated(order)
	return order, nil
}

// ClaimOrder attaches a user to an order created before identity resolution.
// It succeeds only while the order's user id is still null.
func (s *OrderService) ClaimOrder(orderID, userID string) error {
	return s.orderRepo.Claim(orderID, userID)
}

// GetOrderByID retrieves a single order.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// ListOrdersByUser returns the user's orders, newest first.
func (s *OrderService) ListOrdersByUser(userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID)
}

// ListAllOrders returns every order, newest first.
func (s *OrderService) ListAllOrders() ([]models.Order, error) {
	return s.orderRepo.ListAll()
}

func (s *OrderService) publishCreated(order *models.Order) {
	if s.publisher == nil {
		return
	}
	event := map[string]interface{}{
		"order_id":  order.ID,
		"total":     order.TotalAmount,
		"status":    order.PaymentStatus,
		"simulated": order.Simulated,
	}
	if order.UserID != nil {
		event["user_id"] = *order.UserID
	}
	if err := s.publisher.PublishOrderCreated(event); err != nil {
		log.Printf("Warning: failed to publish order created event for order %s: %v", order.ID, err)
	}
}
