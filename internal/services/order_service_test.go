package services_test

import (
	"sync"
	"testing"

	"shopmart/internal/models"
	"shopmart/internal/repositories"
	"shopmart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capturePublisher records published order events in memory.
type capturePublisher struct {
	mu     sync.Mutex
	events []map[string]interface{}
}

func (p *capturePublisher) PublishOrderCreated(orderData map[string]interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, orderData)
	return nil
}

func (p *capturePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type orderFixture struct {
	svc       *services.OrderService
	orders    *repositories.MockOrderRepository
	products  *repositories.MockProductRepository
	carts     *repositories.MockCartRepository
	publisher *capturePublisher
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		orders:    repositories.NewMockOrderRepository(),
		products:  repositories.NewMockProductRepository(),
		carts:     repositories.NewMockCartRepository(),
		publisher: &capturePublisher{},
	}
	f.svc = services.NewOrderService(f.orders, f.products, f.carts, f.publisher)

	require.NoError(t, f.products.Create(&models.Product{ID: "p1", Name: "Laptop", Price: 500, Stock: 10}))
	require.NoError(t, f.products.Create(&models.Product{ID: "p2", Name: "Monitor", Price: 250, Stock: 4}))
	return f
}

func (f *orderFixture) stock(t *testing.T, id string) int {
	t.Helper()
	p, err := f.products.GetByID(id)
	require.NoError(t, err)
	return p.Stock
}

func TestOrderService_Checkout(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.carts.Save(&models.Cart{
		UserID: "u1",
		Items:  []models.CartItem{{ProductID: "p1", Quantity: 2, Price: 500}},
	}))

	order, err := f.svc.Checkout("u1", []services.CheckoutItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 4},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2000), order.TotalAmount)
	assert.Equal(t, models.PaymentSuccess, order.PaymentStatus)
	assert.False(t, order.Simulated)
	require.NotNil(t, order.UserID)
	assert.Equal(t, "u1", *order.UserID)

	assert.Equal(t, 8, f.stock(t, "p1"))
	assert.Equal(t, 0, f.stock(t, "p2"))

	cart, err := f.carts.GetByUserID("u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	assert.Equal(t, 1, f.publisher.count())
}

func TestOrderService_CheckoutValidatesBeforeAnyWrite(t *testing.T) {
	f := newOrderFixture(t)

	// The second line exceeds stock, so the whole order must be refused
	// with nothing written.
	_, err := f.svc.Checkout("u1", []services.CheckoutItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 5},
	})
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)

	assert.Equal(t, 10, f.stock(t, "p1"))
	assert.Equal(t, 4, f.stock(t, "p2"))
	count, err := f.orders.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, f.publisher.count())
}

func TestOrderService_CheckoutUnknownProduct(t *testing.T) {
	f := newOrderFixture(t)

	_, err := f.svc.Checkout("u1", []services.CheckoutItem{
		{ProductID: "ghost", Quantity: 1},
	})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	count, err := f.orders.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestOrderService_CheckoutEmptyItems(t *testing.T) {
	f := newOrderFixture(t)
	_, err := f.svc.Checkout("u1", nil)
	assert.Error(t, err)
}

func TestOrderService_CheckoutSnapshotsCatalogPrices(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.Checkout("u1", []services.CheckoutItem{{ProductID: "p1", Quantity: 3}})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(500), order.Items[0].Price)
	assert.Equal(t, "Laptop", order.Items[0].Name)
	assert.Equal(t, int64(1500), order.TotalAmount)
}

func TestOrderService_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	f := newOrderFixture(t)
	require.NoError(t, f.products.Create(&models.Product{ID: "hot", Name: "Limited Drop", Price: 100, Stock: 5}))

	const buyers = 10
	var wg sync.WaitGroup
	results := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Checkout("u1", []services.CheckoutItem{{ProductID: "hot", Quantity: 1}})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		}
	}
	assert.LessOrEqual(t, successes, 5)
	assert.Equal(t, 5-successes, f.stock(t, "hot"))
}

func TestOrderService_SimulatedCheckout(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.SimulatedCheckout(nil, []services.SimulatedItem{
		{ProductID: "p1", Quantity: 2, Price: 1, Name: "ignored"},
		{ProductID: "ghost", Quantity: 1, Price: 999, Name: "Mystery Box"},
	})
	require.NoError(t, err)

	assert.True(t, order.Simulated)
	assert.Nil(t, order.UserID)
	require.Len(t, order.Items, 2)
	// Known products keep the catalog price; unknown ones fall back to the
	// client declaration.
	assert.Equal(t, int64(500), order.Items[0].Price)
	assert.Equal(t, "Laptop", order.Items[0].Name)
	assert.Equal(t, int64(999), order.Items[1].Price)
	assert.Equal(t, "Mystery Box", order.Items[1].Name)
	assert.Equal(t, int64(2*500+999), order.TotalAmount)

	assert.Equal(t, 8, f.stock(t, "p1"))
}

func TestOrderService_SimulatedCheckoutSkipsShortStock(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.SimulatedCheckout(nil, []services.SimulatedItem{
		{ProductID: "p2", Quantity: 9},
	})
	require.NoError(t, err)

	// The order is still recorded at catalog price, but no stock went
	// negative for it.
	assert.Equal(t, int64(9*250), order.TotalAmount)
	assert.Equal(t, 4, f.stock(t, "p2"))
}

func TestOrderService_ClaimOrder(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.svc.SimulatedCheckout(nil, []services.SimulatedItem{{ProductID: "p1", Quantity: 1}})
	require.NoError(t, err)

	require.NoError(t, f.svc.ClaimOrder(order.ID, "u1"))

	// Only the first claimant wins; even the winner cannot claim twice.
	assert.ErrorIs(t, f.svc.ClaimOrder(order.ID, "u2"), repositories.ErrAlreadyClaimed)
	assert.ErrorIs(t, f.svc.ClaimOrder(order.ID, "u1"), repositories.ErrAlreadyClaimed)

	mine, err := f.svc.ListOrdersByUser("u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, order.ID, mine[0].ID)

	assert.ErrorIs(t, f.svc.ClaimOrder("ghost", "u1"), repositories.ErrNotFound)
}
