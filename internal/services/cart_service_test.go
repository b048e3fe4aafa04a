package services_test

import (
	"testing"

	"shopmart/internal/models"
	"shopmart/internal/repositories"
	"shopmart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCartService(t *testing.T) (*services.CartService, *repositories.MockProductRepository) {
	t.Helper()
	products := repositories.NewMockProductRepository()
	require.NoError(t, products.Create(&models.Product{ID: "p1", Name: "Laptop", Price: 500, Stock: 10}))
	require.NoError(t, products.Create(&models.Product{ID: "p2", Name: "Monitor", Price: 250, Stock: 2}))
	return services.NewCartService(repositories.NewMockCartRepository(), products), products
}

func TestCartService_GetCartForNewUserIsEmpty(t *testing.T) {
	svc, _ := newCartService(t)

	cart, err := svc.GetCart("u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", cart.UserID)
	assert.Empty(t, cart.Items)
}

func TestCartService_AddItemMergesQuantities(t *testing.T) {
	svc, _ := newCartService(t)

	require.NoError(t, svc.AddItem("u1", "p1", 2))
	require.NoError(t, svc.AddItem("u1", "p1", 3))
	require.NoError(t, svc.AddItem("u1", "p2", 1))

	cart, err := svc.GetCart("u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, int64(500), cart.Items[0].Price)
}

func TestCartService_AddItemValidatesProductAndStock(t *testing.T) {
	svc, _ := newCartService(t)

	assert.ErrorIs(t, svc.AddItem("u1", "ghost", 1), repositories.ErrNotFound)
	assert.ErrorIs(t, svc.AddItem("u1", "p2", 3), repositories.ErrInsufficientStock)
	assert.Error(t, svc.AddItem("u1", "p1", 0))

	cart, err := svc.GetCart("u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_AddItemRefreshesPriceSnapshot(t *testing.T) {
	svc, products := newCartService(t)

	require.NoError(t, svc.AddItem("u1", "p1", 1))

	p, err := products.GetByID("p1")
	require.NoError(t, err)
	p.Price = 600
	require.NoError(t, products.Update(p))

	require.NoError(t, svc.AddItem("u1", "p1", 1))

	cart, err := svc.GetCart("u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, int64(600), cart.Items[0].Price)
}

func TestCartService_UpdateItem(t *testing.T) {
	svc, _ := newCartService(t)
	require.NoError(t, svc.AddItem("u1", "p1", 2))

	require.NoError(t, svc.UpdateItem("u1", "p1", 7))
	cart, err := svc.GetCart("u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	// Zero quantity removes the line.
	require.NoError(t, svc.UpdateItem("u1", "p1", 0))
	cart, err = svc.GetCart("u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	assert.ErrorIs(t, svc.UpdateItem("u1", "p2", 1), repositories.ErrNotFound)
}

func TestCartService_RemoveItem(t *testing.T) {
	svc, _ := newCartService(t)
	require.NoError(t, svc.AddItem("u1", "p1", 2))
	require.NoError(t, svc.AddItem("u1", "p2", 1))

	require.NoError(t, svc.RemoveItem("u1", "p1"))

	cart, err := svc.GetCart("u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "p2", cart.Items[0].ProductID)
}
