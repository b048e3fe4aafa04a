package handlers

import (
	"shopmart/internal/middleware"
	"shopmart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes. Cart mutation is restricted to
// the "user" role; admins manage the catalog but do not shop.
func (h *CartHandler) RegisterRoutes(router fiber.Router, authRequired, userOnly fiber.Handler) {
	cartRoutes := router.Group("/cart", authRequired)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/add", userOnly, h.HandleAddItem)
	cartRoutes.Put("/update", userOnly, h.HandleUpdateItem)
	cartRoutes.Delete("/remove", userOnly, h.HandleRemoveItem)
}

// CartItemRequest represents the request body for cart mutations. A price
// field sent by older clients is accepted but ignored; the snapshot always
// comes from the product record.
type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required"`
	Price     int64  `json:"price"`
}

// HandleGetCart returns the caller's cart, empty if they never added anything.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	cart, err := h.service.GetCart(identity.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items":      cart.Items,
		"updated_at": cart.UpdatedAt,
	})
}

// HandleAddItem adds a product to the cart, merging quantities on repeat.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationDetail(c, err)
	}
	if req.Quantity < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Quantity must be at least 1"})
	}

	identity := middleware.IdentityFromCtx(c)
	if err := h.service.AddItem(identity.ID, req.ProductID, req.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "added"})
}

// HandleUpdateItem sets a line's quantity; zero or negative removes it.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req CartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "product_id is required"})
	}

	identity := middleware.IdentityFromCtx(c)
	if err := h.service.UpdateItem(identity.ID, req.ProductID, req.Quantity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "updated"})
}

// HandleRemoveItem deletes a product line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "product_id is required"})
	}

	identity := middleware.IdentityFromCtx(c)
	if err := h.service.RemoveItem(identity.ID, productID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "removed"})
}
