package handlers

import (
	"shopmart/internal/middleware"
	"shopmart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for checkout and order listings.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers checkout and order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, authRequired, adminOnly fiber.Handler) {
	router.Post("/checkout", authRequired, h.HandleCheckout)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/me", authRequired, h.HandleMyOrders)
	orderRoutes.Get("/admin", authRequired, adminOnly, h.HandleAllOrders)
	orderRoutes.Post("/:id/claim", authRequired, h.HandleClaimOrder)
}

// CheckoutRequest represents the request body for checkout. Any price the
// client attaches to a line is discarded; totals come from the catalog.
type CheckoutRequest struct {
	Items []services.CheckoutItem `json:"items" validate:"required,min=1,dive"`
}

// HandleCheckout places an order from the requested lines.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationDetail(c, err)
	}

	identity := middleware.IdentityFromCtx(c)
	order, err := h.service.Checkout(identity.ID, req.Items)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"order_id": order.ID,
		"message":  "order_placed",
	})
}

// HandleMyOrders lists the caller's orders, newest first.
func (h *OrderHandler) HandleMyOrders(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	orders, err := h.service.ListOrdersByUser(identity.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// HandleAllOrders lists every order (admin only).
func (h *OrderHandler) HandleAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAllOrders()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// HandleClaimOrder attaches the caller to an order created before identity
// resolution. Fails once the order belongs to anyone.
func (h *OrderHandler) HandleClaimOrder(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	if err := h.service.ClaimOrder(c.Params("id"), identity.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "order_claimed"})
}
