package handlers

import (
	"shopmart/internal/middleware"
	"shopmart/internal/repositories"
	"shopmart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles the simulated payment session flow. There is no
// real gateway behind it; the session endpoint creates a simulated order
// directly.
type PaymentHandler struct {
	orderService *services.OrderService
	authService  *services.AuthService
	userRepo     repositories.UserRepository
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(orderService *services.OrderService, authService *services.AuthService, userRepo repositories.UserRepository) *PaymentHandler {
	return &PaymentHandler{
		orderService: orderService,
		authService:  authService,
		userRepo:     userRepo,
	}
}

// RegisterRoutes registers the payment routes. Neither route requires
// authentication: the session endpoint resolves identity best-effort so a
// guest checkout still produces a (claimable) order.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router) {
	paymentRoutes := router.Group("/payments")
	paymentRoutes.Post("/create-checkout-session", h.HandleCreateCheckoutSession)
	paymentRoutes.Post("/webhook", h.HandleWebhook)
}

// CheckoutSessionRequest represents the request body for a simulated
// payment session.
type CheckoutSessionRequest struct {
	Items      []services.SimulatedItem `json:"items"`
	SuccessURL string                   `json:"success_url"`
	CancelURL  string                   `json:"cancel_url"`
}

// HandleCreateCheckoutSession creates a simulated order and returns the
// redirect URL the frontend expects from a payment provider.
func (h *PaymentHandler) HandleCreateCheckoutSession(c *fiber.Ctx) error {
	var req CheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if len(req.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "No items provided"})
	}
	successURL := req.SuccessURL
	if successURL == "" {
		successURL = "/checkout/success"
	}

	// Identity is optional here; an unresolved buyer yields an order with a
	// null user id that can be claimed later.
	var userID *string
	if token := middleware.TokenFromRequest(c); token != "" {
		if claims, err := h.authService.DecodeToken(token); err == nil {
			if sub, _ := claims["sub"].(string); sub != "" {
				if user, uerr := h.userRepo.GetByID(sub); uerr == nil {
					userID = &user.ID
				}
			}
		}
	}

	order, err := h.orderService.SimulatedCheckout(userID, req.Items)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"url":      successURL,
		"order_id": order.ID,
	})
}

// HandleWebhook accepts a provider callback. With the simulated gateway
// there is nothing to verify; the payload is echoed back.
func (h *PaymentHandler) HandleWebhook(c *fiber.Ctx) error {
	var body interface{}
	if err := c.BodyParser(&body); err != nil {
		body = nil
	}
	return c.JSON(fiber.Map{"received": true, "body": body})
}
