package handlers

import (
	"errors"
	"log"

	"shopmart/internal/repositories"
	"shopmart/internal/services"

	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors to HTTP statuses with a uniform
// {"detail": ...} body. Wrapped internals are logged but never echoed to
// the client.
func respondError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidToken),
		errors.Is(err, services.ErrTokenRevoked),
		errors.Is(err, services.ErrTokenExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid or expired token"})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid credentials"})
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, repositories.ErrDuplicateEmail):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Email already registered"})
	case errors.Is(err, repositories.ErrInsufficientStock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Insufficient stock"})
	case errors.Is(err, repositories.ErrAlreadyClaimed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Order already claimed"})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Not found"})
	default:
		log.Printf("internal error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal server error"})
	}
}

// validationDetail renders validator errors into the uniform error shape.
func validationDetail(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
}
