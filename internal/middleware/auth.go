package middleware

import (
	"log"
	"strings"

	"shopmart/internal/models"
	"shopmart/internal/repositories"
	"shopmart/internal/services"

	"github.com/gofiber/fiber/v2"
)

const identityKey = "identity"

// Identity is the authenticated caller resolved for a single request. The
// credential hash never makes it into an Identity.
type Identity struct {
	ID       string
	Username string
	Email    string
	Role     models.Role
}

// TokenFromRequest extracts the bearer credential: the access_token cookie
// is preferred, with an Authorization: Bearer header as fallback.
func TokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies("access_token"); cookie != "" {
		return cookie
	}
	authHeader := c.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// AuthRequired resolves the request's bearer credential to an Identity and
// stores it in the request context. The subject is re-checked against the
// credential store on every request, so a deleted user's still-valid token
// stops working immediately.
func AuthRequired(authService *services.AuthService, users repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := TokenFromRequest(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Not authenticated",
			})
		}

		claims, err := authService.DecodeToken(token)
		if err != nil {
			log.Printf("access token rejected: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid or expired token",
			})
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid or expired token",
			})
		}

		user, err := users.GetByID(sub)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "User not found",
			})
		}

		c.Locals(identityKey, &Identity{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
		})
		return c.Next()
	}
}

// RequireRole gates a route group on the identity's role. Must run after
// AuthRequired. A valid identity with the wrong role gets 403.
func RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity := IdentityFromCtx(c)
		if identity == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Not authenticated",
			})
		}
		if identity.Role != role {
			detail := "Insufficient role"
			if role == models.RoleAdmin {
				detail = "Admin privileges required"
			}
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"detail": detail,
			})
		}
		return c.Next()
	}
}

// IdentityFromCtx returns the Identity stored by AuthRequired, or nil.
func IdentityFromCtx(c *fiber.Ctx) *Identity {
	identity, _ := c.Locals(identityKey).(*Identity)
	return identity
}
