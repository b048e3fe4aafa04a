package handlers

import (
	"log"
	"time"

	"shopmart/internal/middleware"
	"shopmart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CookieConfig carries the attributes for the auth cookies; everything but
// HttpOnly (always on) is deployment-specific.
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	cookies     CookieConfig
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes. authRequired guards
// /auth/me; the remaining routes are public by design (refresh and logout
// authenticate via the refresh cookie itself).
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/refresh", h.HandleRefresh)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Get("/me", authRequired, h.HandleMe)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationDetail(c, err)
	}

	user, err := h.authService.Register(req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user.Summary())
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin verifies credentials and sets the HttpOnly token cookies.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationDetail(c, err)
	}

	_, pair, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		log.Printf("login failed for %s: %v", req.Email, err)
		return respondError(c, err)
	}

	h.setTokenCookies(c, pair)
	return c.JSON(fiber.Map{"message": "logged_in"})
}

// HandleMe returns the authenticated user's summary.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	identity := middleware.IdentityFromCtx(c)
	return c.JSON(fiber.Map{
		"id":       identity.ID,
		"username": identity.Username,
		"email":    identity.Email,
		"role":     identity.Role,
	})
}

// HandleRefresh rotates the refresh token and reissues both cookies. The
// old refresh token stops working the moment this succeeds.
func (h *AuthHandler) HandleRefresh(c *fiber.Ctx) error {
	token := h.refreshTokenFromRequest(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Missing refresh token"})
	}

	_, pair, err := h.authService.Refresh(token)
	if err != nil {
		return respondError(c, err)
	}

	h.setTokenCookies(c, pair)
	return c.JSON(fiber.Map{"message": "token_refreshed"})
}

// HandleLogout revokes the refresh token's server-side record and clears
// both cookies. Safe to call repeatedly; a second call simply finds no
// ledger record.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	h.authService.Logout(c.Cookies("refresh_token"))
	h.clearTokenCookies(c)
	return c.JSON(fiber.Map{"message": "logged_out"})
}

func (h *AuthHandler) refreshTokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies("refresh_token"); cookie != "" {
		return cookie
	}
	const prefix = "Bearer "
	authHeader := c.Get("Authorization")
	if len(authHeader) > len(prefix) && authHeader[:len(prefix)] == prefix {
		return authHeader[len(prefix):]
	}
	return ""
}

func (h *AuthHandler) setTokenCookies(c *fiber.Ctx, pair *services.TokenPair) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    pair.AccessToken,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
		Domain:   h.cookies.Domain,
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    pair.RefreshToken,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: h.cookies.SameSite,
		Domain:   h.cookies.Domain,
		Expires:  pair.RefreshExpiresAt,
	})
}

func (h *AuthHandler) clearTokenCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HTTPOnly: true,
			Domain:   h.cookies.Domain,
			Expires:  expired,
		})
	}
}
