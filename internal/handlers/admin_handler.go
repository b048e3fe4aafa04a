package handlers

import (
	"shopmart/internal/models"
	"shopmart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles administrative user management and reporting.
type AdminHandler struct {
	service  *services.AdminService
	validate *validator.Validate
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service *services.AdminService) *AdminHandler {
	return &AdminHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the admin routes; everything here requires an
// authenticated admin.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, authRequired, adminOnly fiber.Handler) {
	adminRoutes := router.Group("/admin", authRequired, adminOnly)
	adminRoutes.Get("/users", h.HandleListUsers)
	adminRoutes.Post("/users", h.HandleCreateUser)
	adminRoutes.Put("/users/:id", h.HandleUpdateUser)
	adminRoutes.Delete("/users/:id", h.HandleDeleteUser)
	adminRoutes.Get("/insights", h.HandleInsights)
}

// HandleListUsers returns a page of users.
func (h *AdminHandler) HandleListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 50)
	users, total, err := h.service.ListUsers(page, limit)
	if err != nil {
		return respondError(c, err)
	}
	summaries := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].Summary())
	}
	return c.JSON(fiber.Map{
		"users": summaries,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// AdminCreateUserRequest represents the request body for creating a user.
type AdminCreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}

// HandleCreateUser creates a user with an explicit role.
func (h *AdminHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req AdminCreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationDetail(c, err)
	}

	user, err := h.service.CreateUser(req.Username, req.Email, req.Password, models.Role(req.Role))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user.Summary())
}

// AdminUpdateUserRequest represents the request body for updating a user.
type AdminUpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

// HandleUpdateUser applies partial updates to a user.
func (h *AdminHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var req AdminUpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid request body"})
	}
	if req.Username == nil && req.Email == nil && req.Password == nil && req.Role == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "No fields to update"})
	}
	var role *models.Role
	if req.Role != nil {
		r := models.Role(*req.Role)
		if r != models.RoleUser && r != models.RoleAdmin {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Invalid role"})
		}
		role = &r
	}

	user, err := h.service.UpdateUser(c.Params("id"), req.Username, req.Email, req.Password, role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user.Summary())
}

// HandleDeleteUser deletes a user, cascading to their carts, orders and
// refresh tokens.
func (h *AdminHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "user_deleted"})
}

// HandleInsights returns the admin dashboard aggregates.
func (h *AdminHandler) HandleInsights(c *fiber.Ctx) error {
	insights, err := h.service.GetInsights()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(insights)
}
