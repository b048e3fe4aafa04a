package services

import (
	"errors"
	"fmt"
	"log"

	"shopmart/internal/models"
	"shopmart/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// Insights is the admin dashboard aggregate.
type Insights struct {
	UsersCount    int64                      `json:"users_count"`
	ProductsCount int64                      `json:"products_count"`
	OrdersCount   int64                      `json:"orders_count"`
	CartsCount    int64                      `json:"carts_count"`
	TotalRevenue  int64                      `json:"total_revenue"`
	RecentOrders  []models.Order             `json:"recent_orders"`
	ProductSales  []repositories.ProductSale `json:"product_sales"`
}

// AdminService handles administrative user management and reporting.
type AdminService struct {
	userRepo    repositories.UserRepository
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
	cartRepo    repositories.CartRepository
	tokenRepo   repositories.RefreshTokenRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(userRepo repositories.UserRepository, productRepo repositories.ProductRepository, orderRepo repositories.OrderRepository, cartRepo repositories.CartRepository, tokenRepo repositories.RefreshTokenRepository) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		tokenRepo:   tokenRepo,
	}
}

// ListUsers returns a page of users plus the total count.
func (s *AdminService) ListUsers(page, limit int) ([]models.User, int64, error) {
	return s.userRepo.List(page, limit)
}

// CreateUser creates a user with an explicit role, unlike self-service
// registration which always yields "user".
func (s *AdminService) CreateUser(username, email, password string, role models.Role) (*models.User, error) {
	if role != models.RoleAdmin {
		role = models.RoleUser
	}
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("create user: %w", ErrEmailTaken)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, fmt.Errorf("create user: %w", ErrEmailTaken)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// UpdateUser applies the non-nil fields to an existing user. A new password
// is re-hashed before storage.
func (s *AdminService) UpdateUser(id string, username, email, password *string, role *models.Role) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if username != nil {
		user.Username = *username
	}
	if email != nil {
		user.Email = *email
	}
	if role != nil {
		user.Role = *role
	}
	if password != nil && *password != "" {
		hash, herr := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if herr != nil {
			return nil, fmt.Errorf("failed to hash password: %w", herr)
		}
		user.PasswordHash = string(hash)
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user and cascades to their cart, orders and
// outstanding refresh tokens, so a deleted user's tokens die with them.
func (s *AdminService) DeleteUser(id string) error {
	if err := s.userRepo.Delete(id); err != nil {
		return err
	}
	if err := s.cartRepo.DeleteByUserID(id); err != nil {
		log.Printf("failed to delete cart for user %s: %v", id, err)
	}
	if err := s.orderRepo.DeleteByUserID(id); err != nil {
		log.Printf("failed to delete orders for user %s: %v", id, err)
	}
	if err := s.tokenRepo.DeleteByUserID(id); err != nil {
		log.Printf("failed to delete refresh tokens for user %s: %v", id, err)
	}
	return nil
}

// GetInsights assembles the admin dashboard counters and aggregates.
func (s *AdminService) GetInsights() (*Insights, error) {
	usersCount, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	productsCount, err := s.productRepo.Count()
	if err != nil {
		return nil, err
	}
	ordersCount, err := s.orderRepo.Count()
	if err != nil {
		return nil, err
	}
	cartsCount, err := s.cartRepo.Count()
	if err != nil {
		return nil, err
	}
	revenue, err := s.orderRepo.TotalRevenue()
	if err != nil {
		return nil, err
	}
	recent, err := s.orderRepo.Recent(10)
	if err != nil {
		return nil, err
	}
	sales, err := s.orderRepo.TopProducts(10)
	if err != nil {
		return nil, err
	}
	return &Insights{
		UsersCount:    usersCount,
		ProductsCount: productsCount,
		OrdersCount:   ordersCount,
		CartsCount:    cartsCount,
		TotalRevenue:  revenue,
		RecentOrders:  recent,
		ProductSales:  sales,
	}, nil
}
