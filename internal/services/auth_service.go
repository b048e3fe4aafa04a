package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"shopmart/internal/models"
	"shopmart/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenPair is the result of a successful login or refresh. The access token
// is stateless; the refresh token's validity is tracked server-side by its
// JTI in the revocation ledger.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// AuthService handles registration, login, token issuance and the refresh
// token lifecycle.
type AuthService struct {
	userRepo   repositories.UserRepository
	tokenRepo  repositories.RefreshTokenRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokenRepo repositories.RefreshTokenRepository, jwtSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// RefreshTTL reports how long refresh tokens live; handlers use it for the
// cookie max-age.
func (s *AuthService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// Register creates a new user with a bcrypt-hashed password. Self-service
// registration always produces the "user" role.
func (s *AuthService) Register(username, email, password string) (*models.User, error) {
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("register: %w", ErrEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, fmt.Errorf("register: %w", ErrEmailTaken)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Login verifies the credentials and issues a token pair. Unknown email and
// wrong password return the same error so callers cannot enumerate users.
func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("login: %w", ErrInvalidCredentials)
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// IssueAccessToken signs a short-lived stateless access token carrying the
// subject and role.
func (s *AuthService) IssueAccessToken(userID string, role models.Role) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.accessTTL).Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken signs a long-lived refresh token with a fresh JTI and
// returns the token, its JTI and its expiry. The caller is responsible for
// recording the JTI in the revocation ledger.
func (s *AuthService) IssueRefreshToken(userID string) (string, string, time.Time, error) {
	now := time.Now()
	jti := uuid.New().String()
	exp := now.Add(s.refreshTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"jti": jti,
		"iat": now.Unix(),
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, jti, exp, nil
}

// DecodeToken verifies signature and expiry. Bad signature, malformed
// payload and expiry all collapse into ErrInvalidToken; clients never learn
// which one it was.
func (s *AuthService) DecodeToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Refresh rotates a refresh token: the old JTI is looked up in the ledger,
// a new pair is issued, the new ledger record is inserted and only then is
// the old one deleted. The insert-then-delete order matters: a crash in
// between leaves two valid tokens rather than locking the user out.
func (s *AuthService) Refresh(refreshToken string) (*models.User, *TokenPair, error) {
	claims, err := s.DecodeToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	sub, _ := claims["sub"].(string)
	jti, _ := claims["jti"].(string)
	if sub == "" || jti == "" {
		return nil, nil, ErrInvalidToken
	}

	record, err := s.tokenRepo.Get(jti, sub)
	if err != nil {
		return nil, nil, fmt.Errorf("refresh: %w", ErrTokenRevoked)
	}
	if record.ExpiresAt.Before(time.Now()) {
		// Lazy eviction: the ledger row outlived the token.
		if delErr := s.tokenRepo.Delete(jti); delErr != nil {
			log.Printf("failed to evict expired refresh token %s: %v", jti, delErr)
		}
		return nil, nil, fmt.Errorf("refresh: %w", ErrTokenExpired)
	}

	// Role is re-read from the credential store, not trusted from the old token.
	user, err := s.userRepo.GetByID(sub)
	if err != nil {
		return nil, nil, fmt.Errorf("refresh: %w", ErrTokenRevoked)
	}

	pair, err := s.issuePair(user)
	if err != nil {
		return nil, nil, err
	}
	if err := s.tokenRepo.Delete(jti); err != nil {
		// The new token is already live; the stale record only costs a row.
		log.Printf("failed to delete rotated refresh token %s: %v", jti, err)
	}
	return user, pair, nil
}

// Logout revokes the refresh token's ledger record. Decode failures and
// missing records are ignored so logout is always safe to repeat.
func (s *AuthService) Logout(refreshToken string) {
	if refreshToken == "" {
		return
	}
	claims, err := s.DecodeToken(refreshToken)
	if err != nil {
		return
	}
	if jti, _ := claims["jti"].(string); jti != "" {
		if err := s.tokenRepo.Delete(jti); err != nil {
			log.Printf("failed to delete refresh token on logout: %v", err)
		}
	}
}

// SweepExpiredTokens evicts ledger rows whose expiry has passed.
func (s *AuthService) SweepExpiredTokens() (int64, error) {
	return s.tokenRepo.DeleteExpired()
}

func (s *AuthService) issuePair(user *models.User) (*TokenPair, error) {
	access, err := s.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, jti, exp, err := s.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Create(&models.RefreshToken{
		JTI:       jti,
		UserID:    user.ID,
		CreatedAt: time.Now(),
		ExpiresAt: exp,
	}); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, RefreshExpiresAt: exp}, nil
}
