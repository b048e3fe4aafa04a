package repositories

import (
	"fmt"
	"sync"
	"time"

	"shopmart/internal/models"
)

// MockRefreshTokenRepository is an in-memory implementation of RefreshTokenRepository.
type MockRefreshTokenRepository struct {
	tokens map[string]models.RefreshToken // keyed by JTI
	mu     sync.RWMutex
}

// NewMockRefreshTokenRepository creates a new instance of MockRefreshTokenRepository.
func NewMockRefreshTokenRepository() *MockRefreshTokenRepository {
	return &MockRefreshTokenRepository{
		tokens: make(map[string]models.RefreshToken),
	}
}

// Create inserts a new ledger record.
func (r *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	r.tokens[token.JTI] = *token
	return nil
}

// Get looks up a record by token ID and owner.
func (r *MockRefreshTokenRepository) Get(jti, userID string) (*models.RefreshToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	token, ok := r.tokens[jti]
	if !ok || token.UserID != userID {
		return nil, fmt.Errorf("refresh token %s: %w", jti, ErrNotFound)
	}
	return &token, nil
}

// Delete removes a record; absent records are ignored.
func (r *MockRefreshTokenRepository) Delete(jti string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, jti)
	return nil
}

// DeleteByUserID revokes every token for a user.
func (r *MockRefreshTokenRepository) DeleteByUserID(userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for jti, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, jti)
		}
	}
	return nil
}

// DeleteExpired sweeps expired records.
func (r *MockRefreshTokenRepository) DeleteExpired() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	now := time.Now()
	for jti, t := range r.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.tokens, jti)
			n++
		}
	}
	return n, nil
}
