package repositories

import (
	"errors"
	"fmt"
	"time"

	"shopmart/internal/models"

	"gorm.io/gorm"
)

// GORMRefreshTokenRepository is a GORM implementation of RefreshTokenRepository.
type GORMRefreshTokenRepository struct {
	db *gorm.DB
}

// NewGORMRefreshTokenRepository creates a new instance of GORMRefreshTokenRepository.
func NewGORMRefreshTokenRepository(db *gorm.DB) *GORMRefreshTokenRepository {
	return &GORMRefreshTokenRepository{
		db: db,
	}
}

// Create inserts a new ledger record.
func (r *GORMRefreshTokenRepository) Create(token *models.RefreshToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	if err := r.db.Create(token).Error; err != nil {
		return fmt.Errorf("failed to create refresh token record: %w", err)
	}
	return nil
}

// Get looks up a ledger record by token ID and owner. An absent record means
// the token is revoked, whatever its signature says.
func (r *GORMRefreshTokenRepository) Get(jti, userID string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.First(&token, "jti = ? AND user_id = ?", jti, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("refresh token %s: %w", jti, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get refresh token %s: %w", jti, err)
	}
	return &token, nil
}

// Delete removes a ledger record. Deleting an absent record is not an error
// so that logout stays idempotent.
func (r *GORMRefreshTokenRepository) Delete(jti string) error {
	if err := r.db.Delete(&models.RefreshToken{}, "jti = ?", jti).Error; err != nil {
		return fmt.Errorf("failed to delete refresh token %s: %w", jti, err)
	}
	return nil
}

// DeleteByUserID revokes every outstanding token for a user.
func (r *GORMRefreshTokenRepository) DeleteByUserID(userID string) error {
	if err := r.db.Delete(&models.RefreshToken{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete refresh tokens for user %s: %w", userID, err)
	}
	return nil
}

// DeleteExpired sweeps records whose expiry has passed and reports how many
// were evicted.
func (r *GORMRefreshTokenRepository) DeleteExpired() (int64, error) {
	res := r.db.Delete(&models.RefreshToken{}, "expires_at < ?", time.Now())
	if res.Error != nil {
		return 0, fmt.Errorf("failed to delete expired refresh tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
