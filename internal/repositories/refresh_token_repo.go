package repositories

import "shopmart/internal/models"

// RefreshTokenRepository is the revocation ledger for refresh tokens. A
// token is valid only while its JTI row exists; deletion is revocation.
type RefreshTokenRepository interface {
	Create(token *models.RefreshToken) error
	Get(jti, userID string) (*models.RefreshToken, error)
	Delete(jti string) error
	DeleteByUserID(userID string) error
	DeleteExpired() (int64, error)
}
