package models

import "time"

// RefreshToken is one row of the revocation ledger. A refresh token is valid
// only while its JTI is present here; deleting the row revokes the token no
// matter how long its signature stays cryptographically valid.
type RefreshToken struct {
	JTI       string    `json:"jti" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"index;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
