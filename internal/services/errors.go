package services

import "errors"

// Sentinel errors surfaced by the auth subsystem. Handlers translate these
// to HTTP statuses; the messages never reveal which half of a credential
// check failed.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("refresh token revoked")
	ErrTokenExpired       = errors.New("refresh token expired")
	ErrEmailTaken         = errors.New("email already registered")
)
