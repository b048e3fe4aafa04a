package repositories

import "errors"

// Sentinel errors shared by all repository implementations. Callers match
// with errors.Is instead of comparing message strings.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrAlreadyClaimed    = errors.New("order already claimed")
)
