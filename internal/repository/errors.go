package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail is returned when trying to create an account with an existing email
	ErrDuplicateEmail = errors.New("account with this email already exists")

	// ErrDuplicateToken is returned when trying to create a token with an existing value
	ErrDuplicateToken = errors.New("token with this value already exists")

	// ErrTokenInactive is returned when a revoke or rotate targets a token
	// that exists but is already expired or revoked
	ErrTokenInactive = errors.New("token is expired or revoked")
)
