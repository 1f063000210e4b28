package service

import "errors"

// Expected failure conditions of the auth and geo services. These are
// results, not faults: handlers map them to response statuses, anything
// else is treated as an internal error and answered opaquely.
var (
	// ErrValidation is returned for malformed input rejected before it
	// reaches the core
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateEmail is returned when registering an email that is
	// already taken
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrInvalidCredentials is returned for a bad email/password pair.
	// It never distinguishes an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountInactive is returned when the account's active flag is off
	ErrAccountInactive = errors.New("account is inactive")

	// ErrInvalidToken is returned when a presented rotation token is unknown
	ErrInvalidToken = errors.New("invalid refresh token")

	// ErrTokenInactive is returned when a presented rotation token exists
	// but is expired or revoked
	ErrTokenInactive = errors.New("refresh token is expired or revoked")
)
