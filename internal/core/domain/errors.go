package domain

import "errors"

// Authentication and identity.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserNotFound       = errors.New("user not found")
	ErrServiceUnavailable = errors.New("authentication service unreachable")
)

// Remote token issuer outcomes, produced by the issuer client and
// translated by the session bridge.
var (
	ErrIssuerUnreachable = errors.New("token issuer unreachable")
	ErrIssuerRejected    = errors.New("token issuer rejected credentials")
)

// Authorization.
var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access forbidden")
)

// Records.
var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrTaskNotFound        = errors.New("task not found")
	ErrConcurrencyConflict = errors.New("record was modified by another request")
	ErrValidation          = errors.New("validation failed")
	ErrInternal            = errors.New("internal error")
)
