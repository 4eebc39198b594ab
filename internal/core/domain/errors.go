package domain

import "errors"

// Sentinel errors for the identity core. Services return these (possibly
// wrapped with %w); the API error handler maps them to HTTP status codes.
var (
	ErrValidation         = errors.New("invalid input")
	ErrUserExists         = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrRoleNotFound       = errors.New("role not found")
	ErrGroupNotFound      = errors.New("group not found")
	ErrGroupDepth         = errors.New("group nesting too deep")
	ErrSelfAction         = errors.New("operation not allowed on own account")
)
