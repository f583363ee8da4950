package main

import "errors"

// Sentinel errors returned by the auth service and the credential store.
// Handlers map them to HTTP statuses; everything else is a 500.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrMissingAuthHeader = errors.New("authorization header with Bearer token required")
	ErrTokenInvalid      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token has expired")
	ErrStaleToken        = errors.New("token has been invalidated, please login again")
	ErrAccountInactive   = errors.New("user account not active")
)
