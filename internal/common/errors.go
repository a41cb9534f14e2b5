// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal  = errors.New("internal error")
	ErrValidation  = errors.New("validation error")
	ErrEmailTaken  = errors.New("email already registered")
	ErrRateLimited = errors.New("too many attempts")

	// Auth errors. ErrInvalidCredentials is deliberately the only error
	// returned for both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)
