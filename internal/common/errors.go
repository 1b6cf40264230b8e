// Package common defines shared constants and sentinel errors used across
// taskdesk components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal        = errors.New("internal error")
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorForbidden       = errors.New("forbidden")
	ErrorValidation      = errors.New("validation error")
	ErrorExternalService = errors.New("external service error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// OTP-specific errors.
	ErrInvalidOtp = errors.New("invalid or expired otp")
)
