// Package common defines shared constants and sentinel errors used across
// the auth service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAccountExists = errors.New("an account with this email already exists")
	ErrorUnavailable   = errors.New("store unavailable")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Credential errors. Unknown email and wrong password are deliberately
	// indistinguishable, as are unknown email and wrong recovery code.
	ErrorInvalidCredentials  = errors.New("invalid email or password")
	ErrorInvalidRecoveryCode = errors.New("invalid otp or email")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
