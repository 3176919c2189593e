// Package common defines shared constants and sentinel errors used across
// chirpbook components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal  = errors.New("internal error")
	ErrorForbidden = errors.New("forbidden")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Refresh token ledger errors, one per consumption failure reason.
	ErrRefreshTokenNotFound    = errors.New("refresh token does not exist")
	ErrRefreshTokenExpired     = errors.New("refresh token expired")
	ErrRefreshTokenInvalidated = errors.New("refresh token invalidated")
	ErrRefreshTokenUsed        = errors.New("refresh token already used")
	ErrRefreshTokenMismatch    = errors.New("refresh token does not match token")
)
