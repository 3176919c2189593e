package models

import "time"

// RefreshToken is a ledger row recording one issued refresh token.
// JWTID holds the jti claim of the access token it was issued with;
// a refresh token is only consumable together with that exact token.
// Rows are never deleted, only marked used or invalidated.
type RefreshToken struct {
	Token       string
	JWTID       string
	UserID      string
	CreatedAt   time.Time
	ExpiresAt   time.Time
	Used        bool
	Invalidated bool
}
