// Package refreshtokens declares the persistence contract for the refresh
// token ledger: the durable record of issued refresh tokens and their
// consumption state.
package refreshtokens

import (
	"context"

	"github.com/mzakharov/chirpbook/internal/server/models"
)

// Repository defines operations for issuing and consuming refresh tokens.
// Rows are never deleted; a consumed token stays in the ledger with
// used = true for audit and replay detection.
type Repository interface {
	// Create stores a new refresh token row.
	Create(ctx context.Context, token *models.RefreshToken) error

	// Find looks a refresh token up by its opaque token value.
	// Returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Consume marks the token used, but only if it is unexpired, not
	// invalidated, not yet used, and bound to the given access-token jti.
	// On failure it returns one of the common.ErrRefreshToken* sentinels,
	// checked in that order. At most one concurrent caller can succeed
	// for a given token value.
	Consume(ctx context.Context, token string, jwtID string) error
}
