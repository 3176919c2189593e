// Package users declares the persistence contract for user accounts.
package users

import (
	"context"

	"github.com/mzakharov/chirpbook/internal/server/models"
)

// Repository defines operations for storing and retrieving user accounts.
type Repository interface {
	// Create persists a new user. It returns common.ErrorAlreadyExists
	// when the email is already taken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail looks an account up by email, case-insensitively.
	// Returns common.ErrorNotFound when no account matches.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByID looks an account up by its identifier.
	// Returns common.ErrorNotFound when no account matches.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
