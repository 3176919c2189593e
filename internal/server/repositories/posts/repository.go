// Package posts declares the persistence contract for posts.
package posts

import (
	"context"

	"github.com/mzakharov/chirpbook/internal/server/models"
)

// Repository defines CRUD operations for posts.
type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetAll(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
}
