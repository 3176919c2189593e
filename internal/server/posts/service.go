// Package posts implements the post CRUD service with ownership checks.
package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mzakharov/chirpbook/internal/common"
	"github.com/mzakharov/chirpbook/internal/logging"
	"github.com/mzakharov/chirpbook/internal/server/models"
	"github.com/mzakharov/chirpbook/internal/server/repositories/repomanager"
)

type Service struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	logger logging.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repos repomanager.RepositoryManager, logger logging.Logger) *Service {
	return &Service{
		db:     db,
		repos:  repos,
		logger: logger.With("module", "posts"),
		now:    time.Now,
	}
}

// List returns all posts regardless of owner.
func (s *Service) List(ctx context.Context) ([]*models.Post, error) {
	posts, err := s.repos.Posts(s.db).GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return posts, nil
}

// Get returns one post by id. Reading does not require ownership.
func (s *Service) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repos.Posts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading post: %w", err)
	}
	return post, nil
}

func (s *Service) Create(ctx context.Context, userID string, name string) (*models.Post, error) {
	post := &models.Post{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		CreatedAt: s.now(),
	}

	created, err := s.repos.Posts(s.db).Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	return created, nil
}

// Update renames a post. Only the owner may modify it; anyone else
// gets common.ErrorForbidden.
func (s *Service) Update(ctx context.Context, userID string, id string, name string) (*models.Post, error) {
	post, err := s.userOwnsPost(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	post.Name = name
	if err := s.repos.Posts(s.db).Update(ctx, post); err != nil {
		return nil, fmt.Errorf("error updating post: %w", err)
	}
	return post, nil
}

// Delete removes a post. Only the owner may delete it.
func (s *Service) Delete(ctx context.Context, userID string, id string) error {
	if _, err := s.userOwnsPost(ctx, userID, id); err != nil {
		return err
	}

	if err := s.repos.Posts(s.db).Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}
	return nil
}

func (s *Service) userOwnsPost(ctx context.Context, userID string, id string) (*models.Post, error) {
	post, err := s.repos.Posts(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error loading post: %w", err)
	}
	if post.UserID != userID {
		return nil, common.ErrorForbidden
	}
	return post, nil
}
