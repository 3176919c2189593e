package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mzakharov/chirpbook/internal/common"
	"github.com/mzakharov/chirpbook/internal/dbx"
	"github.com/mzakharov/chirpbook/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new post row.
func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	query := `
		INSERT INTO posts (id, user_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query,
		post.ID, post.UserID, post.Name, post.CreatedAt); err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	return post, nil
}

// GetByID returns the post with the given identifier.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM posts
		WHERE id = $1
	`
	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&post.ID, &post.UserID, &post.Name, &post.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return post, nil
}

// GetAll returns every post, newest first.
func (r *PostgresRepository) GetAll(ctx context.Context) ([]*models.Post, error) {
	query := `
		SELECT id, user_id, name, created_at
		FROM posts
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var result []*models.Post
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(&post.ID, &post.UserID, &post.Name, &post.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

// Update rewrites the post's name. Returns common.ErrorNotFound when the
// post does not exist.
func (r *PostgresRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts
		SET name = $2
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, post.ID, post.Name)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// Delete removes the post with the given identifier.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `
		DELETE FROM posts
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}
	return nil
}
