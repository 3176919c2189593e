package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mzakharov/chirpbook/internal/common"
	"github.com/mzakharov/chirpbook/internal/dbx"
	"github.com/mzakharov/chirpbook/internal/server/models"
)

// PostgresRepository implements the refresh token ledger over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new refresh token row with used and invalidated false.
func (r *PostgresRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	query := `
		INSERT INTO refresh_tokens (token, jwt_id, user_id, created_at, expires_at, used, invalidated)
		VALUES ($1, $2, $3, $4, $5, FALSE, FALSE)
	`
	if _, err := r.db.ExecContext(ctx, query,
		token.Token, token.JWTID, token.UserID, token.CreatedAt, token.ExpiresAt); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

// Find returns the ledger row for the given token value.
func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	query := `
		SELECT token, jwt_id, user_id, created_at, expires_at, used, invalidated
		FROM refresh_tokens
		WHERE token = $1
	`
	row := &models.RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&row.Token, &row.JWTID, &row.UserID, &row.CreatedAt, &row.ExpiresAt, &row.Used, &row.Invalidated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return row, nil
}

// Consume marks a refresh token used with a single conditional update, so
// two concurrent calls for the same token value can never both succeed.
// When no row was affected, the token is re-read to report the reason.
func (r *PostgresRepository) Consume(ctx context.Context, token string, jwtID string) error {
	query := `
		UPDATE refresh_tokens
		SET used = TRUE
		WHERE token = $1
		  AND jwt_id = $2
		  AND used = FALSE
		  AND invalidated = FALSE
		  AND expires_at > now()
	`
	res, err := r.db.ExecContext(ctx, query, token, jwtID)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 1 {
		return nil
	}

	stored, err := r.Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrRefreshTokenNotFound
		}
		return err
	}
	switch {
	case time.Now().After(stored.ExpiresAt):
		return common.ErrRefreshTokenExpired
	case stored.Invalidated:
		return common.ErrRefreshTokenInvalidated
	case stored.Used:
		return common.ErrRefreshTokenUsed
	case stored.JWTID != jwtID:
		return common.ErrRefreshTokenMismatch
	}
	// The row became consumable between the update and the re-read;
	// treat the lost race as an already used token.
	return common.ErrRefreshTokenUsed
}
