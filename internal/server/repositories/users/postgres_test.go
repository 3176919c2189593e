package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mzakharov/chirpbook/internal/common"
	"github.com/mzakharov/chirpbook/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func sampleUser() *models.User {
	return &models.User{
		ID:           "u-1",
		Email:        "alice@example.com",
		UserName:     "alice@example.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+users\s*\(id,\s*email,\s*user_name,\s*password_hash,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*$`

	u := sampleUser()
	mock.ExpectExec(q).
		WithArgs(u.ID, u.Email, u.UserName, u.PasswordHash, u.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != "u-1" {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUser()
	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WithArgs(u.ID, u.Email, u.UserName, u.PasswordHash, u.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	if _, err := repo.Create(context.Background(), u); !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	u := sampleUser()
	mock.ExpectExec(`INSERT\s+INTO\s+users`).
		WithArgs(u.ID, u.Email, u.UserName, u.PasswordHash, u.CreatedAt).
		WillReturnError(errors.New("db down"))

	if _, err := repo.Create(context.Background(), u); err == nil {
		t.Fatalf("expected wrapped db error, got nil")
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+id,\s*email,\s*user_name,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+lower\(email\)\s*=\s*lower\(\$1\)\s*$`

	u := sampleUser()
	rows := sqlmock.NewRows([]string{"id", "email", "user_name", "password_hash", "created_at"}).
		AddRow(u.ID, u.Email, u.UserName, u.PasswordHash, u.CreatedAt)
	mock.ExpectQuery(q).
		WithArgs("alice@example.com").
		WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != "u-1" || got.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*email`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+id,\s*email,\s*user_name,\s*password_hash,\s*created_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1\s*$`

	u := sampleUser()
	rows := sqlmock.NewRows([]string{"id", "email", "user_name", "password_hash", "created_at"}).
		AddRow(u.ID, u.Email, u.UserName, u.PasswordHash, u.CreatedAt)
	mock.ExpectQuery(q).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+id,\s*email`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
}
