// Package users implements the credential store: account lookup, password
// verification, and account creation with validation, on top of the users
// repository.
package users

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mzakharov/chirpbook/internal/server/models"
	usersrepo "github.com/mzakharov/chirpbook/internal/server/repositories/users"
)

const minPasswordLength = 8

// ValidationError carries the ordered, user-facing messages produced when
// account creation input is rejected.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Messages, "; "))
}

// Store provides credential-store operations over a users repository.
type Store struct {
	repo usersrepo.Repository
	now  func() time.Time
}

// NewStore constructs a Store over the given repository.
func NewStore(repo usersrepo.Repository) *Store {
	return &Store{repo: repo, now: time.Now}
}

// FindByEmail looks an account up by email. The lookup is case-insensitive.
func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, normalizeEmail(email))
}

// FindByID looks an account up by its identifier.
func (s *Store) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// VerifyPassword reports whether the candidate password matches the user's
// stored hash. Accounts without a password (external-provider accounts)
// never match.
func (s *Store) VerifyPassword(user *models.User, password string) bool {
	if user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// Create validates the input and persists a new account. The display name
// defaults to the email. An empty password is allowed for accounts created
// through an external identity provider; such accounts cannot
// password-login. Invalid input yields a *ValidationError with the messages
// in the order the checks ran.
func (s *Store) Create(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)

	var messages []string
	if _, err := mail.ParseAddress(email); err != nil {
		messages = append(messages, fmt.Sprintf("email '%s' is invalid", email))
	}
	if password != "" && len(password) < minPasswordLength {
		messages = append(messages, fmt.Sprintf("passwords must be at least %d characters", minPasswordLength))
	}
	if len(messages) > 0 {
		return nil, &ValidationError{Messages: messages}
	}

	var hash string
	if password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash = string(hashed)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		UserName:     email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	return s.repo.Create(ctx, user)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
