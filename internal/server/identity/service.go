// Package identity implements the authentication orchestrator: registration,
// password and Facebook login, and refresh token rotation, coordinating the
// credential store, the token codec, and the refresh token ledger.
package identity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mzakharov/chirpbook/internal/common"
	"github.com/mzakharov/chirpbook/internal/dbx"
	"github.com/mzakharov/chirpbook/internal/logging"
	"github.com/mzakharov/chirpbook/internal/server/config"
	"github.com/mzakharov/chirpbook/internal/server/facebook"
	"github.com/mzakharov/chirpbook/internal/server/models"
	"github.com/mzakharov/chirpbook/internal/server/repositories/repomanager"
	"github.com/mzakharov/chirpbook/internal/server/tokens"
	"github.com/mzakharov/chirpbook/internal/server/users"
)

// Verifier is the external identity provider contract the orchestrator
// consumes. Implemented by facebook.Client.
type Verifier interface {
	ValidateAccessToken(ctx context.Context, accessToken string) (bool, error)
	GetUserInfo(ctx context.Context, accessToken string) (*facebook.UserInfo, error)
}

// Service orchestrates the authentication flows. All methods are safe for
// concurrent use; the single-use guarantee for refresh tokens is enforced
// by the ledger's conditional update.
type Service struct {
	db         *sql.DB
	repos      repomanager.RepositoryManager
	codec      *tokens.Codec
	verifier   Verifier
	logger     logging.Logger
	refreshTTL time.Duration
	now        func() time.Time
	withTx     func(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx dbx.DBTX) error) error
}

// NewService constructs the orchestrator from its collaborators and config.
func NewService(db *sql.DB, repos repomanager.RepositoryManager, codec *tokens.Codec, verifier Verifier, logger logging.Logger, cfg *config.Config) *Service {
	return &Service{
		db:         db,
		repos:      repos,
		codec:      codec,
		verifier:   verifier,
		logger:     logger.With("module", "identity"),
		refreshTTL: cfg.RefreshTokenValidityDuration,
		now:        time.Now,
		withTx:     dbx.WithTx,
	}
}

// Register creates a new account and issues a token pair. Taking an email
// that is already registered, or failing the store's validation, yields a
// failed Result with the store's messages verbatim.
func (s *Service) Register(ctx context.Context, email, password string) (*Result, error) {
	store := users.NewStore(s.repos.Users(s.db))

	if _, err := store.FindByEmail(ctx, email); err == nil {
		return failure(msgEmailTaken), nil
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	user, err := store.Create(ctx, email, password)
	if err != nil {
		var verr *users.ValidationError
		if errors.As(err, &verr) {
			return failure(verr.Messages...), nil
		}
		// Lost a registration race for the same email.
		if errors.Is(err, common.ErrorAlreadyExists) {
			return failure(msgEmailTaken), nil
		}
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.issueTokens(ctx, s.db, user)
}

// Login verifies the email/password pair and issues a token pair.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	store := users.NewStore(s.repos.Users(s.db))

	user, err := store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return failure(msgUserNotFound), nil
		}
		return nil, err
	}

	if !store.VerifyPassword(user, password) {
		return failure(msgInvalidCredentials), nil
	}

	return s.issueTokens(ctx, s.db, user)
}

// LoginWithFacebook validates the provider token with the external
// verifier, creates a local account for the verified email on first login,
// and issues a token pair.
func (s *Service) LoginWithFacebook(ctx context.Context, accessToken string) (*Result, error) {
	valid, err := s.verifier.ValidateAccessToken(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if !valid {
		return failure(msgInvalidFacebookToken), nil
	}

	info, err := s.verifier.GetUserInfo(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	store := users.NewStore(s.repos.Users(s.db))

	user, err := store.FindByEmail(ctx, info.Email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		user, err = store.Create(ctx, info.Email, "")
		if err != nil {
			var verr *users.ValidationError
			if errors.As(err, &verr) {
				return failure(verr.Messages...), nil
			}
			return nil, err
		}
		s.logger.Info(ctx, "user created from facebook login", "user_id", user.ID)
	}

	return s.issueTokens(ctx, s.db, user)
}

// Refresh exchanges an expired access token plus its paired refresh token
// for a fresh pair. The access token must pass signature and algorithm
// checks AND must already be expired: refresh is only honored after expiry.
// Consuming the refresh token and issuing the new pair run in one
// transaction, so a failed issuance does not burn the refresh token.
func (s *Service) Refresh(ctx context.Context, accessToken, refreshToken string) (*Result, error) {
	claims, err := s.codec.Parse(accessToken)
	if err != nil {
		return failure(msgInvalidToken), nil
	}

	if !s.codec.Expired(claims) {
		return failure(msgTokenNotExpired), nil
	}

	var result *Result
	err = s.withTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.RefreshTokens(tx).Consume(ctx, refreshToken, claims.ID); err != nil {
			return err
		}

		user, err := users.NewStore(s.repos.Users(tx)).FindByID(ctx, claims.UserID)
		if err != nil {
			return err
		}

		result, err = s.issueTokens(ctx, tx, user)
		return err
	})
	if err != nil {
		if msg, ok := refreshFailureMessage(err); ok {
			return failure(msg), nil
		}
		return nil, err
	}
	return result, nil
}

// issueTokens is the shared issuance tail: sign an access token, record the
// paired refresh token in the ledger, and report success only once both are
// done.
func (s *Service) issueTokens(ctx context.Context, q dbx.DBTX, user *models.User) (*Result, error) {
	access, jti, err := s.codec.Issue(user)
	if err != nil {
		return nil, err
	}

	value, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	refresh := &models.RefreshToken{
		Token:     value,
		JWTID:     jti,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.refreshTTL),
	}
	if err := s.repos.RefreshTokens(q).Create(ctx, refresh); err != nil {
		return nil, err
	}

	return &Result{Success: true, AccessToken: access, RefreshToken: value}, nil
}

// refreshFailureMessage maps ledger consumption failures to their
// user-facing messages. Any other error is an infrastructure fault.
func refreshFailureMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, common.ErrRefreshTokenNotFound):
		return msgRefreshTokenNotFound, true
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return msgRefreshTokenExpired, true
	case errors.Is(err, common.ErrRefreshTokenInvalidated):
		return msgRefreshTokenInvalidated, true
	case errors.Is(err, common.ErrRefreshTokenUsed):
		return msgRefreshTokenUsed, true
	case errors.Is(err, common.ErrRefreshTokenMismatch):
		return msgRefreshTokenMismatch, true
	}
	return "", false
}
