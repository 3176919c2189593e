// Package httpapi exposes the identity and post services over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mzakharov/chirpbook/internal/logging"
	"github.com/mzakharov/chirpbook/internal/server/identity"
	"github.com/mzakharov/chirpbook/internal/server/models"
	"github.com/mzakharov/chirpbook/internal/server/tokens"
)

// IdentityService is the subset of the identity orchestrator the HTTP
// layer depends on.
type IdentityService interface {
	Register(ctx context.Context, email string, password string) (*identity.Result, error)
	Login(ctx context.Context, email string, password string) (*identity.Result, error)
	LoginWithFacebook(ctx context.Context, accessToken string) (*identity.Result, error)
	Refresh(ctx context.Context, accessToken string, refreshToken string) (*identity.Result, error)
}

// PostService is the subset of the post service the HTTP layer depends on.
type PostService interface {
	List(ctx context.Context) ([]*models.Post, error)
	Get(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, userID string, name string) (*models.Post, error)
	Update(ctx context.Context, userID string, id string, name string) (*models.Post, error)
	Delete(ctx context.Context, userID string, id string) error
}

type Server struct {
	address  string
	identity IdentityService
	posts    PostService
	codec    *tokens.Codec
	logger   logging.Logger
}

func NewServer(address string, is IdentityService, ps PostService, codec *tokens.Codec, logger logging.Logger) (*Server, error) {
	return &Server{
		address:  address,
		identity: is,
		posts:    ps,
		codec:    codec,
		logger:   logger.With("module", "http_server"),
	}, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/identity/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/identity/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/identity/facebook", s.handleFacebookLogin)
	mux.HandleFunc("POST /api/v1/identity/refresh", s.handleRefresh)

	mux.HandleFunc("GET /api/v1/posts", s.withAuth(s.handleListPosts))
	mux.HandleFunc("POST /api/v1/posts", s.withAuth(s.handleCreatePost))
	mux.HandleFunc("GET /api/v1/posts/{id}", s.withAuth(s.handleGetPost))
	mux.HandleFunc("PUT /api/v1/posts/{id}", s.withAuth(s.handleUpdatePost))
	mux.HandleFunc("DELETE /api/v1/posts/{id}", s.withAuth(s.handleDeletePost))

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.withLogging(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
