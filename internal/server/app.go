// Package server initializes and runs the main application server.
// It opens the database, runs migrations, wires the identity and post
// services and starts the HTTP server with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"

	"github.com/mzakharov/chirpbook/internal/logging"
	"github.com/mzakharov/chirpbook/internal/server/config"
	"github.com/mzakharov/chirpbook/internal/server/facebook"
	"github.com/mzakharov/chirpbook/internal/server/httpapi"
	"github.com/mzakharov/chirpbook/internal/server/identity"
	"github.com/mzakharov/chirpbook/internal/server/posts"
	"github.com/mzakharov/chirpbook/internal/server/repositories/repomanager"
	"github.com/mzakharov/chirpbook/internal/server/tokens"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	codec           *tokens.Codec
	identityService *identity.Service
	postService     *posts.Service
}

func NewApp(cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := waitForDB(context.Background(), db); err != nil {
		return nil, fmt.Errorf("db unreachable: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	codec := tokens.NewCodec([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration)
	fb := facebook.NewClient(cfg.FacebookGraphURL, cfg.FacebookAppID, cfg.FacebookAppSecret)

	is := identity.NewService(db, repos, codec, fb, logger, cfg)
	ps := posts.NewService(db, repos, logger)

	return &App{
		config:          cfg,
		logger:          logger,
		db:              db,
		codec:           codec,
		identityService: is,
		postService:     ps,
	}, nil
}

// waitForDB pings the database with exponential backoff, giving it time
// to come up when the server starts alongside it.
func waitForDB(ctx context.Context, db *sql.DB) error {
	backoff := retry.WithMaxRetries(5, retry.NewExponential(time.Second))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewServer(app.config.EndpointAddrHTTP, app.identityService, app.postService, app.codec, app.logger)
	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
