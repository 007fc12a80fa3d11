package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/userdir-io/userdir/internal/config"
	"github.com/userdir-io/userdir/internal/platform/postgres"
	"github.com/userdir-io/userdir/internal/platform/redis"
	"github.com/userdir-io/userdir/internal/service"
	"github.com/userdir-io/userdir/internal/service/auth"
	"github.com/userdir-io/userdir/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *redislib.Client

	userStore      store.UserStore
	tokenBlacklist store.TokenBlacklist

	tokenService     auth.TokenService
	passwordHasher   auth.PasswordHasher
	passwordVerifier auth.PasswordVerifier
	userService      service.UserService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.redis = redislib.NewClient(&redislib.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := app.redis.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("Redis connection established", "addr", cfg.Redis.Addr)

	app.userStore = postgres.NewPostgresUserStore(db)
	app.tokenBlacklist = redis.NewTokenBlacklist(app.redis)

	tokenLifetime := time.Duration(cfg.Auth.TokenLifetimeMinutes) * time.Minute
	tokenService, err := auth.NewTokenService(cfg.Auth.JWTSecret, tokenLifetime, app.tokenBlacklist)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	app.tokenService = tokenService
	logger.Info("Token authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.passwordHasher = hasher
	app.passwordVerifier = hasher

	app.userService = service.NewUserService(app.userStore, app.passwordHasher, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Error closing redis connection", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
