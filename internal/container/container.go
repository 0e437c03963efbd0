package container

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	database "github.com/FACorreiaa/go-cms-auth/app/db"
	"github.com/FACorreiaa/go-cms-auth/config"
	"github.com/FACorreiaa/go-cms-auth/internal/api/auth"
	"github.com/FACorreiaa/go-cms-auth/internal/router"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *slog.Logger
	Pool        *pgxpool.Pool
	AuthService *auth.AuthServiceImpl
	AuthHandler *auth.HandlerImpl
	Guard       *auth.Guard
}

// NewContainer wires the auth core on top of an initialised pool.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool, logger *slog.Logger) *Container {
	c := New(cfg, auth.NewPostgresAccountRepo(pool, logger), logger)
	c.Pool = pool
	return c
}

// New wires the auth core on top of any AccountRepo.
func New(cfg *config.Config, repo auth.AccountRepo, logger *slog.Logger) *Container {
	codec := auth.NewTokenCodec(cfg.JWT)
	hasher := auth.NewBcryptHasher(cfg.Auth.PasswordCost)
	notifier := auth.NewLogNotifier(logger)

	authService := auth.NewAuthService(repo, codec, hasher, notifier, cfg, logger)

	return &Container{
		Config:      cfg,
		Logger:      logger,
		AuthService: authService,
		AuthHandler: auth.NewAuthHandlerImpl(authService, logger),
		Guard:       auth.NewGuard(codec, repo, logger),
	}
}

// Handler builds the HTTP handler for the API.
func (c *Container) Handler() http.Handler {
	return router.NewHandler(&router.Config{
		AuthHandler: c.AuthHandler,
		Guard:       c.Guard,
		AppConfig:   c.Config,
		Logger:      c.Logger,
	})
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// WaitForDB waits for the database to be ready
func (c *Container) WaitForDB(ctx context.Context) bool {
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}
