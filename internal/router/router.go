package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appLogger "github.com/FACorreiaa/go-cms-auth/app/logger"
	appMiddleware "github.com/FACorreiaa/go-cms-auth/app/middleware"
	"github.com/FACorreiaa/go-cms-auth/config"
	_ "github.com/FACorreiaa/go-cms-auth/docs"
	"github.com/FACorreiaa/go-cms-auth/internal/api/auth"
	"github.com/FACorreiaa/go-cms-auth/internal/types"
)

const defaultRequestTimeout = 60 * time.Second

// Config contains dependencies needed for the router setup
type Config struct {
	AuthHandler auth.Handler
	Guard       *auth.Guard
	AppConfig   *config.Config
	Logger      *slog.Logger
}

// NewHandler wraps SetupRouter with the server-wide middleware stack.
func NewHandler(cfg *Config) http.Handler {
	timeout := cfg.AppConfig.Server.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Timeout(timeout))
	r.Use(middleware.Compress(5, "application/json"))
	r.Mount("/", SetupRouter(cfg))
	return r
}

// SetupRouter registers the API routes.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()
	h := cfg.AuthHandler
	guard := cfg.Guard
	logger := cfg.Logger

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AppConfig.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Each limited route gets its own per-IP budget.
	limit := func() func(http.Handler) http.Handler {
		return appMiddleware.RateLimitByIP(logger, cfg.AppConfig.RateLimit.Requests, cfg.AppConfig.RateLimit.Window)
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(limit(), guard.OptionalAuthenticate).Post("/register", h.Register)
		r.With(limit()).Post("/login", h.Login)
		r.With(limit()).Post("/forgot-password", h.ForgotPassword)
		r.Post("/refresh", h.RefreshSession)
		r.Post("/reset-password", h.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(guard.OptionalAuthenticate)
			r.Post("/logout", h.Logout)
			r.Get("/session", h.CurrentSession)
		})

		r.With(guard.Authenticate).Get("/me", h.Me)
	})

	r.Route("/admin/accounts", func(r chi.Router) {
		r.Use(guard.Authenticate)
		r.With(auth.RequireRole(logger, types.RoleAdministrator, types.RoleEditor)).Get("/{id}", h.GetAccount)
		r.With(auth.RequireRole(logger, types.RoleAdministrator)).Patch("/{id}/status", h.UpdateAccountStatus)
	})

	return r
}
