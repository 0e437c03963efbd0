package appMiddleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/FACorreiaa/go-cms-auth/internal/api"
)

// RateLimitByIP allows requests per window for each client IP and answers
// 429 with the standard error body once the budget is spent.
// RealIP must run earlier in the chain for proxied deployments.
func RateLimitByIP(logger *slog.Logger, requests int, window time.Duration) func(next http.Handler) http.Handler {
	if requests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			logger.WarnContext(r.Context(), "Rate limit exceeded",
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr),
			)
			api.ErrorResponse(w, r, http.StatusTooManyRequests, "Too many requests, please try again later")
		}),
	)
}
