package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/FACorreiaa/go-cms-auth/internal/types"
)

// StatusFor maps a domain error onto an HTTP status and a client-safe message.
func StatusFor(err error) (int, string) {
	var verr *types.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Msg
	case errors.Is(err, types.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, types.ErrInvalidToken):
		return http.StatusBadRequest, "Invalid or expired reset token"
	case errors.Is(err, types.ErrConflict):
		return http.StatusConflict, "Username or email already exists"
	case errors.Is(err, types.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, types.ErrMissingToken):
		return http.StatusUnauthorized, "No token provided"
	case errors.Is(err, types.ErrInvalidAuthToken):
		return http.StatusUnauthorized, "Invalid or expired token"
	case errors.Is(err, types.ErrAccountUnavailable):
		return http.StatusUnauthorized, "Account not found or inactive"
	case errors.Is(err, types.ErrUnauthenticated):
		return http.StatusUnauthorized, "Authentication required"
	case errors.Is(err, types.ErrForbidden):
		return http.StatusForbidden, "Insufficient permissions"
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// HandleError logs err and writes the mapped JSON error response. Internal
// errors are logged at error level with their full chain and never echoed.
func HandleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status, msg := StatusFor(err)
	l := logger.With(
		slog.String("req_id", middleware.GetReqID(r.Context())),
		slog.Int("status", status),
	)
	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "Request failed", slog.Any("error", err))
	} else {
		l.InfoContext(r.Context(), "Request rejected", slog.String("reason", err.Error()))
	}
	ErrorResponse(w, r, status, msg)
}
