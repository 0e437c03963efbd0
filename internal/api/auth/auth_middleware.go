package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/FACorreiaa/go-cms-auth/internal/api"
	"github.com/FACorreiaa/go-cms-auth/internal/types"
)

type contextKey string

const AuthContextKey contextKey = "authContext"

// WithAuthContext returns a copy of ctx carrying ac.
func WithAuthContext(ctx context.Context, ac *types.AuthContext) context.Context {
	return context.WithValue(ctx, AuthContextKey, ac)
}

// GetAuthContext returns the authenticated caller, if any.
func GetAuthContext(ctx context.Context) (*types.AuthContext, bool) {
	ac, ok := ctx.Value(AuthContextKey).(*types.AuthContext)
	return ac, ok && ac != nil
}

// Guard resolves bearer tokens into an authorization context. Both the
// required and the optional middleware go through Resolve.
type Guard struct {
	codec  *TokenCodec
	repo   AccountRepo
	logger *slog.Logger
}

func NewGuard(codec *TokenCodec, repo AccountRepo, logger *slog.Logger) *Guard {
	return &Guard{codec: codec, repo: repo, logger: logger}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Resolve validates the Authorization header value and loads the account.
func (g *Guard) Resolve(ctx context.Context, header string) (*types.AuthContext, error) {
	if header == "" {
		return nil, types.ErrMissingToken
	}
	token, ok := bearerToken(header)
	if !ok {
		return nil, fmt.Errorf("%w: malformed authorization header", types.ErrInvalidAuthToken)
	}

	claims, err := g.codec.Verify(TokenAccess, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidAuthToken, err)
	}

	acc, err := g.repo.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, types.ErrAccountUnavailable
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	if !acc.IsActive {
		return nil, types.ErrAccountUnavailable
	}
	if acc.IssuedBeforePasswordChange(claims.IssuedAt) {
		return nil, fmt.Errorf("%w: issued before password change", types.ErrInvalidAuthToken)
	}

	return &types.AuthContext{
		AccountID: acc.ID,
		Username:  acc.Username,
		Email:     acc.Email,
		Role:      acc.Role,
	}, nil
}

// Authenticate rejects requests without a valid access token.
func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, err := g.Resolve(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			api.HandleError(w, r, g.logger.With(slog.String("middleware", "Authenticate")), err)
			return
		}
		g.logger.DebugContext(r.Context(), "Authenticated", slog.Int64("accountID", ac.AccountID))
		next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), ac)))
	})
}

// OptionalAuthenticate attaches the caller when a valid token is present and
// otherwise lets the request through anonymously.
func (g *Guard) OptionalAuthenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}
		ac, err := g.Resolve(r.Context(), header)
		if err != nil {
			if !errors.Is(err, types.ErrUnauthenticated) {
				g.logger.WarnContext(r.Context(), "Optional authentication failed", slog.Any("error", err))
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAuthContext(r.Context(), ac)))
	})
}

// RequireRole allows the request only if the authenticated caller holds one
// of roles. Runs AFTER Authenticate.
func RequireRole(logger *slog.Logger, roles ...types.Role) func(next http.Handler) http.Handler {
	allowed := make(map[types.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ac, ok := GetAuthContext(ctx)
			if !ok {
				logger.ErrorContext(ctx, "RequireRole used without an auth context", slog.String("path", r.URL.Path))
				api.HandleError(w, r, logger, types.ErrUnauthenticated)
				return
			}
			if _, ok := allowed[ac.Role]; !ok {
				logger.WarnContext(ctx, "Role check failed",
					slog.String("username", ac.Username),
					slog.String("role", string(ac.Role)),
					slog.Any("required_roles", roles),
				)
				api.HandleError(w, r, logger, types.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
