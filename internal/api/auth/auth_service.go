package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-cms-auth/app/observability/metrics"
	"github.com/FACorreiaa/go-cms-auth/config"
	"github.com/FACorreiaa/go-cms-auth/internal/types"
)

// ForgotPasswordMessage is returned for every forgot-password request.
const ForgotPasswordMessage = "If an account with that email exists, a password reset link has been sent."

var _ AuthService = (*AuthServiceImpl)(nil)

// Session is the outcome of a successful register or login.
type Session struct {
	Account      *types.Account
	AccessToken  string
	RefreshToken string
}

// TokenPair is the outcome of a refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type ForgotPasswordResult struct {
	Message string
	// ResetToken is only populated outside production.
	ResetToken string
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
	Role     string
}

// AuthService defines the session lifecycle of CMS accounts.
type AuthService interface {
	Register(ctx context.Context, params RegisterParams) (*Session, error)
	Login(ctx context.Context, identifier, password string) (*Session, error)
	RefreshSession(ctx context.Context, refreshToken string) (*TokenPair, error)
	// Logout is stateless; issued tokens stay valid until they expire.
	Logout(ctx context.Context, accountID int64) error
	ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error)
	ResetPassword(ctx context.Context, token, newPassword string) error

	GetAccount(ctx context.Context, id int64) (*types.Account, error)
	SetAccountActive(ctx context.Context, id int64, active bool) (*types.Account, error)
}

type AuthServiceImpl struct {
	logger   *slog.Logger
	repo     AccountRepo
	codec    *TokenCodec
	hasher   PasswordHasher
	notifier ResetNotifier
	metrics  *metrics.AppMetrics

	exposeResetToken bool
	resetCooldown    *cache.Cache
	now              func() time.Time
}

func NewAuthService(repo AccountRepo, codec *TokenCodec, hasher PasswordHasher, notifier ResetNotifier, cfg *config.Config, logger *slog.Logger) *AuthServiceImpl {
	s := &AuthServiceImpl{
		logger:           logger,
		repo:             repo,
		codec:            codec,
		hasher:           hasher,
		notifier:         notifier,
		metrics:          metrics.Get(),
		exposeResetToken: !cfg.IsProduction(),
		now:              time.Now,
	}
	if cooldown := cfg.Auth.ResetCooldown; cooldown > 0 {
		s.resetCooldown = cache.New(cooldown, 2*cooldown)
	}
	return s
}

func (s *AuthServiceImpl) tracer() trace.Tracer {
	return otel.Tracer("AuthService")
}

func (s *AuthServiceImpl) issuePair(accountID int64) (*TokenPair, error) {
	access, err := s.codec.Issue(TokenAccess, accountID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.Issue(TokenRefresh, accountID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// recordEvent persists an audit row. Failures are logged and swallowed.
func (s *AuthServiceImpl) recordEvent(ctx context.Context, l *slog.Logger, accountID int64, kind types.AuthEventKind) {
	if err := s.repo.RecordEvent(ctx, accountID, kind); err != nil {
		l.WarnContext(ctx, "Failed to record auth event", slog.String("event", string(kind)), slog.Any("error", err))
	}
}

func fail(span trace.Span, err error, msg string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
}

// Register implements AuthService.
func (s *AuthServiceImpl) Register(ctx context.Context, params RegisterParams) (_ *Session, err error) {
	ctx, span := s.tracer().Start(ctx, "Register", trace.WithAttributes(
		attribute.String("account.username", params.Username),
	))
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordAuth(ctx, "register", start, err) }()

	l := s.logger.With(slog.String("method", "Register"), slog.String("username", params.Username))
	l.DebugContext(ctx, "Registering account")

	role, err := types.ParseRole(params.Role)
	if err != nil {
		fail(span, err, "Invalid role")
		return nil, err
	}
	email := strings.ToLower(params.Email)

	existing, err := s.repo.FindByUsernameOrEmail(ctx, params.Username, email)
	switch {
	case err == nil:
		l.WarnContext(ctx, "Registration rejected, account exists", slog.Int64("existingID", existing.ID))
		err = fmt.Errorf("username or email already registered: %w", types.ErrConflict)
		fail(span, err, "Account exists")
		return nil, err
	case !errors.Is(err, types.ErrNotFound):
		fail(span, err, "Lookup failed")
		return nil, fmt.Errorf("error checking existing account: %w", err)
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		fail(span, err, "Hash failed")
		return nil, err
	}

	acc, err := s.repo.Create(ctx, types.CreateAccountParams{
		Username:     params.Username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		fail(span, err, "Create failed")
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	pair, err := s.issuePair(acc.ID)
	if err != nil {
		fail(span, err, "Token issue failed")
		return nil, err
	}
	s.recordEvent(ctx, l, acc.ID, types.AuthEventRegister)

	l.InfoContext(ctx, "Account registered", slog.Int64("accountID", acc.ID), slog.String("role", string(acc.Role)))
	span.SetStatus(codes.Ok, "Account registered")
	return &Session{Account: acc, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// Login implements AuthService. Unknown identifiers, wrong passwords and
// inactive accounts all yield types.ErrInvalidCredentials.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (_ *Session, err error) {
	ctx, span := s.tracer().Start(ctx, "Login")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordAuth(ctx, "login", start, err) }()

	l := s.logger.With(slog.String("method", "Login"))

	acc, err := s.repo.FindByUsernameOrEmail(ctx, identifier, strings.ToLower(identifier))
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			s.hasher.Burn(password)
			l.InfoContext(ctx, "Login failed", slog.String("reason", "unknown identifier"))
			fail(span, types.ErrInvalidCredentials, "Unknown identifier")
			return nil, types.ErrInvalidCredentials
		}
		fail(span, err, "Lookup failed")
		return nil, fmt.Errorf("error loading account: %w", err)
	}

	l = l.With(slog.Int64("accountID", acc.ID))
	if !s.hasher.Verify(password, acc.PasswordHash) {
		l.InfoContext(ctx, "Login failed", slog.String("reason", "password mismatch"))
		fail(span, types.ErrInvalidCredentials, "Password mismatch")
		return nil, types.ErrInvalidCredentials
	}
	if !acc.IsActive {
		l.InfoContext(ctx, "Login failed", slog.String("reason", "account inactive"))
		fail(span, types.ErrInvalidCredentials, "Account inactive")
		return nil, types.ErrInvalidCredentials
	}

	now := s.now()
	if err = s.repo.UpdateLastLogin(ctx, acc.ID, now); err != nil {
		fail(span, err, "Last login update failed")
		return nil, fmt.Errorf("error updating last login: %w", err)
	}
	acc.LastLoginAt = &now

	pair, err := s.issuePair(acc.ID)
	if err != nil {
		fail(span, err, "Token issue failed")
		return nil, err
	}
	s.recordEvent(ctx, l, acc.ID, types.AuthEventLogin)

	l.InfoContext(ctx, "Login successful")
	span.SetStatus(codes.Ok, "Login successful")
	return &Session{Account: acc, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// RefreshSession implements AuthService. The presented token is not
// revoked; it stays usable until its own expiry.
func (s *AuthServiceImpl) RefreshSession(ctx context.Context, refreshToken string) (_ *TokenPair, err error) {
	ctx, span := s.tracer().Start(ctx, "RefreshSession")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordAuth(ctx, "refresh", start, err) }()

	l := s.logger.With(slog.String("method", "RefreshSession"))

	if refreshToken == "" {
		fail(span, types.ErrMissingToken, "Missing token")
		return nil, types.ErrMissingToken
	}

	claims, err := s.codec.Verify(TokenRefresh, refreshToken)
	if err != nil {
		l.InfoContext(ctx, "Refresh token rejected", slog.Any("error", err))
		fail(span, err, "Token rejected")
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidAuthToken, err)
	}

	acc, err := s.repo.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			fail(span, err, "Account missing")
			return nil, types.ErrAccountUnavailable
		}
		fail(span, err, "Lookup failed")
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	if !acc.IsActive {
		fail(span, types.ErrAccountUnavailable, "Account inactive")
		return nil, types.ErrAccountUnavailable
	}
	if acc.IssuedBeforePasswordChange(claims.IssuedAt) {
		l.InfoContext(ctx, "Refresh token predates password change", slog.Int64("accountID", acc.ID))
		fail(span, types.ErrInvalidAuthToken, "Token revoked")
		return nil, types.ErrInvalidAuthToken
	}

	pair, err := s.issuePair(acc.ID)
	if err != nil {
		fail(span, err, "Token issue failed")
		return nil, err
	}

	l.DebugContext(ctx, "Session refreshed", slog.Int64("accountID", acc.ID))
	span.SetStatus(codes.Ok, "Session refreshed")
	return pair, nil
}

// Logout implements AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, accountID int64) error {
	s.logger.InfoContext(ctx, "Logout", slog.Int64("accountID", accountID))
	s.metrics.RecordAuth(ctx, "logout", time.Now(), nil)
	return nil
}

// ForgotPassword implements AuthService. The result is the same whether or
// not the email belongs to an account.
func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) (_ *ForgotPasswordResult, err error) {
	ctx, span := s.tracer().Start(ctx, "ForgotPassword")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordAuth(ctx, "forgot_password", start, err) }()

	l := s.logger.With(slog.String("method", "ForgotPassword"))
	result := &ForgotPasswordResult{Message: ForgotPasswordMessage}
	email = strings.ToLower(strings.TrimSpace(email))

	if s.resetCooldown != nil {
		if _, found := s.resetCooldown.Get(email); found {
			l.DebugContext(ctx, "Reset request within cooldown, skipping")
			span.SetStatus(codes.Ok, "Cooldown")
			return result, nil
		}
		s.resetCooldown.SetDefault(email, struct{}{})
	}

	acc, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			l.DebugContext(ctx, "Reset requested for unknown email")
			span.SetStatus(codes.Ok, "Generic response")
			return result, nil
		}
		// Failed lookups must not consume the cooldown window.
		if s.resetCooldown != nil {
			s.resetCooldown.Delete(email)
		}
		fail(span, err, "Lookup failed")
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	if !acc.IsActive {
		l.InfoContext(ctx, "Reset requested for inactive account", slog.Int64("accountID", acc.ID))
		span.SetStatus(codes.Ok, "Generic response")
		return result, nil
	}

	token, err := s.codec.Issue(TokenReset, acc.ID)
	if err != nil {
		fail(span, err, "Token issue failed")
		return nil, err
	}
	expiresAt := s.now().Add(s.codec.TTL(TokenReset))
	if nerr := s.notifier.SendPasswordReset(ctx, acc, token, expiresAt); nerr != nil {
		l.ErrorContext(ctx, "Failed to dispatch reset token", slog.Int64("accountID", acc.ID), slog.Any("error", nerr))
	}

	if s.exposeResetToken {
		result.ResetToken = token
	}
	span.SetStatus(codes.Ok, "Reset token issued")
	return result, nil
}

// ResetPassword implements AuthService. Changing the password revokes every
// token issued before it, including the reset token itself.
func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) (err error) {
	ctx, span := s.tracer().Start(ctx, "ResetPassword")
	defer span.End()
	start := time.Now()
	defer func() { s.metrics.RecordAuth(ctx, "reset_password", start, err) }()

	l := s.logger.With(slog.String("method", "ResetPassword"))

	claims, err := s.codec.Verify(TokenReset, token)
	if err != nil {
		l.InfoContext(ctx, "Reset token rejected", slog.Any("error", err))
		fail(span, err, "Token rejected")
		return fmt.Errorf("%w: %v", types.ErrInvalidToken, err)
	}

	acc, err := s.repo.GetByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			fail(span, err, "Account missing")
			return types.ErrInvalidToken
		}
		fail(span, err, "Lookup failed")
		return fmt.Errorf("error loading account: %w", err)
	}
	if acc.IssuedBeforePasswordChange(claims.IssuedAt) {
		fail(span, types.ErrInvalidToken, "Token already used")
		return types.ErrInvalidToken
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		fail(span, err, "Hash failed")
		return err
	}
	if err = s.repo.UpdatePassword(ctx, acc.ID, hash, s.now()); err != nil {
		fail(span, err, "Update failed")
		return fmt.Errorf("error updating password: %w", err)
	}
	s.recordEvent(ctx, l, acc.ID, types.AuthEventPasswordReset)

	l.InfoContext(ctx, "Password reset", slog.Int64("accountID", acc.ID))
	span.SetStatus(codes.Ok, "Password reset")
	return nil
}

// GetAccount implements AuthService.
func (s *AuthServiceImpl) GetAccount(ctx context.Context, id int64) (*types.Account, error) {
	acc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching account: %w", err)
	}
	return acc, nil
}

// SetAccountActive implements AuthService.
func (s *AuthServiceImpl) SetAccountActive(ctx context.Context, id int64, active bool) (*types.Account, error) {
	acc, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, fmt.Errorf("error updating account status: %w", err)
	}
	s.logger.InfoContext(ctx, "Account status updated", slog.Int64("accountID", id), slog.Bool("active", active))
	return acc, nil
}
