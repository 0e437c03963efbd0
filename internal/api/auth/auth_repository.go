package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-cms-auth/app/db"
	"github.com/FACorreiaa/go-cms-auth/app/observability/metrics"
	"github.com/FACorreiaa/go-cms-auth/internal/types"
)

var _ AccountRepo = (*PostgresAccountRepo)(nil)

// AccountRepo is the credential store consulted by the auth core.
type AccountRepo interface {
	// FindByUsernameOrEmail returns the account whose username equals
	// username or whose email equals email. A username match wins.
	// Returns types.ErrNotFound when neither matches.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*types.Account, error)
	GetByEmail(ctx context.Context, email string) (*types.Account, error)
	// GetByID loads non-sensitive fields only; PasswordHash is left empty.
	GetByID(ctx context.Context, id int64) (*types.Account, error)
	// Create returns types.ErrConflict if the username or email is taken.
	Create(ctx context.Context, params types.CreateAccountParams) (*types.Account, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) error
	SetActive(ctx context.Context, id int64, active bool) (*types.Account, error)
	RecordEvent(ctx context.Context, accountID int64, kind types.AuthEventKind) error
}

type PostgresAccountRepo struct {
	logger  *slog.Logger
	db      database.Querier
	metrics *metrics.AppMetrics
}

func NewPostgresAccountRepo(db database.Querier, logger *slog.Logger) *PostgresAccountRepo {
	return &PostgresAccountRepo{
		logger:  logger,
		db:      db,
		metrics: metrics.Get(),
	}
}

const (
	accountColumns = `id, username, email, password_hash, role, is_active, last_login_at, password_changed_at, created_at, updated_at`
	publicColumns  = `id, username, email, role, is_active, last_login_at, password_changed_at, created_at, updated_at`
)

// observe starts a span for one query and returns a finisher that records
// the outcome on the span and in the query metrics.
func (r *PostgresAccountRepo) observe(ctx context.Context, name, operation, table string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	attrs = append(attrs,
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", operation),
		attribute.String("db.sql.table", table),
	)
	ctx, span := otel.Tracer("AccountRepo").Start(ctx, name, trace.WithAttributes(attrs...))
	start := time.Now()

	return ctx, func(err error) {
		defer span.End()
		if err != nil && !errors.Is(err, types.ErrNotFound) && !errors.Is(err, types.ErrConflict) {
			r.metrics.RecordQuery(ctx, name, start, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, name+" failed")
			return
		}
		r.metrics.RecordQuery(ctx, name, start, nil)
		span.SetStatus(codes.Ok, name+" completed")
	}
}

func scanAccount(row pgx.Row) (*types.Account, error) {
	var a types.Account
	var role string
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &role, &a.IsActive,
		&a.LastLoginAt, &a.PasswordChangedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Role = types.Role(role)
	return &a, nil
}

func scanPublicAccount(row pgx.Row) (*types.Account, error) {
	var a types.Account
	var role string
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &role, &a.IsActive,
		&a.LastLoginAt, &a.PasswordChangedAt, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Role = types.Role(role)
	return &a, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, types.ErrNotFound)
	}
	return fmt.Errorf("database error fetching %s: %w", what, err)
}

// FindByUsernameOrEmail implements AccountRepo.
func (r *PostgresAccountRepo) FindByUsernameOrEmail(ctx context.Context, username, email string) (acc *types.Account, err error) {
	ctx, done := r.observe(ctx, "FindByUsernameOrEmail", "SELECT", "accounts")
	defer func() { done(err) }()

	query := `
        SELECT ` + accountColumns + `
        FROM accounts
        WHERE username = $1 OR email = $2
        ORDER BY (username = $1) DESC
        LIMIT 1`

	acc, err = scanAccount(r.db.QueryRow(ctx, query, username, email))
	if err != nil {
		return nil, notFound(err, "account")
	}
	return acc, nil
}

// GetByEmail implements AccountRepo.
func (r *PostgresAccountRepo) GetByEmail(ctx context.Context, email string) (acc *types.Account, err error) {
	ctx, done := r.observe(ctx, "GetByEmail", "SELECT", "accounts")
	defer func() { done(err) }()

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	acc, err = scanAccount(r.db.QueryRow(ctx, query, email))
	if err != nil {
		return nil, notFound(err, "account")
	}
	return acc, nil
}

// GetByID implements AccountRepo.
func (r *PostgresAccountRepo) GetByID(ctx context.Context, id int64) (acc *types.Account, err error) {
	ctx, done := r.observe(ctx, "GetByID", "SELECT", "accounts", attribute.Int64("db.account.id", id))
	defer func() { done(err) }()

	query := `SELECT ` + publicColumns + ` FROM accounts WHERE id = $1`
	acc, err = scanPublicAccount(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "account")
	}
	return acc, nil
}

// Create implements AccountRepo.
func (r *PostgresAccountRepo) Create(ctx context.Context, params types.CreateAccountParams) (acc *types.Account, err error) {
	ctx, done := r.observe(ctx, "Create", "INSERT", "accounts")
	defer func() { done(err) }()

	l := r.logger.With(slog.String("method", "Create"), slog.String("username", params.Username))

	query := `
        INSERT INTO accounts (username, email, password_hash, role)
        VALUES ($1, $2, $3, $4)
        RETURNING id, is_active, created_at, updated_at`

	acc = &types.Account{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
	}
	err = r.db.QueryRow(ctx, query, params.Username, params.Email, params.PasswordHash, string(params.Role)).
		Scan(&acc.ID, &acc.IsActive, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		if constraint, ok := database.IsUniqueViolation(err); ok {
			l.WarnContext(ctx, "Account already exists", slog.String("constraint", constraint))
			return nil, fmt.Errorf("account already exists (%s): %w", constraint, types.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert account", slog.Any("error", err))
		return nil, fmt.Errorf("database error creating account: %w", err)
	}

	l.InfoContext(ctx, "Account created", slog.Int64("accountID", acc.ID))
	return acc, nil
}

// UpdateLastLogin implements AccountRepo.
func (r *PostgresAccountRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) (err error) {
	ctx, done := r.observe(ctx, "UpdateLastLogin", "UPDATE", "accounts", attribute.Int64("db.account.id", id))
	defer func() { done(err) }()

	query := `
        UPDATE accounts
        SET last_login_at = $1, updated_at = $1
        WHERE id = $2`

	tag, err := r.db.Exec(ctx, query, at, id)
	if err != nil {
		return fmt.Errorf("database error updating last login: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", id, types.ErrNotFound)
	}
	return nil
}

// UpdatePassword implements AccountRepo.
func (r *PostgresAccountRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) (err error) {
	ctx, done := r.observe(ctx, "UpdatePassword", "UPDATE", "accounts", attribute.Int64("db.account.id", id))
	defer func() { done(err) }()

	query := `
        UPDATE accounts
        SET password_hash = $1, password_changed_at = $2, updated_at = $2
        WHERE id = $3`

	tag, err := r.db.Exec(ctx, query, passwordHash, changedAt, id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update password", slog.Int64("accountID", id), slog.Any("error", err))
		return fmt.Errorf("database error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %d: %w", id, types.ErrNotFound)
	}
	return nil
}

// SetActive implements AccountRepo.
func (r *PostgresAccountRepo) SetActive(ctx context.Context, id int64, active bool) (acc *types.Account, err error) {
	ctx, done := r.observe(ctx, "SetActive", "UPDATE", "accounts", attribute.Int64("db.account.id", id))
	defer func() { done(err) }()

	query := `
        UPDATE accounts
        SET is_active = $1, updated_at = NOW()
        WHERE id = $2
        RETURNING ` + publicColumns

	acc, err = scanPublicAccount(r.db.QueryRow(ctx, query, active, id))
	if err != nil {
		return nil, notFound(err, "account")
	}

	r.logger.InfoContext(ctx, "Account status changed", slog.Int64("accountID", id), slog.Bool("active", active))
	return acc, nil
}

// RecordEvent implements AccountRepo.
func (r *PostgresAccountRepo) RecordEvent(ctx context.Context, accountID int64, kind types.AuthEventKind) (err error) {
	ctx, done := r.observe(ctx, "RecordEvent", "INSERT", "auth_events", attribute.String("auth.event", string(kind)))
	defer func() { done(err) }()

	query := `INSERT INTO auth_events (id, account_id, kind) VALUES ($1, $2, $3)`
	if _, err = r.db.Exec(ctx, query, uuid.New(), accountID, string(kind)); err != nil {
		return fmt.Errorf("database error recording %s event: %w", kind, err)
	}
	return nil
}
