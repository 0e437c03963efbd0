package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-cms-auth/internal/types"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PostgresAccountRepo) {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool, NewPostgresAccountRepo(pool, discardLogger())
}

var accountCols = []string{"id", "username", "email", "password_hash", "role", "is_active", "last_login_at", "password_changed_at", "created_at", "updated_at"}
var publicCols = []string{"id", "username", "email", "role", "is_active", "last_login_at", "password_changed_at", "created_at", "updated_at"}

func TestPostgresAccountRepo_FindByUsernameOrEmail(t *testing.T) {
	pool, repo := newMockRepo(t)
	created := fixedNow.Add(-24 * time.Hour)

	pool.ExpectQuery("SELECT (.+) FROM accounts WHERE username = \\$1 OR email = \\$2").
		WithArgs("alice", "alice@example.com").
		WillReturnRows(pgxmock.NewRows(accountCols).
			AddRow(int64(42), "alice", "alice@example.com", "$2a$04$digest", "editor", true, nil, nil, created, created))

	acc, err := repo.FindByUsernameOrEmail(context.Background(), "alice", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(42), acc.ID)
	assert.Equal(t, types.RoleEditor, acc.Role)
	assert.Equal(t, "$2a$04$digest", acc.PasswordHash)
	assert.Nil(t, acc.LastLoginAt)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresAccountRepo_FindByUsernameOrEmail_NotFound(t *testing.T) {
	pool, repo := newMockRepo(t)

	pool.ExpectQuery("SELECT (.+) FROM accounts").
		WithArgs("ghost", "ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindByUsernameOrEmail(context.Background(), "ghost", "ghost")
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresAccountRepo_GetByID_OmitsPasswordHash(t *testing.T) {
	pool, repo := newMockRepo(t)
	changed := fixedNow

	pool.ExpectQuery("SELECT id, username, email, role, is_active, last_login_at, password_changed_at, created_at, updated_at FROM accounts WHERE id = \\$1").
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows(publicCols).
			AddRow(int64(42), "alice", "alice@example.com", "administrator", false, nil, &changed, fixedNow, fixedNow))

	acc, err := repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Empty(t, acc.PasswordHash)
	assert.False(t, acc.IsActive)
	assert.Equal(t, types.RoleAdministrator, acc.Role)
	require.NotNil(t, acc.PasswordChangedAt)
	assert.True(t, acc.PasswordChangedAt.Equal(fixedNow))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresAccountRepo_Create(t *testing.T) {
	pool, repo := newMockRepo(t)

	pool.ExpectQuery("INSERT INTO accounts").
		WithArgs("alice", "alice@example.com", "digest", "subscriber").
		WillReturnRows(pgxmock.NewRows([]string{"id", "is_active", "created_at", "updated_at"}).
			AddRow(int64(7), true, fixedNow, fixedNow))

	acc, err := repo.Create(context.Background(), types.CreateAccountParams{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "digest",
		Role:         types.RoleSubscriber,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), acc.ID)
	assert.True(t, acc.IsActive)
	assert.Equal(t, types.RoleSubscriber, acc.Role)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresAccountRepo_Create_UniqueViolation(t *testing.T) {
	pool, repo := newMockRepo(t)

	pool.ExpectQuery("INSERT INTO accounts").
		WithArgs("alice", "alice@example.com", "digest", "subscriber").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"})

	_, err := repo.Create(context.Background(), types.CreateAccountParams{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "digest",
		Role:         types.RoleSubscriber,
	})
	assert.ErrorIs(t, err, types.ErrConflict)
	assert.Contains(t, err.Error(), "accounts_email_key")
}

func TestPostgresAccountRepo_UpdateLastLogin(t *testing.T) {
	pool, repo := newMockRepo(t)

	pool.ExpectExec("UPDATE accounts SET last_login_at").
		WithArgs(pgxmock.AnyArg(), int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	pool.ExpectExec("UPDATE accounts SET last_login_at").
		WithArgs(pgxmock.AnyArg(), int64(99)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.UpdateLastLogin(context.Background(), 42, fixedNow))
	assert.ErrorIs(t, repo.UpdateLastLogin(context.Background(), 99, fixedNow), types.ErrNotFound)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresAccountRepo_UpdatePassword(t *testing.T) {
	pool, repo := newMockRepo(t)

	pool.ExpectExec("UPDATE accounts SET password_hash = \\$1, password_changed_at = \\$2").
		WithArgs("new-digest", pgxmock.AnyArg(), int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), 42, "new-digest", fixedNow))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresAccountRepo_SetActive(t *testing.T) {
	pool, repo := newMockRepo(t)

	pool.ExpectQuery("UPDATE accounts SET is_active = \\$1").
		WithArgs(false, int64(42)).
		WillReturnRows(pgxmock.NewRows(publicCols).
			AddRow(int64(42), "alice", "alice@example.com", "editor", false, nil, nil, fixedNow, fixedNow))
	pool.ExpectQuery("UPDATE accounts SET is_active = \\$1").
		WithArgs(true, int64(99)).
		WillReturnError(pgx.ErrNoRows)

	acc, err := repo.SetActive(context.Background(), 42, false)
	require.NoError(t, err)
	assert.False(t, acc.IsActive)

	_, err = repo.SetActive(context.Background(), 99, true)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresAccountRepo_RecordEvent(t *testing.T) {
	pool, repo := newMockRepo(t)

	pool.ExpectExec("INSERT INTO auth_events").
		WithArgs(pgxmock.AnyArg(), int64(42), "login").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("INSERT INTO auth_events").
		WithArgs(pgxmock.AnyArg(), int64(42), "register").
		WillReturnError(errors.New("disk full"))

	require.NoError(t, repo.RecordEvent(context.Background(), 42, types.AuthEventLogin))
	err := repo.RecordEvent(context.Background(), 42, types.AuthEventRegister)
	require.Error(t, err)
	assert.NotErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, pool.ExpectationsWereMet())
}
