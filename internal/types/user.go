package types

import (
	"fmt"
	"time"
)

// Role is the authorization level of an account.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleEditor        Role = "editor"
	RoleAuthor        Role = "author"
	RoleSubscriber    Role = "subscriber"
)

// DefaultRole is assigned on registration when no role is requested.
const DefaultRole = RoleSubscriber

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleEditor, RoleAuthor, RoleSubscriber:
		return true
	}
	return false
}

// ParseRole converts s to a Role. An empty string yields DefaultRole.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return DefaultRole, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
	}
	return r, nil
}

// Account is the identity and auth state of a CMS user.
type Account struct {
	ID                int64      `json:"id" example:"42"`
	Username          string     `json:"username" example:"alice"`
	Email             string     `json:"email" example:"alice@example.com"`
	PasswordHash      string     `json:"-"` // never exposed
	Role              Role       `json:"role" example:"subscriber"`
	IsActive          bool       `json:"is_active" example:"true"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	PasswordChangedAt *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// PublicAccount is the subset of Account returned to clients and attached
// to authenticated requests.
type PublicAccount struct {
	ID          int64      `json:"id" example:"42"`
	Username    string     `json:"username" example:"alice"`
	Email       string     `json:"email" example:"alice@example.com"`
	Role        Role       `json:"role" example:"subscriber"`
	IsActive    bool       `json:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Public strips credentials and bookkeeping from the account.
func (a *Account) Public() PublicAccount {
	return PublicAccount{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		Role:        a.Role,
		IsActive:    a.IsActive,
		LastLoginAt: a.LastLoginAt,
	}
}

// IssuedBeforePasswordChange reports whether a token issued at iat predates
// the last credential change. Comparison is at second precision because
// JWT timestamps are.
func (a *Account) IssuedBeforePasswordChange(iat time.Time) bool {
	if a.PasswordChangedAt == nil {
		return false
	}
	return iat.Before(a.PasswordChangedAt.Truncate(time.Second))
}

// CreateAccountParams carries the fields needed to persist a new account.
type CreateAccountParams struct {
	Username     string
	Email        string
	PasswordHash string
	Role         Role
}

// AuthEventKind labels a persisted authentication event.
type AuthEventKind string

const (
	AuthEventRegister      AuthEventKind = "register"
	AuthEventLogin         AuthEventKind = "login"
	AuthEventPasswordReset AuthEventKind = "password_reset"
)
