package types

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("requested item not found")
	ErrConflict        = errors.New("item already exists or conflict")
	ErrUnauthenticated = errors.New("authentication required or invalid credentials")
	ErrForbidden       = errors.New("action forbidden")
	ErrValidation      = errors.New("validation failed")

	// ErrInvalidToken is returned for password reset tokens that fail
	// verification. It maps to 400, unlike bearer failures.
	ErrInvalidToken = errors.New("invalid or expired reset token")
)

// Unauthenticated variants. All of them satisfy errors.Is(err, ErrUnauthenticated).
var (
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	ErrMissingToken       = fmt.Errorf("%w: no token provided", ErrUnauthenticated)
	ErrInvalidAuthToken   = fmt.Errorf("%w: invalid or expired token", ErrUnauthenticated)
	ErrAccountUnavailable = fmt.Errorf("%w: account not found or inactive", ErrUnauthenticated)
)
