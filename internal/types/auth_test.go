package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequestValidate(t *testing.T) {
	valid := func() RegisterRequest {
		return RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "Passw0rd"}
	}

	tests := []struct {
		name    string
		mutate  func(r *RegisterRequest)
		wantMsg string
	}{
		{"valid", func(r *RegisterRequest) {}, ""},
		{"short username", func(r *RegisterRequest) { r.Username = "al" }, "username must be at least 3 characters"},
		{"long username", func(r *RegisterRequest) { r.Username = strings.Repeat("a", 51) }, "username must be at most 50 characters"},
		{"blank username", func(r *RegisterRequest) { r.Username = "   " }, "username is required"},
		{"double at", func(r *RegisterRequest) { r.Email = "a@@b.com" }, "email must be a valid email address"},
		{"no domain dot", func(r *RegisterRequest) { r.Email = "x@y" }, "email must be a valid email address"},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }, "password must be at least 8 characters"},
		{"password over 72 bytes", func(r *RegisterRequest) { r.Password = strings.Repeat("é", 37) }, "password must be at most 72 bytes"},
		{"unknown role", func(r *RegisterRequest) { r.Role = "owner" }, "role must be one of: administrator editor author subscriber"},
		{"known role", func(r *RegisterRequest) { r.Role = "editor" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantMsg, ve.Msg)
		})
	}
}

func TestRegisterRequestValidate_Normalises(t *testing.T) {
	req := RegisterRequest{Username: "  alice ", Email: " Alice@Example.COM ", Password: "Passw0rd"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "alice@example.com", req.Email)
}

func TestLoginRequestValidate(t *testing.T) {
	for _, req := range []LoginRequest{
		{Identifier: "alice", Password: "x"},
		{Username: "alice", Password: "x"},
		{Email: "alice@example.com", Password: "x"},
	} {
		assert.NoError(t, req.Validate())
	}

	err := (&LoginRequest{Identifier: "  ", Password: "x"}).Validate()
	assert.EqualError(t, err, "identifier is required")

	err = (&LoginRequest{Identifier: "alice"}).Validate()
	assert.EqualError(t, err, "password is required")
}

func TestOtherRequestsValidate(t *testing.T) {
	assert.EqualError(t, (&ForgotPasswordRequest{Email: "nope"}).Validate(), "email must be a valid email address")
	assert.NoError(t, (&ForgotPasswordRequest{Email: "Alice@Example.com"}).Validate())

	assert.EqualError(t, (&ResetPasswordRequest{Password: "N3wPassw0rd"}).Validate(), "token is required")
	assert.NoError(t, (&ResetPasswordRequest{Token: "t", Password: "N3wPassw0rd"}).Validate())

	assert.EqualError(t, (&UpdateAccountStatusRequest{}).Validate(), "is_active is required")
	active := false
	assert.NoError(t, (&UpdateAccountStatusRequest{IsActive: &active}).Validate())
}
