package types

import "strings"

// AuthContext is attached to a request once the Access Guard has
// authenticated the caller.
type AuthContext struct {
	AccountID int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
}

// Response is the envelope of every JSON body. Success is the status
// discriminator.
type Response struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message,omitempty" example:"Operation successful"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty" example:"Invalid credentials"`
	RequestID string      `json:"request_id,omitempty"`
}

// RegisterRequest is the JSON body for account registration.
type RegisterRequest struct {
	// Username and Email must be unique.
	Username string `json:"username" validate:"required,min=3,max=50" example:"alice"`
	Email    string `json:"email" validate:"required,email,max=254" example:"alice@example.com"`
	// Password is 8 characters to 72 bytes.
	Password string `json:"password" validate:"required,min=8,maxbytes=72" example:"Passw0rd"`
	// Role defaults to subscriber. Any other role requires an administrator caller.
	Role string `json:"role,omitempty" validate:"omitempty,oneof=administrator editor author subscriber" example:"subscriber"`
}

// Validate normalises and checks the request shape. It does not check uniqueness.
func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	return validateStruct(r)
}

// LoginRequest accepts either a username or an email as the identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required_without_all=Username Email" example:"alice"`
	Username   string `json:"username,omitempty" example:"alice"`
	Email      string `json:"email,omitempty" example:"alice@example.com"`
	Password   string `json:"password" validate:"required" example:"Passw0rd"`
}

// Login returns the identifier the caller supplied, whichever field it was in.
func (r *LoginRequest) Login() string {
	for _, v := range []string{r.Identifier, r.Username, r.Email} {
		if v != "" {
			return v
		}
	}
	return ""
}

func (r *LoginRequest) Validate() error {
	r.Identifier = strings.TrimSpace(r.Identifier)
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	return validateStruct(r)
}

// RefreshTokenRequest carries the refresh token in the body.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" example:"eyJhbGciOiJI..."`
}

// ForgotPasswordRequest starts the password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email,max=254" example:"alice@example.com"`
}

func (r *ForgotPasswordRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	return validateStruct(r)
}

// ResetPasswordRequest completes the password reset flow.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required" example:"eyJhbGciOiJI..."`
	Password string `json:"password" validate:"required,min=8,maxbytes=72" example:"N3wPassw0rd"`
}

func (r *ResetPasswordRequest) Validate() error {
	return validateStruct(r)
}

// UpdateAccountStatusRequest toggles the active flag of an account.
type UpdateAccountStatusRequest struct {
	IsActive *bool `json:"is_active" validate:"required" example:"false"`
}

func (r *UpdateAccountStatusRequest) Validate() error {
	return validateStruct(r)
}

// SessionResponse is returned by register and login.
type SessionResponse struct {
	User         PublicAccount `json:"user"`
	Token        string        `json:"token" example:"eyJhbGciOiJI..."`
	RefreshToken string        `json:"refreshToken" example:"eyJhbGciOiJI..."`
}

// TokenResponse is returned by refresh.
type TokenResponse struct {
	Token        string `json:"token" example:"eyJhbGciOiJI..."`
	RefreshToken string `json:"refreshToken" example:"eyJhbGciOiJI..."`
}

// ForgotPasswordResponse is identical for known and unknown emails, except
// that outside production the reset token is echoed back.
type ForgotPasswordResponse struct {
	ResetToken string `json:"resetToken,omitempty"`
}

// CurrentSessionResponse describes the caller on optional-auth routes.
type CurrentSessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	User          *AuthContext `json:"user,omitempty"`
}

// ValidationError carries a user-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
