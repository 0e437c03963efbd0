package auth

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-cms-auth/internal/api"
	"github.com/FACorreiaa/go-cms-auth/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	RefreshSession(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	ForgotPassword(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	CurrentSession(w http.ResponseWriter, r *http.Request)

	GetAccount(w http.ResponseWriter, r *http.Request)
	UpdateAccountStatus(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("auth handler requires a logger")
	}
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register Account
// @Description  Creates an account and returns an access and refresh token. Roles other than subscriber require an administrator bearer token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.RegisterRequest true "Account details"
// @Success      201 {object} types.Response{data=types.SessionResponse} "Account created"
// @Failure      400 {object} types.Response "Invalid request"
// @Failure      403 {object} types.Response "Role requires an administrator"
// @Failure      409 {object} types.Response "Username or email already exists"
// @Failure      429 {object} types.Response "Too many requests"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Security     BearerAuth
// @Router       /auth/register [post]
func (h *HandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "Register"))

	var req types.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	if err := req.Validate(); err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	if req.Role != "" && types.Role(req.Role) != types.DefaultRole {
		if ac, ok := GetAuthContext(r.Context()); !ok || ac.Role != types.RoleAdministrator {
			l.WarnContext(r.Context(), "Privileged role requested by non-administrator", slog.String("role", req.Role))
			api.HandleError(w, r, l, types.ErrForbidden)
			return
		}
	}

	session, err := h.authService.Register(r.Context(), RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	api.SuccessResponse(w, r, http.StatusCreated, "Account registered", sessionResponse(session))
}

// Login godoc
// @Summary      Log In
// @Description  Authenticates with a username or email and password.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.LoginRequest true "Credentials"
// @Success      200 {object} types.Response{data=types.SessionResponse} "Logged in"
// @Failure      400 {object} types.Response "Invalid request"
// @Failure      401 {object} types.Response "Invalid credentials"
// @Failure      429 {object} types.Response "Too many requests"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /auth/login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "Login"))

	var req types.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	if err := req.Validate(); err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	session, err := h.authService.Login(r.Context(), req.Login(), req.Password)
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, "Login successful", sessionResponse(session))
}

// RefreshSession godoc
// @Summary      Refresh Tokens
// @Description  Exchanges a refresh token for a new access and refresh token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.RefreshTokenRequest true "Refresh token"
// @Success      200 {object} types.Response{data=types.TokenResponse} "New tokens"
// @Failure      400 {object} types.Response "Invalid request"
// @Failure      401 {object} types.Response "Invalid or expired token"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /auth/refresh [post]
func (h *HandlerImpl) RefreshSession(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "RefreshSession"))

	var req types.RefreshTokenRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	pair, err := h.authService.RefreshSession(r.Context(), req.RefreshToken)
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, "Session refreshed", types.TokenResponse{
		Token:        pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout godoc
// @Summary      Log Out
// @Description  Acknowledges logout. Tokens are stateless and expire on their own; clients should discard them.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} types.Response "Logged out"
// @Router       /auth/logout [post]
func (h *HandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	var accountID int64
	if ac, ok := GetAuthContext(r.Context()); ok {
		accountID = ac.AccountID
	}
	if err := h.authService.Logout(r.Context(), accountID); err != nil {
		api.HandleError(w, r, h.logger, err)
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, "Logged out", nil)
}

// ForgotPassword godoc
// @Summary      Request Password Reset
// @Description  Always answers with the same generic message whether or not the email is registered.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.ForgotPasswordRequest true "Account email"
// @Success      200 {object} types.Response{data=types.ForgotPasswordResponse} "Generic acknowledgement"
// @Failure      400 {object} types.Response "Invalid request"
// @Failure      429 {object} types.Response "Too many requests"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /auth/forgot-password [post]
func (h *HandlerImpl) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "ForgotPassword"))

	var req types.ForgotPasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	if err := req.Validate(); err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	result, err := h.authService.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	var data interface{}
	if result.ResetToken != "" {
		data = types.ForgotPasswordResponse{ResetToken: result.ResetToken}
	}
	api.SuccessResponse(w, r, http.StatusOK, result.Message, data)
}

// ResetPassword godoc
// @Summary      Reset Password
// @Description  Sets a new password using a reset token. Tokens issued before the change stop working.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body types.ResetPasswordRequest true "Reset token and new password"
// @Success      200 {object} types.Response "Password reset"
// @Failure      400 {object} types.Response "Invalid request or token"
// @Failure      500 {object} types.Response "Internal Server Error"
// @Router       /auth/reset-password [post]
func (h *HandlerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "ResetPassword"))

	var req types.ResetPasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	if err := req.Validate(); err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	api.SuccessResponse(w, r, http.StatusOK, "Password has been reset", nil)
}

// Me godoc
// @Summary      Current Account
// @Description  Returns the authenticated caller.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} types.Response{data=types.AuthContext} "Caller"
// @Failure      401 {object} types.Response "Unauthorized"
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *HandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	ac, ok := GetAuthContext(r.Context())
	if !ok {
		api.HandleError(w, r, h.logger, types.ErrUnauthenticated)
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, "", ac)
}

// CurrentSession godoc
// @Summary      Session Status
// @Description  Reports whether the request carries a valid access token. Never fails on a bad token.
// @Tags         Auth
// @Produce      json
// @Success      200 {object} types.Response{data=types.CurrentSessionResponse} "Session status"
// @Router       /auth/session [get]
func (h *HandlerImpl) CurrentSession(w http.ResponseWriter, r *http.Request) {
	resp := types.CurrentSessionResponse{}
	if ac, ok := GetAuthContext(r.Context()); ok {
		resp.Authenticated = true
		resp.User = ac
	}
	api.SuccessResponse(w, r, http.StatusOK, "", resp)
}

// GetAccount godoc
// @Summary      Get Account
// @Description  Returns an account by id. Requires the administrator or editor role.
// @Tags         Admin
// @Produce      json
// @Param        id path int true "Account ID"
// @Success      200 {object} types.Response{data=types.PublicAccount} "Account"
// @Failure      400 {object} types.Response "Invalid id"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      403 {object} types.Response "Forbidden"
// @Failure      404 {object} types.Response "Account Not Found"
// @Security     BearerAuth
// @Router       /admin/accounts/{id} [get]
func (h *HandlerImpl) GetAccount(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "GetAccount"))

	id, err := accountIDParam(r)
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	acc, err := h.authService.GetAccount(r.Context(), id)
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, "", acc.Public())
}

// UpdateAccountStatus godoc
// @Summary      Activate or Deactivate Account
// @Description  Toggles the active flag. Deactivated accounts fail authentication immediately. Requires the administrator role.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path int true "Account ID"
// @Param        body body types.UpdateAccountStatusRequest true "New status"
// @Success      200 {object} types.Response{data=types.PublicAccount} "Updated account"
// @Failure      400 {object} types.Response "Invalid request"
// @Failure      401 {object} types.Response "Unauthorized"
// @Failure      403 {object} types.Response "Forbidden"
// @Failure      404 {object} types.Response "Account Not Found"
// @Security     BearerAuth
// @Router       /admin/accounts/{id}/status [patch]
func (h *HandlerImpl) UpdateAccountStatus(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("HandlerImpl", "UpdateAccountStatus"))

	id, err := accountIDParam(r)
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	var req types.UpdateAccountStatusRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	if err := req.Validate(); err != nil {
		api.HandleError(w, r, l, err)
		return
	}

	acc, err := h.authService.SetAccountActive(r.Context(), id, *req.IsActive)
	if err != nil {
		api.HandleError(w, r, l, err)
		return
	}
	api.SuccessResponse(w, r, http.StatusOK, "Account status updated", acc.Public())
}

func accountIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, &types.ValidationError{Msg: "account id must be a positive integer"}
	}
	return id, nil
}

func sessionResponse(s *Session) types.SessionResponse {
	return types.SessionResponse{
		User:         s.Account.Public(),
		Token:        s.AccessToken,
		RefreshToken: s.RefreshToken,
	}
}
