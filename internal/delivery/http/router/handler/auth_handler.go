// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"authpal/config"
	"authpal/internal/delivery/http/middleware"
	"authpal/internal/delivery/http/response"
	domainerrors "authpal/internal/domain/errors"
	"authpal/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	authUC         usecase.AuthUsecase
	verificationUC usecase.VerificationUsecase
	cookies        *cookieWriter
	frontendOrigin string
	logger         *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(
	authUC usecase.AuthUsecase,
	verificationUC usecase.VerificationUsecase,
	cfg *config.Config,
	logger *slog.Logger,
) *AuthHandler {
	frontendOrigin := ""
	if cfg.URLs != nil {
		frontendOrigin = cfg.URLs.FrontendOrigin
	}

	return &AuthHandler{
		authUC:         authUC,
		verificationUC: verificationUC,
		cookies:        newCookieWriter(cfg),
		frontendOrigin: frontendOrigin,
		logger:         logger,
	}
}

// --- Request DTOs ---

type registerRequest struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyEmailRequest struct {
	OTP string `json:"otp" validate:"required,len=6,numeric"`
}

// Register handles the local registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var input registerRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.authUC.Register(c.Request().Context(), usecase.RegisterInput{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.cookies.setSession(c, output.SessionID)

	return response.Success(c, http.StatusCreated, output.User, "User registered successfully")
}

// Login handles the local login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var input loginRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	output, err := h.authUC.Login(c.Request().Context(), usecase.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	h.cookies.setSession(c, output.SessionID)

	return response.Success(c, http.StatusOK, output.User, "Login successful")
}

// Logout destroys the current session and clears the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID := currentSessionID(c)
	if err := h.authUC.Logout(c.Request().Context(), sessionID); err != nil {
		return errors.WithStack(err)
	}

	h.cookies.clearSession(c)

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// Me returns the safe projection of the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.authUC.CurrentUser(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "Current user retrieved")
}

// VerifyEmail checks the submitted one-time code for the session's user.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var input verifyEmailRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid verification input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	user, err := h.verificationUC.VerifyEmail(c.Request().Context(), userID, input.OTP)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "Email verified successfully")
}

// ResendOTP reissues the verification code for the session's user.
func (h *AuthHandler) ResendOTP(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.verificationUC.ResendOTP(c.Request().Context(), userID); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Verification code sent")
}

// GoogleLogin redirects the browser to the Google consent page.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	authURL, err := h.authUC.BeginGoogleLogin(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GoogleCallback completes the code flow, opens a session, and sends the
// browser back to the frontend.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	state := c.QueryParam("state")
	code := c.QueryParam("code")
	if state == "" || code == "" {
		return domainerrors.ErrOAuthFailed.WrapMessage("missing state or code parameter")
	}

	output, err := h.authUC.CompleteGoogleLogin(c.Request().Context(), state, code)
	if err != nil {
		return errors.WithStack(err)
	}

	h.cookies.setSession(c, output.SessionID)

	if h.frontendOrigin != "" {
		return c.Redirect(http.StatusFound, h.frontendOrigin)
	}

	return response.Success(c, http.StatusOK, output.User, "Google OAuth authentication successful")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}

// currentUserID reads the user id the session gate stored on the context.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, domainerrors.ErrUnauthorized.WrapMessage("missing user id on context")
	}

	return userID, nil
}

// currentSessionID reads the session id the session gate stored on the context.
func currentSessionID(c echo.Context) string {
	sessionID, _ := c.Get(middleware.ContextKeySessionID).(string)

	return sessionID
}
