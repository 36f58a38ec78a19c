package handler

import (
	"log/slog"
	"net/http"
	"net/url"

	"authpal/config"
	"authpal/internal/delivery/http/response"
	domainerrors "authpal/internal/domain/errors"
	"authpal/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PasswordResetHandler holds dependencies for the password-reset flow.
type PasswordResetHandler struct {
	resetUC        usecase.PasswordResetUsecase
	cookies        *cookieWriter
	frontendOrigin string
	logger         *slog.Logger
}

// NewPasswordResetHandler is the constructor for PasswordResetHandler, injected by Fx.
func NewPasswordResetHandler(resetUC usecase.PasswordResetUsecase, cfg *config.Config, logger *slog.Logger) *PasswordResetHandler {
	frontendOrigin := ""
	if cfg.URLs != nil {
		frontendOrigin = cfg.URLs.FrontendOrigin
	}

	return &PasswordResetHandler{
		resetUC:        resetUC,
		cookies:        newCookieWriter(cfg),
		frontendOrigin: frontendOrigin,
		logger:         logger,
	}
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// Forgot issues a reset link. The response is the same whether or not the
// email is registered.
func (h *PasswordResetHandler) Forgot(c echo.Context) error {
	var input forgotPasswordRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid forgot-password input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	if err := h.resetUC.RequestReset(c.Request().Context(), input.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "If the email is registered, a reset link has been sent")
}

// ConsumeResetLink handles the emailed link: it verifies and rotates the
// token, moves the rotated token into a short-lived cookie, and redirects
// the browser to the frontend reset form.
func (h *PasswordResetHandler) ConsumeResetLink(c echo.Context) error {
	rawToken := c.Param("token")

	output, err := h.resetUC.ConsumeResetLink(c.Request().Context(), rawToken)
	if err != nil {
		if h.frontendOrigin != "" {
			return c.Redirect(http.StatusFound, h.frontendOrigin+"/reset-password?verified=false")
		}

		return errors.WithStack(err)
	}

	h.cookies.setReset(c, output.SessionToken)

	redirectURL := h.frontendOrigin + "/reset-password?verified=true&email=" + url.QueryEscape(output.Email)

	return c.Redirect(http.StatusFound, redirectURL)
}

// Reset finishes the flow: the rotated token comes from the cookie, the new
// password from the body.
func (h *PasswordResetHandler) Reset(c echo.Context) error {
	cookie, err := c.Cookie(resetCookieName)
	if err != nil || cookie.Value == "" {
		return domainerrors.ErrResetSessionExpired.WrapMessage("missing reset session cookie")
	}

	var input resetPasswordRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset-password input")
	}
	if err := c.Validate(&input); err != nil {
		return err
	}

	if err := h.resetUC.ResetPassword(c.Request().Context(), cookie.Value, input.Password); err != nil {
		return errors.WithStack(err)
	}

	h.cookies.clearReset(c)

	return response.Success(c, http.StatusOK, nil, "Password reset successfully")
}
