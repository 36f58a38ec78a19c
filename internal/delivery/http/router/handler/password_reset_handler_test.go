package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	domainerrors "authpal/internal/domain/errors"
	"authpal/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResetUsecase struct {
	requested  []string
	linkOutput *usecase.ResetLinkOutput
	linkErr    error
	resetErr   error
	resets     []string
}

func (s *stubResetUsecase) RequestReset(ctx context.Context, email string) error {
	s.requested = append(s.requested, email)

	return nil
}

func (s *stubResetUsecase) ConsumeResetLink(ctx context.Context, rawToken string) (*usecase.ResetLinkOutput, error) {
	return s.linkOutput, s.linkErr
}

func (s *stubResetUsecase) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	s.resets = append(s.resets, rawToken)

	return s.resetErr
}

func TestPasswordResetHandler_Forgot_GenericResponse(t *testing.T) {
	resetUC := &stubResetUsecase{}
	h := NewPasswordResetHandler(resetUC, testHandlerConfig(), testLogger())

	c, rec := newTestContext(t, http.MethodPost, "/auth/password/forgot",
		`{"email":"jane@example.com"}`)

	require.NoError(t, h.Forgot(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "If the email is registered")
	assert.Equal(t, []string{"jane@example.com"}, resetUC.requested)
}

func TestPasswordResetHandler_ConsumeResetLink(t *testing.T) {
	resetUC := &stubResetUsecase{
		linkOutput: &usecase.ResetLinkOutput{
			SessionToken: "rotated-token",
			Email:        "jane+test@example.com",
			ExpiresAt:    time.Now().Add(15 * time.Minute),
		},
	}
	h := NewPasswordResetHandler(resetUC, testHandlerConfig(), testLogger())

	c, rec := newTestContext(t, http.MethodGet, "/auth/reset-password/abc", "")
	c.SetParamNames("token")
	c.SetParamValues("abc")

	require.NoError(t, h.ConsumeResetLink(c))
	assert.Equal(t, http.StatusFound, rec.Code)

	location := rec.Header().Get(echo.HeaderLocation)
	assert.Contains(t, location, "https://app.example.com/reset-password?verified=true")
	assert.Contains(t, location, "email=jane%2Btest%40example.com")

	cookie := findCookie(rec, resetCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "rotated-token", cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestPasswordResetHandler_ConsumeResetLink_InvalidToken(t *testing.T) {
	resetUC := &stubResetUsecase{linkErr: domainerrors.ErrResetTokenInvalid}
	h := NewPasswordResetHandler(resetUC, testHandlerConfig(), testLogger())

	c, rec := newTestContext(t, http.MethodGet, "/auth/reset-password/bogus", "")
	c.SetParamNames("token")
	c.SetParamValues("bogus")

	require.NoError(t, h.ConsumeResetLink(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://app.example.com/reset-password?verified=false",
		rec.Header().Get(echo.HeaderLocation))
	assert.Nil(t, findCookie(rec, resetCookieName))
}

func TestPasswordResetHandler_Reset(t *testing.T) {
	resetUC := &stubResetUsecase{}
	h := NewPasswordResetHandler(resetUC, testHandlerConfig(), testLogger())

	c, rec := newTestContext(t, http.MethodPost, "/auth/password/reset",
		`{"password":"NewStr0ngPass"}`)
	c.Request().AddCookie(&http.Cookie{Name: resetCookieName, Value: "rotated-token"})

	require.NoError(t, h.Reset(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"rotated-token"}, resetUC.resets)

	cookie := findCookie(rec, resetCookieName)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestPasswordResetHandler_Reset_WithoutCookie(t *testing.T) {
	h := NewPasswordResetHandler(&stubResetUsecase{}, testHandlerConfig(), testLogger())

	c, _ := newTestContext(t, http.MethodPost, "/auth/password/reset",
		`{"password":"NewStr0ngPass"}`)

	err := h.Reset(c)
	require.Error(t, err)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "RESET_SESSION_EXPIRED", appErr.ErrorCode())
}
