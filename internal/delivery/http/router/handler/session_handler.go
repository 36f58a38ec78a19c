package handler

import (
	"log/slog"
	"net/http"

	"authpal/internal/delivery/http/response"
	"authpal/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SessionHandler lets an authenticated user inspect and revoke their sessions.
type SessionHandler struct {
	sessionUC usecase.SessionUsecase
	logger    *slog.Logger
}

// NewSessionHandler is the constructor for SessionHandler, injected by Fx.
func NewSessionHandler(sessionUC usecase.SessionUsecase, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{sessionUC: sessionUC, logger: logger}
}

// List returns the user's live sessions with the current one flagged.
func (h *SessionHandler) List(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	sessions, err := h.sessionUC.ListSessions(c.Request().Context(), userID, currentSessionID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, sessions, "Sessions retrieved")
}

// RevokeOthers destroys every session except the current one.
func (h *SessionHandler) RevokeOthers(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	revoked, err := h.sessionUC.RevokeOtherSessions(c.Request().Context(), userID, currentSessionID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int{"revoked": revoked}, "Other sessions revoked")
}
