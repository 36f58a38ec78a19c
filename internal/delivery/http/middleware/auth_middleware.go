package middleware

import (
	"authpal/config"
	domainerrors "authpal/internal/domain/errors"
	"authpal/internal/domain/repository"
	"authpal/internal/domain/service"
	"authpal/internal/errors"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyUserID is where the session gate stores the resolved user id.
	ContextKeyUserID = "userID"

	// ContextKeySessionID is where the session gate stores the session id.
	ContextKeySessionID = "sessionID"
)

// AuthMiddleware gates routes behind a valid session cookie.
type AuthMiddleware struct {
	sessionStore service.SessionStore
	userRepo     repository.UserRepository
	cookieName   string
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(sessionStore service.SessionStore, userRepo repository.UserRepository, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		sessionStore: sessionStore,
		userRepo:     userRepo,
		cookieName:   cfg.Session.CookieName,
	}
}

// Authenticate resolves the session cookie against the store and re-checks
// the user behind it on every request. A missing, unknown, or expired session
// yields the same Unauthorized response; a session whose user has since been
// deleted or deactivated is rejected too, so revoking an account takes effect
// immediately rather than when its sessions expire. With rolling sessions
// enabled the resolve itself extends the session's TTL.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			return domainerrors.ErrUnauthorized.WrapMessage("missing session cookie")
		}

		session, err := m.sessionStore.Resolve(c.Request().Context(), cookie.Value)
		if err != nil {
			if errors.Is(err, service.ErrSessionNotFound) {
				return domainerrors.ErrUnauthorized.WrapMessage("session not found or expired")
			}

			return domainerrors.ErrSessionStoreUnavailable.WrapMessage("session lookup failed")
		}

		user, err := m.userRepo.FindByID(c.Request().Context(), session.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return domainerrors.ErrUnauthorized.WrapMessage("session user no longer exists")
			}

			return domainerrors.ErrInternalError.WrapMessage("user lookup failed")
		}
		if !user.IsActive {
			return domainerrors.ErrUserInactive.WrapMessage("account deactivated")
		}

		// Expose the identity to handlers downstream.
		c.Set(ContextKeyUserID, session.UserID)
		c.Set(ContextKeySessionID, session.ID)

		return next(c)
	}
}
