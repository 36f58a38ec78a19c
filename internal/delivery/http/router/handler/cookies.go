package handler

import (
	"net/http"
	"time"

	"authpal/config"

	"github.com/labstack/echo/v4"
)

// resetCookieName carries the rotated password-reset token between the
// link-consumption redirect and the final reset submission.
const resetCookieName = "password_reset_session"

// cookieWriter centralizes session and reset cookie handling so every
// handler issues identical attributes.
type cookieWriter struct {
	sessionName string
	sessionTTL  time.Duration
	resetTTL    time.Duration
	secure      bool
}

func newCookieWriter(cfg *config.Config) *cookieWriter {
	return &cookieWriter{
		sessionName: cfg.Session.CookieName,
		sessionTTL:  cfg.Session.TTL,
		resetTTL:    cfg.Auth.ResetTokenTTL,
		secure:      cfg.Session.Secure,
	}
}

// setSession writes the httpOnly session cookie. The id is the only
// credential the browser holds, so it never reaches script.
func (w *cookieWriter) setSession(c echo.Context, sessionID string) {
	c.SetCookie(&http.Cookie{
		Name:     w.sessionName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(w.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (w *cookieWriter) clearSession(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     w.sessionName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// setReset writes the short-lived cookie holding the rotated reset token.
func (w *cookieWriter) setReset(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     resetCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(w.resetTTL.Seconds()),
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (w *cookieWriter) clearReset(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     resetCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   w.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
