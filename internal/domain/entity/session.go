// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the server-side authentication state held in the session store.
// The client only ever sees the opaque session id, delivered as an httpOnly
// cookie. A session with ExpiresAt in the past is treated as absent.
type Session struct {
	ID        string    // Opaque session id, the cookie value.
	UserID    uuid.UUID // The authenticated user.
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
