package service

import (
	"context"
	"errors"

	"authpal/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when a session id does not resolve,
// either because it never existed or because it has expired.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore is the external key-value store holding server-side sessions.
// The opaque session id it hands out is the only thing the client ever sees.
type SessionStore interface {
	// Create establishes a new session for the user and returns its id.
	Create(ctx context.Context, userID uuid.UUID) (*entity.Session, error)

	// Resolve looks up a session by id. When rolling refresh is enabled the
	// session's TTL is extended on every successful resolve.
	Resolve(ctx context.Context, sessionID string) (*entity.Session, error)

	// Destroy removes the server-side session record. Destroying an unknown
	// id is a no-op, so logout is idempotent.
	Destroy(ctx context.Context, sessionID string) error

	// ListByUserID returns all live sessions belonging to a user.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Session, error)

	// DestroyAllForUser removes every session belonging to a user, optionally
	// sparing one id (the caller's current session). It returns the number of
	// sessions destroyed.
	DestroyAllForUser(ctx context.Context, userID uuid.UUID, spare string) (int, error)
}
