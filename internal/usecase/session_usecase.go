package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionInfo describes one live session without exposing the full id, which
// is a bearer credential.
type SessionInfo struct {
	IDPrefix  string    `json:"idPrefix"`
	Current   bool      `json:"current"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionUsecase lets an authenticated user inspect and revoke their sessions.
type SessionUsecase interface {
	// ListSessions returns the user's live sessions, flagging the current one.
	ListSessions(ctx context.Context, userID uuid.UUID, currentSessionID string) ([]SessionInfo, error)

	// RevokeOtherSessions destroys every session of the user except the
	// current one, returning the number revoked.
	RevokeOtherSessions(ctx context.Context, userID uuid.UUID, currentSessionID string) (int, error)
}
