package impl

import (
	"context"
	"log/slog"
	"sort"

	deliverycontext "authpal/internal/delivery/context"
	"authpal/internal/domain/service"
	"authpal/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// sessionIDPrefixLen is how much of a session id may be shown to its owner.
const sessionIDPrefixLen = 8

// sessionService implements the SessionUsecase interface.
type sessionService struct {
	sessionStore service.SessionStore
	logger       *slog.Logger
}

// SessionServiceParams holds dependencies for sessionService, injected by Fx.
type SessionServiceParams struct {
	fx.In

	SessionStore service.SessionStore
	Logger       *slog.Logger
}

// NewSessionService is the constructor for sessionService.
func NewSessionService(params SessionServiceParams) usecase.SessionUsecase {
	return &sessionService{
		sessionStore: params.SessionStore,
		logger:       params.Logger,
	}
}

func (srv *sessionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListSessions returns the user's live sessions ordered oldest first, with
// only an id prefix exposed since the full id is a bearer credential.
func (srv *sessionService) ListSessions(ctx context.Context, userID uuid.UUID, currentSessionID string) ([]usecase.SessionInfo, error) {
	sessions, err := srv.sessionStore.ListByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sessions")
	}

	infos := make([]usecase.SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		prefix := s.ID
		if len(prefix) > sessionIDPrefixLen {
			prefix = prefix[:sessionIDPrefixLen]
		}

		infos = append(infos, usecase.SessionInfo{
			IDPrefix:  prefix,
			Current:   s.ID == currentSessionID,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})

	return infos, nil
}

// RevokeOtherSessions destroys every session of the user except the current one.
func (srv *sessionService) RevokeOtherSessions(ctx context.Context, userID uuid.UUID, currentSessionID string) (int, error) {
	destroyed, err := srv.sessionStore.DestroyAllForUser(ctx, userID, currentSessionID)
	if err != nil {
		return 0, errors.Wrap(err, "failed to revoke sessions")
	}

	srv.log(ctx).Info("Revoked sessions", slog.Any("userID", userID), slog.Int("count", destroyed))

	return destroyed, nil
}
