package impl

import (
	"context"
	"testing"

	"authpal/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionFixture() (usecase.SessionUsecase, *fakeSessionStore) {
	store := newFakeSessionStore()
	svc := NewSessionService(SessionServiceParams{
		SessionStore: store,
		Logger:       discardLogger(),
	})

	return svc, store
}

func TestSessionService_ListSessions(t *testing.T) {
	svc, store := newSessionFixture()
	ctx := context.Background()
	userID := uuid.New()

	first, err := store.Create(ctx, userID)
	require.NoError(t, err)
	second, err := store.Create(ctx, userID)
	require.NoError(t, err)

	// Someone else's session stays invisible.
	_, err = store.Create(ctx, uuid.New())
	require.NoError(t, err)

	infos, err := svc.ListSessions(ctx, userID, second.ID)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	// Oldest first, current flagged, full id never exposed.
	assert.Equal(t, first.ID[:8], infos[0].IDPrefix)
	assert.False(t, infos[0].Current)
	assert.True(t, infos[1].Current)
	for _, info := range infos {
		assert.Less(t, len(info.IDPrefix), len(first.ID))
	}
}

func TestSessionService_RevokeOtherSessions(t *testing.T) {
	svc, store := newSessionFixture()
	ctx := context.Background()
	userID := uuid.New()

	current, err := store.Create(ctx, userID)
	require.NoError(t, err)
	_, err = store.Create(ctx, userID)
	require.NoError(t, err)
	_, err = store.Create(ctx, userID)
	require.NoError(t, err)

	revoked, err := svc.RevokeOtherSessions(ctx, userID, current.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, revoked)

	infos, err := svc.ListSessions(ctx, userID, current.ID)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.True(t, infos[0].Current)
}
