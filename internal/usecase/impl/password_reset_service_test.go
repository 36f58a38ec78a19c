package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	"authpal/config"
	"authpal/internal/domain/entity"
	domainerrors "authpal/internal/domain/errors"
	"authpal/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resetFixture struct {
	svc          usecase.PasswordResetUsecase
	userRepo     *fakeUserRepo
	accountRepo  *fakeAccountRepo
	sessionStore *fakeSessionStore
	mailer       *fakeMailer
	codec        *fakeResetTokenCodec
	hasher       *fakeHasher
}

func newResetFixture() *resetFixture {
	userRepo := newFakeUserRepo()
	accountRepo := newFakeAccountRepo()
	txManager := &fakeTxManager{userRepo: userRepo, accountRepo: accountRepo}
	sessionStore := newFakeSessionStore()
	mailer := &fakeMailer{}
	codec := &fakeResetTokenCodec{ttl: 15 * time.Minute}
	hasher := &fakeHasher{}

	cfg := &config.Config{
		URLs: &config.URLConfig{BackendBaseURL: "https://api.example.com"},
	}

	svc := NewPasswordResetService(PasswordResetServiceParams{
		TxManager:    txManager,
		UserRepo:     userRepo,
		Hasher:       hasher,
		TokenCodec:   codec,
		SessionStore: sessionStore,
		Mailer:       mailer,
		Config:       cfg,
		Logger:       discardLogger(),
	})

	return &resetFixture{
		svc:          svc,
		userRepo:     userRepo,
		accountRepo:  accountRepo,
		sessionStore: sessionStore,
		mailer:       mailer,
		codec:        codec,
		hasher:       hasher,
	}
}

func seedLocalUser(t *testing.T, f *resetFixture) *entity.User {
	t.Helper()

	ctx := context.Background()
	user := &entity.User{
		Email:        "jane@example.com",
		FirstName:    "Jane",
		PasswordHash: "hashed:OldPassword1",
		IsActive:     true,
		Role:         entity.RoleUser,
	}
	require.NoError(t, f.userRepo.Create(ctx, user))
	require.NoError(t, f.accountRepo.Create(ctx, &entity.Account{
		UserID:     user.ID,
		Provider:   entity.ProviderTypeEmail,
		ProviderID: user.Email,
	}))

	return user
}

func TestPasswordResetService_RequestReset(t *testing.T) {
	f := newResetFixture()
	ctx := context.Background()
	user := seedLocalUser(t, f)

	require.NoError(t, f.svc.RequestReset(ctx, "Jane@Example.com"))

	// The stored hash is the digest of the emailed token, never the raw token.
	stored := f.userRepo.get(user.ID)
	require.NotEmpty(t, stored.PasswordResetTokenHash)
	require.NotNil(t, stored.PasswordResetExpires)

	require.Len(t, f.mailer.resets, 1)
	sent := f.mailer.resets[0]
	assert.Equal(t, "jane@example.com", sent.to)
	assert.True(t, strings.HasPrefix(sent.url, "https://api.example.com/auth/reset-password/"))
	assert.NotContains(t, sent.url, stored.PasswordResetTokenHash)
}

func TestPasswordResetService_RequestReset_UnknownEmailGenericSuccess(t *testing.T) {
	f := newResetFixture()

	require.NoError(t, f.svc.RequestReset(context.Background(), "nobody@example.com"))
	assert.Empty(t, f.mailer.resets)
}

func emailedToken(t *testing.T, f *resetFixture) string {
	t.Helper()

	require.NotEmpty(t, f.mailer.resets)
	url := f.mailer.resets[len(f.mailer.resets)-1].url
	parts := strings.Split(url, "/")

	return parts[len(parts)-1]
}

func TestPasswordResetService_ConsumeResetLink_RotatesToken(t *testing.T) {
	f := newResetFixture()
	ctx := context.Background()
	user := seedLocalUser(t, f)

	require.NoError(t, f.svc.RequestReset(ctx, user.Email))
	raw := emailedToken(t, f)

	out, err := f.svc.ConsumeResetLink(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", out.Email)
	assert.NotEqual(t, raw, out.SessionToken)

	// The emailed token died with the rotation.
	_, err = f.svc.ConsumeResetLink(ctx, raw)
	assert.ErrorIs(t, err, domainerrors.ErrResetTokenInvalid)
}

func TestPasswordResetService_ConsumeResetLink_Invalid(t *testing.T) {
	f := newResetFixture()

	_, err := f.svc.ConsumeResetLink(context.Background(), "never-issued")
	assert.ErrorIs(t, err, domainerrors.ErrResetTokenInvalid)

	_, err = f.svc.ConsumeResetLink(context.Background(), "")
	assert.ErrorIs(t, err, domainerrors.ErrResetTokenInvalid)
}

func TestPasswordResetService_ConsumeResetLink_Expired(t *testing.T) {
	f := newResetFixture()
	ctx := context.Background()
	user := seedLocalUser(t, f)

	require.NoError(t, f.svc.RequestReset(ctx, user.Email))
	raw := emailedToken(t, f)

	stored := f.userRepo.get(user.ID)
	past := time.Now().Add(-time.Second)
	stored.PasswordResetExpires = &past
	require.NoError(t, f.userRepo.Update(ctx, stored))

	_, err := f.svc.ConsumeResetLink(ctx, raw)
	assert.ErrorIs(t, err, domainerrors.ErrResetTokenInvalid)
}

func TestPasswordResetService_ResetPassword_FullFlow(t *testing.T) {
	f := newResetFixture()
	ctx := context.Background()
	user := seedLocalUser(t, f)

	// A live session that must not survive the reset.
	_, err := f.sessionStore.Create(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.RequestReset(ctx, user.Email))
	out, err := f.svc.ConsumeResetLink(ctx, emailedToken(t, f))
	require.NoError(t, err)

	require.NoError(t, f.svc.ResetPassword(ctx, out.SessionToken, "NewPassword1"))

	stored := f.userRepo.get(user.ID)
	assert.Equal(t, "hashed:NewPassword1", stored.PasswordHash)
	assert.Empty(t, stored.PasswordResetTokenHash)
	assert.Nil(t, stored.PasswordResetExpires)
	assert.Equal(t, 0, f.sessionStore.count())

	// Terminal clear: the rotated token is dead too.
	err = f.svc.ResetPassword(ctx, out.SessionToken, "NewPassword2")
	assert.ErrorIs(t, err, domainerrors.ErrResetSessionExpired)
}

func TestPasswordResetService_ResetPassword_WeakPassword(t *testing.T) {
	f := newResetFixture()
	ctx := context.Background()
	user := seedLocalUser(t, f)

	require.NoError(t, f.svc.RequestReset(ctx, user.Email))
	out, err := f.svc.ConsumeResetLink(ctx, emailedToken(t, f))
	require.NoError(t, err)

	err = f.svc.ResetPassword(ctx, out.SessionToken, "short")
	assert.ErrorIs(t, err, domainerrors.ErrPasswordStrength)

	// Token survives a policy failure so the user can try again.
	require.NoError(t, f.svc.ResetPassword(ctx, out.SessionToken, "NewPassword1"))
}

func TestPasswordResetService_ResetPassword_SocialOnlyUserGainsCredential(t *testing.T) {
	f := newResetFixture()
	ctx := context.Background()

	user := &entity.User{
		Email:         "jane@example.com",
		IsActive:      true,
		EmailVerified: true,
		Role:          entity.RoleUser,
	}
	require.NoError(t, f.userRepo.Create(ctx, user))
	require.NoError(t, f.accountRepo.Create(ctx, &entity.Account{
		UserID:     user.ID,
		Provider:   entity.ProviderTypeGoogle,
		ProviderID: "google-sub-1",
	}))

	require.NoError(t, f.svc.RequestReset(ctx, user.Email))
	out, err := f.svc.ConsumeResetLink(ctx, emailedToken(t, f))
	require.NoError(t, err)
	require.NoError(t, f.svc.ResetPassword(ctx, out.SessionToken, "NewPassword1"))

	account, err := f.accountRepo.Find(ctx, entity.ProviderTypeEmail, user.Email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, account.UserID)
}
