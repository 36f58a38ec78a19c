package impl

import (
	"context"
	"testing"
	"time"

	"authpal/internal/domain/entity"
	domainerrors "authpal/internal/domain/errors"
	"authpal/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verificationFixture struct {
	svc      usecase.VerificationUsecase
	userRepo *fakeUserRepo
	mailer   *fakeMailer
	otpGen   *fakeOTPGenerator
}

func newVerificationFixture() *verificationFixture {
	userRepo := newFakeUserRepo()
	mailer := &fakeMailer{}
	otpGen := &fakeOTPGenerator{code: "313370", expiresAt: time.Now().Add(10 * time.Minute)}

	svc := NewVerificationService(VerificationServiceParams{
		UserRepo:     userRepo,
		OTPGenerator: otpGen,
		Mailer:       mailer,
		Logger:       discardLogger(),
	})

	return &verificationFixture{svc: svc, userRepo: userRepo, mailer: mailer, otpGen: otpGen}
}

func seedUnverifiedUser(t *testing.T, repo *fakeUserRepo, otp string, expiresAt time.Time) *entity.User {
	t.Helper()

	user := &entity.User{
		Email:      "jane@example.com",
		FirstName:  "Jane",
		IsActive:   true,
		Role:       entity.RoleUser,
		OTP:        otp,
		OTPExpires: &expiresAt,
	}
	require.NoError(t, repo.Create(context.Background(), user))

	return user
}

func TestVerificationService_VerifyEmail(t *testing.T) {
	f := newVerificationFixture()
	ctx := context.Background()
	user := seedUnverifiedUser(t, f.userRepo, "482913", time.Now().Add(5*time.Minute))

	safe, err := f.svc.VerifyEmail(ctx, user.ID, "482913")
	require.NoError(t, err)
	assert.True(t, safe.EmailVerified)

	// Code is cleared, so it cannot be consumed twice.
	stored := f.userRepo.get(user.ID)
	assert.Empty(t, stored.OTP)
	assert.Nil(t, stored.OTPExpires)
}

func TestVerificationService_VerifyEmail_AlreadyVerified(t *testing.T) {
	f := newVerificationFixture()
	ctx := context.Background()
	user := seedUnverifiedUser(t, f.userRepo, "482913", time.Now().Add(5*time.Minute))

	_, err := f.svc.VerifyEmail(ctx, user.ID, "482913")
	require.NoError(t, err)

	// A second call is a harmless no-op even with a stale code.
	safe, err := f.svc.VerifyEmail(ctx, user.ID, "000000")
	require.NoError(t, err)
	assert.True(t, safe.EmailVerified)
}

func TestVerificationService_VerifyEmail_Mismatch(t *testing.T) {
	f := newVerificationFixture()
	user := seedUnverifiedUser(t, f.userRepo, "482913", time.Now().Add(5*time.Minute))

	_, err := f.svc.VerifyEmail(context.Background(), user.ID, "111111")
	assert.ErrorIs(t, err, domainerrors.ErrOTPMismatch)

	stored := f.userRepo.get(user.ID)
	assert.False(t, stored.EmailVerified)
	assert.Equal(t, "482913", stored.OTP)
}

func TestVerificationService_VerifyEmail_Expired(t *testing.T) {
	f := newVerificationFixture()
	user := seedUnverifiedUser(t, f.userRepo, "482913", time.Now().Add(-time.Second))

	// Even the correct code fails once the expiry instant has passed.
	_, err := f.svc.VerifyEmail(context.Background(), user.ID, "482913")
	assert.ErrorIs(t, err, domainerrors.ErrOTPExpired)
}

func TestVerificationService_VerifyEmail_NotIssued(t *testing.T) {
	f := newVerificationFixture()
	ctx := context.Background()

	user := &entity.User{Email: "jane@example.com", IsActive: true, Role: entity.RoleUser}
	require.NoError(t, f.userRepo.Create(ctx, user))

	_, err := f.svc.VerifyEmail(ctx, user.ID, "482913")
	assert.ErrorIs(t, err, domainerrors.ErrOTPNotIssued)
}

func TestVerificationService_VerifyEmail_UnknownUser(t *testing.T) {
	f := newVerificationFixture()

	_, err := f.svc.VerifyEmail(context.Background(), uuid.New(), "482913")
	assert.ErrorIs(t, err, domainerrors.ErrUserNotFound)
}

func TestVerificationService_ResendOTP(t *testing.T) {
	f := newVerificationFixture()
	ctx := context.Background()
	user := seedUnverifiedUser(t, f.userRepo, "482913", time.Now().Add(5*time.Minute))

	require.NoError(t, f.svc.ResendOTP(ctx, user.ID))

	// The old code is overwritten by the new one.
	stored := f.userRepo.get(user.ID)
	assert.Equal(t, "313370", stored.OTP)

	require.Len(t, f.mailer.otpMails, 1)
	assert.Equal(t, "313370", f.mailer.otpMails[0].code)

	_, err := f.svc.VerifyEmail(ctx, user.ID, "482913")
	assert.ErrorIs(t, err, domainerrors.ErrOTPMismatch)
}

func TestVerificationService_ResendOTP_VerifiedUserNoOp(t *testing.T) {
	f := newVerificationFixture()
	ctx := context.Background()
	user := seedUnverifiedUser(t, f.userRepo, "482913", time.Now().Add(5*time.Minute))

	_, err := f.svc.VerifyEmail(ctx, user.ID, "482913")
	require.NoError(t, err)

	require.NoError(t, f.svc.ResendOTP(ctx, user.ID))
	assert.Empty(t, f.mailer.otpMails)
}
