package usecase

import (
	"context"

	"authpal/internal/domain/entity"

	"github.com/google/uuid"
)

// VerificationUsecase defines the email-verification (OTP) operations.
type VerificationUsecase interface {
	// VerifyEmail checks the submitted code against the user's stored one.
	// On success the user is marked verified and the code is cleared.
	VerifyEmail(ctx context.Context, userID uuid.UUID, otp string) (*entity.SafeUser, error)

	// ResendOTP issues a fresh code, overwriting any previous one, and emails
	// it. Already-verified users get a silent no-op.
	ResendOTP(ctx context.Context, userID uuid.UUID) error
}
