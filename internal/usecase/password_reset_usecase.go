package usecase

import (
	"context"
	"time"
)

// ResetLinkOutput is the result of consuming an emailed reset link. The
// rotated session token goes into a short-lived cookie; the emailed token is
// dead from this point on.
type ResetLinkOutput struct {
	SessionToken string
	Email        string
	ExpiresAt    time.Time
}

// PasswordResetUsecase drives the two-phase password-reset flow:
// request (email a link), consume (verify + rotate into a cookie token),
// reset (verify the cookie token and write the new password).
type PasswordResetUsecase interface {
	// RequestReset issues a reset token and emails the link. The outcome is
	// identical whether or not the email is registered.
	RequestReset(ctx context.Context, email string) error

	// ConsumeResetLink validates the emailed token and rotates it into a new
	// single-use session token for the final phase.
	ConsumeResetLink(ctx context.Context, rawToken string) (*ResetLinkOutput, error)

	// ResetPassword validates the rotated token and writes the new password,
	// clearing all reset state and revoking every live session of the user.
	ResetPassword(ctx context.Context, rawToken, newPassword string) error
}
