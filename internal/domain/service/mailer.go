package service

import "context"

// Mailer delivers transactional email. Delivery failure is reported to the
// caller but never rolls back the database change that preceded it; the user
// simply re-requests the code or link.
type Mailer interface {
	// SendOTPEmail sends the verification-code email.
	SendOTPEmail(ctx context.Context, to, firstName, code string) error

	// SendPasswordResetEmail sends the reset link embedding the raw token.
	SendPasswordResetEmail(ctx context.Context, to, firstName, resetURL string) error
}
