package service

import "time"

// OTPGenerator produces one-time email verification codes.
type OTPGenerator interface {
	// Generate returns a fresh 6-digit code drawn uniformly from
	// [100000, 999999] together with its expiry instant.
	Generate() (code string, expiresAt time.Time, err error)
}
