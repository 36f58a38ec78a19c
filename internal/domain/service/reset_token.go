package service

import "time"

// ResetTokenCodec creates and hashes password-reset tokens. Raw tokens are
// handed to the user (email link, short-lived cookie); only the hash is ever
// persisted, so possession of the database contents grants nothing.
type ResetTokenCodec interface {
	// Generate returns a fresh high-entropy raw token (hex encoded, at least
	// 256 bits of randomness), its one-way hash, and the expiry instant.
	Generate() (raw string, hash string, expiresAt time.Time, err error)

	// HashToken computes the one-way hash of a presented raw token so it can
	// be compared against the stored value.
	HashToken(raw string) string
}
