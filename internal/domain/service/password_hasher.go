// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password. The output
	// differs between calls for the same input because of the random salt.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	// An empty or malformed hash never matches and never panics, so a
	// social-only account (no password) simply fails verification.
	Check(password, hash string) bool

	// ValidatePasswordStrength enforces the configured password policy.
	ValidatePasswordStrength(password string) error
}
