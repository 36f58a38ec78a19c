// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"authpal/config"
	"authpal/internal/domain/service"

	"github.com/pkg/errors"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy config.PasswordStrengthConfig
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	policy := config.PasswordStrengthConfig{MinLength: 8}

	if cfg != nil {
		if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
			cost = cfg.Auth.BcryptCost
		}
		if cfg.PasswordStrength != nil {
			policy = *cfg.PasswordStrength
		}
	}

	return &bcryptHasher{cost: cost, policy: policy}
}

// NewBcryptHasherWithCost builds a hasher with an explicit cost factor.
// Intended for tests that want a cheap cost.
func NewBcryptHasherWithCost(cost int, policy config.PasswordStrengthConfig) service.PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &bcryptHasher{cost: cost, policy: policy}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
// An empty hash (social-only account) never matches.
func (h *bcryptHasher) Check(password, hash string) bool {
	if hash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	// err is nil if the password and hash match.
	return err == nil
}

// ValidatePasswordStrength enforces the configured password policy.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	if len(password) < h.policy.MinLength {
		return errors.Errorf("password must be at least %d characters long", h.policy.MinLength)
	}

	// bcrypt silently truncates input beyond 72 bytes.
	if len(password) > 72 {
		return errors.New("password must be at most 72 characters long")
	}

	var hasUpper, hasLower, hasNumber bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		}
	}

	if h.policy.RequireUppercase && !hasUpper {
		return errors.New("password must contain at least one uppercase letter")
	}
	if h.policy.RequireLowercase && !hasLower {
		return errors.New("password must contain at least one lowercase letter")
	}
	if h.policy.RequireNumbers && !hasNumber {
		return errors.New("password must contain at least one number")
	}

	return nil
}
