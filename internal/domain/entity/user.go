// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is the core identity record. One User may own several Accounts
// (e.g. an email/password credential and a linked Google credential).
type User struct {
	ID             uuid.UUID  // The Global Unique Identifier (GUID) for the user.
	Email          string     // Unique login identifier, stored lowercased and trimmed.
	FirstName      string     // Optional given name.
	LastName       string     // Optional family name.
	PasswordHash   string     // bcrypt hash of the local password. Empty for social-only accounts.
	ProfilePicture string     // Optional avatar URL supplied by an OAuth provider.
	IsActive       bool       // Deactivated users cannot authenticate.
	EmailVerified  bool       // Set after OTP verification or a trusted OAuth login.
	Role           Role       // user or admin. Stored only; no RBAC is applied.
	LastLogin      *time.Time // Timestamp of the most recent successful login. Nil until first login.

	// One-time verification code state. Both fields are set together on issue
	// and cleared together once the code is consumed or superseded.
	OTP        string
	OTPExpires *time.Time

	// Password-reset token state. Only the SHA-256 hash of a token is ever
	// stored; the raw token lives exclusively in the email link (or the
	// short-lived reset cookie after rotation).
	PasswordResetTokenHash string
	PasswordResetExpires   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SafeUser is the projection of a User that may leave the service: it is what
// gets attached to the session and returned in response bodies. It never
// carries the password hash, the OTP, or the reset-token hash.
type SafeUser struct {
	ID             uuid.UUID  `json:"id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	ProfilePicture string     `json:"profilePicture,omitempty"`
	EmailVerified  bool       `json:"emailVerified"`
	Role           Role       `json:"role"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Safe returns the non-sensitive projection of the user.
func (u *User) Safe() *SafeUser {
	if u == nil {
		return nil
	}

	return &SafeUser{
		ID:             u.ID,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
		EmailVerified:  u.EmailVerified,
		Role:           u.Role,
		LastLogin:      u.LastLogin,
		CreatedAt:      u.CreatedAt,
	}
}

// NormalizeEmail canonicalizes an email for storage and lookup.
// Email uniqueness is case-insensitive, so every path must go through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
