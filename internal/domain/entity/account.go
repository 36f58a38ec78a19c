// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProviderType identifies an identity provider.
type ProviderType string

const (
	// ProviderTypeEmail is the local email/password credential.
	ProviderTypeEmail ProviderType = "email"
	// ProviderTypeGoogle is a linked Google Sign-In credential.
	ProviderTypeGoogle ProviderType = "google"
)

// Account links a User to one identity provider's credential. For the local
// provider the ProviderID is the (normalized) email address; for Google it is
// the provider's subject id. The (Provider, ProviderID) pair is unique.
// Accounts are created atomically alongside their User and never mutated.
type Account struct {
	ID         uuid.UUID    // The unique ID for this specific account record itself.
	UserID     uuid.UUID    // Links this credential to the User it belongs to.
	Provider   ProviderType // The identity provider, e.g. "email" or "google".
	ProviderID string       // The provider-specific unique identifier.
	CreatedAt  time.Time    // Timestamp of when this credential was linked to the user.
}
