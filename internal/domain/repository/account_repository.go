// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"authpal/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrAccountNotFound is returned when a provider credential is not found.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for provider-credential persistence.
type AccountRepository interface {
	// Create persists a new account (provider credential). The unique
	// (provider, providerID) constraint is the authoritative duplicate guard.
	Create(ctx context.Context, account *entity.Account) error

	// Find retrieves an account by its provider and provider-specific ID.
	Find(ctx context.Context, provider entity.ProviderType, providerID string) (*entity.Account, error)

	// ListByUserID retrieves all accounts linked to a user.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error)
}
