package service

import (
	"context"

	"authpal/internal/domain/entity"
)

// OAuthUser represents user information returned by an OAuth provider after
// the redirect handshake completes.
type OAuthUser struct {
	ID            string              // Provider-specific subject id (e.g., Google's 'sub' claim)
	Email         string              // User's email address
	FirstName     string              // Given name
	LastName      string              // Family name
	Picture       string              // URL to user's profile picture
	EmailVerified bool                // Whether the email is verified by the provider
	Provider      entity.ProviderType // The OAuth provider
}

// OAuthService drives the server-side authorization-code flow against one
// OAuth provider.
type OAuthService interface {
	// BuildAuthorizationURL constructs the provider consent URL, registering
	// the given state parameter for later CSRF validation.
	BuildAuthorizationURL(state string) string

	// GenerateState returns a fresh random state parameter.
	GenerateState() string

	// ValidateState consumes a previously issued state parameter. A state is
	// valid exactly once.
	ValidateState(state string) bool

	// ExchangeCode trades an authorization code for the provider's profile.
	ExchangeCode(ctx context.Context, code string) (*OAuthUser, error)

	// Provider returns the provider this service authenticates against.
	Provider() entity.ProviderType
}
