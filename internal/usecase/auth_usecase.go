// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"authpal/internal/domain/entity"

	"github.com/google/uuid"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// AuthOutput returns the authenticated user and their new session id after a
// successful register, login, or social login.
type AuthOutput struct {
	User      *entity.SafeUser
	SessionID string
}

// AuthUsecase defines the interface for authentication business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	// Register creates a new local user with its email credential, issues a
	// verification code, and opens a session.
	Register(ctx context.Context, input RegisterInput) (*AuthOutput, error)

	// Login verifies a local credential and opens a session.
	Login(ctx context.Context, input LoginInput) (*AuthOutput, error)

	// Logout destroys the server-side session. Unknown ids are a no-op.
	Logout(ctx context.Context, sessionID string) error

	// CurrentUser returns the safe projection of the session's user.
	CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.SafeUser, error)

	// BeginGoogleLogin returns the Google consent URL to redirect to.
	BeginGoogleLogin(ctx context.Context) (string, error)

	// CompleteGoogleLogin handles the provider callback: it validates state,
	// exchanges the code, finds-or-creates the user, and opens a session.
	CompleteGoogleLogin(ctx context.Context, state, code string) (*AuthOutput, error)
}
