// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "authpal/internal/delivery/context"
	"authpal/internal/domain/entity"
	domainerrors "authpal/internal/domain/errors"
	"authpal/internal/domain/repository"
	"authpal/internal/domain/service"
	"authpal/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	hasher       service.PasswordHasher
	otpGenerator service.OTPGenerator
	oauthService service.OAuthService
	sessionStore service.SessionStore
	mailer       service.Mailer
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for authService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	OTPGenerator service.OTPGenerator
	OAuthService service.OAuthService
	SessionStore service.SessionStore
	Mailer       service.Mailer
	Logger       *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		hasher:       params.Hasher,
		otpGenerator: params.OTPGenerator,
		oauthService: params.OAuthService,
		sessionStore: params.SessionStore,
		mailer:       params.Mailer,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete local registration process: password
// policy, user + email credential in one transaction, OTP email, session.
func (srv *authService) Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthOutput, error) {
	email := entity.NormalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, domainerrors.ErrPasswordStrength.WrapMessage(err.Error())
	}

	passwordHash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	otp, otpExpires, err := srv.otpGenerator.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate verification code")
	}

	var registeredUser *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		accountRepo := repoFactory.AccountRepo()

		// Pre-check for a friendlier error; the unique index is the real guard.
		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return domainerrors.ErrEmailAlreadyExists.WrapMessage("email already registered")
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return errors.Wrap(err, "failed to check existing user")
		}

		newUser := &entity.User{
			Email:         email,
			FirstName:     input.FirstName,
			LastName:      input.LastName,
			PasswordHash:  passwordHash,
			IsActive:      true,
			EmailVerified: false,
			Role:          entity.RoleUser,
			OTP:           otp,
			OTPExpires:    &otpExpires,
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return err
		}

		account := &entity.Account{
			UserID:     newUser.ID,
			Provider:   entity.ProviderTypeEmail,
			ProviderID: email,
		}
		if err := accountRepo.Create(ctx, account); err != nil {
			return err
		}

		registeredUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Registration transaction failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	// Mail delivery must not undo the committed registration; the user can
	// always ask for a new code.
	if err := srv.mailer.SendOTPEmail(ctx, registeredUser.Email, registeredUser.FirstName, otp); err != nil {
		srv.log(ctx).Error("Failed to send verification email", slog.Any("userID", registeredUser.ID), slog.Any("error", err))
	}

	session, err := srv.sessionStore.Create(ctx, registeredUser.ID)
	if err != nil {
		return nil, domainerrors.ErrSessionStoreUnavailable.WrapMessage("failed to create session")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registeredUser.ID))

	return &usecase.AuthOutput{User: registeredUser.Safe(), SessionID: session.ID}, nil
}

// Login verifies a local credential and opens a session. Every credential
// failure maps to the same generic error.
func (srv *authService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthOutput, error) {
	email := entity.NormalizeEmail(input.Email)

	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrInvalidCredentials.WrapMessage("unknown email")
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, domainerrors.ErrInvalidCredentials.WrapMessage("password mismatch")
	}

	if !user.IsActive {
		return nil, domainerrors.ErrUserInactive.WrapMessage("account deactivated")
	}

	now := time.Now()
	user.LastLogin = &now
	if err := srv.userRepo.Update(ctx, user); err != nil {
		srv.log(ctx).Warn("Failed to record last login", slog.Any("userID", user.ID), slog.Any("error", err))
	}

	session, err := srv.sessionStore.Create(ctx, user.ID)
	if err != nil {
		return nil, domainerrors.ErrSessionStoreUnavailable.WrapMessage("failed to create session")
	}

	srv.log(ctx).Info("Login succeeded", slog.Any("userID", user.ID))

	return &usecase.AuthOutput{User: user.Safe(), SessionID: session.ID}, nil
}

// Logout destroys the server-side session. Destroying an unknown session is
// a no-op so the operation is idempotent.
func (srv *authService) Logout(ctx context.Context, sessionID string) error {
	if err := srv.sessionStore.Destroy(ctx, sessionID); err != nil {
		return domainerrors.ErrSessionStoreUnavailable.WrapMessage("failed to destroy session")
	}

	return nil
}

// CurrentUser returns the safe projection of the session's user.
func (srv *authService) CurrentUser(ctx context.Context, userID uuid.UUID) (*entity.SafeUser, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("session user no longer exists")
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	return user.Safe(), nil
}

// BeginGoogleLogin returns the provider consent URL with a fresh state.
func (srv *authService) BeginGoogleLogin(ctx context.Context) (string, error) {
	state := srv.oauthService.GenerateState()
	authURL := srv.oauthService.BuildAuthorizationURL(state)

	srv.log(ctx).Debug("Issued OAuth authorization URL", slog.String("provider", string(srv.oauthService.Provider())))

	return authURL, nil
}

// CompleteGoogleLogin finishes the code flow: state check, code exchange,
// find-or-create with account linking, then session.
func (srv *authService) CompleteGoogleLogin(ctx context.Context, state, code string) (*usecase.AuthOutput, error) {
	if !srv.oauthService.ValidateState(state) {
		return nil, domainerrors.ErrOAuthStateInvalid.WrapMessage("state missing, expired, or replayed")
	}

	profile, err := srv.oauthService.ExchangeCode(ctx, code)
	if err != nil {
		srv.log(ctx).Error("OAuth code exchange failed", slog.Any("error", err))

		return nil, domainerrors.ErrOAuthFailed.WrapMessage("code exchange failed")
	}

	if profile.ID == "" || profile.Email == "" {
		return nil, domainerrors.ErrOAuthProfileIncomplete.WrapMessage("provider profile missing id or email")
	}

	user, err := srv.loginOrCreateOAuthUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, domainerrors.ErrUserInactive.WrapMessage("account deactivated")
	}

	session, err := srv.sessionStore.Create(ctx, user.ID)
	if err != nil {
		return nil, domainerrors.ErrSessionStoreUnavailable.WrapMessage("failed to create session")
	}

	srv.log(ctx).Info("OAuth login succeeded", slog.Any("userID", user.ID), slog.String("provider", string(profile.Provider)))

	return &usecase.AuthOutput{User: user.Safe(), SessionID: session.ID}, nil
}

// loginOrCreateOAuthUser resolves the provider profile to a local user inside
// one transaction. Three cases: the credential already exists, the email
// belongs to an existing user (link a new credential), or the user is new.
func (srv *authService) loginOrCreateOAuthUser(ctx context.Context, profile *service.OAuthUser) (*entity.User, error) {
	email := entity.NormalizeEmail(profile.Email)
	now := time.Now()

	var resolved *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		accountRepo := repoFactory.AccountRepo()

		account, err := accountRepo.Find(ctx, profile.Provider, profile.ID)
		switch {
		case err == nil:
			resolved, err = userRepo.FindByID(ctx, account.UserID)
			if err != nil {
				return errors.Wrap(err, "failed to load user for existing credential")
			}
		case errors.Is(err, repository.ErrAccountNotFound):
			resolved, err = srv.linkOrCreateByEmail(ctx, userRepo, accountRepo, profile, email)
			if err != nil {
				return err
			}
		default:
			return errors.Wrap(err, "failed to find provider credential")
		}

		// A trusted provider login verifies the email and counts as a login.
		resolved.EmailVerified = true
		resolved.LastLogin = &now
		if resolved.ProfilePicture == "" {
			resolved.ProfilePicture = profile.Picture
		}

		return userRepo.Update(ctx, resolved)
	})
	if err != nil {
		srv.log(ctx).Error("OAuth login transaction failed", slog.String("email", email), slog.Any("error", err))

		return nil, err
	}

	return resolved, nil
}

func (srv *authService) linkOrCreateByEmail(
	ctx context.Context,
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	profile *service.OAuthUser,
	email string,
) (*entity.User, error) {
	user, err := userRepo.FindByEmail(ctx, email)
	if err == nil {
		// Returning local user, first social login: link the credential.
		account := &entity.Account{
			UserID:     user.ID,
			Provider:   profile.Provider,
			ProviderID: profile.ID,
		}
		if err := accountRepo.Create(ctx, account); err != nil {
			return nil, err
		}

		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to find user by email")
	}

	newUser := &entity.User{
		Email:          email,
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		ProfilePicture: profile.Picture,
		IsActive:       true,
		EmailVerified:  profile.EmailVerified,
		Role:           entity.RoleUser,
	}
	if err := userRepo.Create(ctx, newUser); err != nil {
		return nil, err
	}

	account := &entity.Account{
		UserID:     newUser.ID,
		Provider:   profile.Provider,
		ProviderID: profile.ID,
	}
	if err := accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return newUser, nil
}
