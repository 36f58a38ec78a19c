package impl

import (
	"context"
	"log/slog"
	"time"

	"authpal/config"
	deliverycontext "authpal/internal/delivery/context"
	"authpal/internal/domain/entity"
	domainerrors "authpal/internal/domain/errors"
	"authpal/internal/domain/repository"
	"authpal/internal/domain/service"
	"authpal/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// passwordResetService implements the PasswordResetUsecase interface.
type passwordResetService struct {
	txManager      repository.TransactionManager
	userRepo       repository.UserRepository
	hasher         service.PasswordHasher
	tokenCodec     service.ResetTokenCodec
	sessionStore   service.SessionStore
	mailer         service.Mailer
	backendBaseURL string
	logger         *slog.Logger
}

// PasswordResetServiceParams holds dependencies for passwordResetService, injected by Fx.
type PasswordResetServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	Hasher       service.PasswordHasher
	TokenCodec   service.ResetTokenCodec
	SessionStore service.SessionStore
	Mailer       service.Mailer
	Config       *config.Config
	Logger       *slog.Logger
}

// NewPasswordResetService is the constructor for passwordResetService.
func NewPasswordResetService(params PasswordResetServiceParams) usecase.PasswordResetUsecase {
	backendBaseURL := ""
	if params.Config != nil && params.Config.URLs != nil {
		backendBaseURL = params.Config.URLs.BackendBaseURL
	}

	return &passwordResetService{
		txManager:      params.TxManager,
		userRepo:       params.UserRepo,
		hasher:         params.Hasher,
		tokenCodec:     params.TokenCodec,
		sessionStore:   params.SessionStore,
		mailer:         params.Mailer,
		backendBaseURL: backendBaseURL,
		logger:         params.Logger,
	}
}

func (srv *passwordResetService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RequestReset issues a reset token and emails the link. Unknown emails take
// the same path to the same generic outcome, so the endpoint cannot be used
// to probe which addresses are registered.
func (srv *passwordResetService) RequestReset(ctx context.Context, email string) error {
	normalized := entity.NormalizeEmail(email)

	user, err := srv.userRepo.FindByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			srv.log(ctx).Debug("Reset requested for unknown email")

			return nil
		}

		return errors.Wrap(err, "failed to find user by email")
	}

	raw, hash, expiresAt, err := srv.tokenCodec.Generate()
	if err != nil {
		return errors.Wrap(err, "failed to generate reset token")
	}

	user.PasswordResetTokenHash = hash
	user.PasswordResetExpires = &expiresAt
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return err
	}

	resetURL := srv.backendBaseURL + "/auth/reset-password/" + raw
	if err := srv.mailer.SendPasswordResetEmail(ctx, user.Email, user.FirstName, resetURL); err != nil {
		// Still a generic success for the caller; the user can re-request.
		srv.log(ctx).Error("Failed to send reset email", slog.Any("userID", user.ID), slog.Any("error", err))

		return nil
	}

	srv.log(ctx).Info("Reset link issued", slog.Any("userID", user.ID))

	return nil
}

// ConsumeResetLink validates the emailed token and rotates it: a fresh token
// replaces the stored hash, so the emailed link can never be replayed.
func (srv *passwordResetService) ConsumeResetLink(ctx context.Context, rawToken string) (*usecase.ResetLinkOutput, error) {
	user, err := srv.findUserByLiveToken(ctx, rawToken, domainerrors.ErrResetTokenInvalid)
	if err != nil {
		return nil, err
	}

	newRaw, newHash, newExpires, err := srv.tokenCodec.Generate()
	if err != nil {
		return nil, errors.Wrap(err, "failed to rotate reset token")
	}

	user.PasswordResetTokenHash = newHash
	user.PasswordResetExpires = &newExpires
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Reset link consumed", slog.Any("userID", user.ID))

	return &usecase.ResetLinkOutput{
		SessionToken: newRaw,
		Email:        user.Email,
		ExpiresAt:    newExpires,
	}, nil
}

// ResetPassword validates the rotated token, writes the new password, wipes
// all reset state, and revokes every live session of the user.
func (srv *passwordResetService) ResetPassword(ctx context.Context, rawToken, newPassword string) error {
	if err := srv.hasher.ValidatePasswordStrength(newPassword); err != nil {
		return domainerrors.ErrPasswordStrength.WrapMessage(err.Error())
	}

	user, err := srv.findUserByLiveToken(ctx, rawToken, domainerrors.ErrResetSessionExpired)
	if err != nil {
		return err
	}

	passwordHash, err := srv.hasher.Hash(newPassword)
	if err != nil {
		return domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		accountRepo := repoFactory.AccountRepo()

		user.PasswordHash = passwordHash
		user.PasswordResetTokenHash = ""
		user.PasswordResetExpires = nil
		if err := userRepo.Update(ctx, user); err != nil {
			return err
		}

		// A social-only user who completes a reset gains a local credential.
		return srv.ensureEmailAccount(ctx, accountRepo, user)
	})
	if err != nil {
		return err
	}

	if destroyed, err := srv.sessionStore.DestroyAllForUser(ctx, user.ID, ""); err != nil {
		srv.log(ctx).Warn("Failed to revoke sessions after reset", slog.Any("userID", user.ID), slog.Any("error", err))
	} else if destroyed > 0 {
		srv.log(ctx).Info("Sessions revoked after reset", slog.Any("userID", user.ID), slog.Int("count", destroyed))
	}

	srv.log(ctx).Info("Password reset completed", slog.Any("userID", user.ID))

	return nil
}

// findUserByLiveToken resolves a raw token to its user, enforcing strict
// expiry. Invalid and expired tokens map to the same caller-supplied error.
func (srv *passwordResetService) findUserByLiveToken(ctx context.Context, rawToken string, failure *domainerrors.BaseError) (*entity.User, error) {
	if rawToken == "" {
		return nil, failure.WrapMessage("empty reset token")
	}

	hash := srv.tokenCodec.HashToken(rawToken)
	user, err := srv.userRepo.FindByResetTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, failure.WrapMessage("reset token not recognized")
		}

		return nil, errors.Wrap(err, "failed to find user by reset token")
	}

	if user.PasswordResetExpires == nil || !user.PasswordResetExpires.After(time.Now()) {
		return nil, failure.WrapMessage("reset token expired")
	}

	return user, nil
}

func (srv *passwordResetService) ensureEmailAccount(ctx context.Context, accountRepo repository.AccountRepository, user *entity.User) error {
	_, err := accountRepo.Find(ctx, entity.ProviderTypeEmail, user.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrAccountNotFound) {
		return errors.Wrap(err, "failed to find email credential")
	}

	return accountRepo.Create(ctx, &entity.Account{
		UserID:     user.ID,
		Provider:   entity.ProviderTypeEmail,
		ProviderID: user.Email,
	})
}
