package impl

import (
	"context"
	"crypto/subtle"
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

// verificationService implements the VerificationUsecase interface.
type verificationService struct {
	userRepo     repository.UserRepository
	otpGenerator service.OTPGenerator
	mailer       service.Mailer
	logger       *slog.Logger
}

// VerificationServiceParams holds dependencies for verificationService, injected by Fx.
type VerificationServiceParams struct {
	fx.In

	UserRepo     repository.UserRepository
	OTPGenerator service.OTPGenerator
	Mailer       service.Mailer
	Logger       *slog.Logger
}

// NewVerificationService is the constructor for verificationService.
func NewVerificationService(params VerificationServiceParams) usecase.VerificationUsecase {
	return &verificationService{
		userRepo:     params.UserRepo,
		otpGenerator: params.OTPGenerator,
		mailer:       params.Mailer,
		logger:       params.Logger,
	}
}

func (srv *verificationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// VerifyEmail checks the submitted code. Failure order: no code issued,
// expired, mismatch. On success the code is cleared so it is single-use.
func (srv *verificationService) VerifyEmail(ctx context.Context, userID uuid.UUID, otp string) (*entity.SafeUser, error) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("user not found for verification")
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	if user.EmailVerified {
		return user.Safe(), nil
	}

	if user.OTP == "" || user.OTPExpires == nil {
		return nil, domainerrors.ErrOTPNotIssued.WrapMessage("no verification code on record")
	}

	// Expiry boundary is inclusive: a code presented exactly at its expiry
	// instant is already dead.
	if !time.Now().Before(*user.OTPExpires) {
		return nil, domainerrors.ErrOTPExpired.WrapMessage("verification code expired")
	}

	if subtle.ConstantTimeCompare([]byte(user.OTP), []byte(otp)) != 1 {
		return nil, domainerrors.ErrOTPMismatch.WrapMessage("verification code mismatch")
	}

	user.EmailVerified = true
	user.OTP = ""
	user.OTPExpires = nil
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Email verified", slog.Any("userID", user.ID))

	return user.Safe(), nil
}

// ResendOTP issues a fresh code, replacing any outstanding one. Verified
// users get a silent no-op so the response gives nothing away.
func (srv *verificationService) ResendOTP(ctx context.Context, userID uuid.UUID) error {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domainerrors.ErrUserNotFound.WrapMessage("user not found for resend")
		}

		return errors.Wrap(err, "failed to find user by id")
	}

	if user.EmailVerified {
		return nil
	}

	otp, otpExpires, err := srv.otpGenerator.Generate()
	if err != nil {
		return errors.Wrap(err, "failed to generate verification code")
	}

	user.OTP = otp
	user.OTPExpires = &otpExpires
	if err := srv.userRepo.Update(ctx, user); err != nil {
		return err
	}

	if err := srv.mailer.SendOTPEmail(ctx, user.Email, user.FirstName, otp); err != nil {
		srv.log(ctx).Error("Failed to send verification email", slog.Any("userID", user.ID), slog.Any("error", err))

		return domainerrors.ErrEmailSendFailed.WrapMessage("failed to send verification email")
	}

	srv.log(ctx).Debug("Verification code reissued", slog.Any("userID", user.ID))

	return nil
}
