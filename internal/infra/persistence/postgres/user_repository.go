// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"authpal/internal/domain/entity"
	domainerrors "authpal/internal/domain/errors"
	"authpal/internal/domain/repository"
	"authpal/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// userRepository implements the domain.UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain.UserRepository interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&userM).Error

	if err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// FindByEmail retrieves a single user by their normalized email address.
func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Where("email = ?", email).
		First(&userM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by email")
	}

	return toUserDomain(&userM), nil
}

// FindByResetTokenHash retrieves the user whose stored reset-token hash
// matches. Expiry is enforced by the caller, not here.
func (repo *userRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*entity.User, error) {
	var userM model.UserModel
	err := repo.db.WithContext(ctx).
		Where("password_reset_token_hash = ? AND password_reset_token_hash <> ''", tokenHash).
		First(&userM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by reset token hash")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity. The unique index on email is the
// authoritative duplicate guard.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update modifies an existing user entity in the database. Save writes every
// column, which is what the OTP and reset-token flows need to clear fields.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)
	userM.CreatedAt = user.CreatedAt

	if err := repo.db.WithContext(ctx).Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailAlreadyExists.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrUserUpdateFailed.WrapMessage("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:                     data.ID,
		Email:                  data.Email,
		FirstName:              data.FirstName,
		LastName:               data.LastName,
		PasswordHash:           data.PasswordHash,
		ProfilePicture:         data.ProfilePicture,
		IsActive:               data.IsActive,
		EmailVerified:          data.EmailVerified,
		Role:                   entity.Role(data.Role),
		LastLogin:              data.LastLogin,
		OTP:                    data.OTP,
		OTPExpires:             data.OTPExpires,
		PasswordResetTokenHash: data.PasswordResetTokenHash,
		PasswordResetExpires:   data.PasswordResetExpires,
		CreatedAt:              data.CreatedAt,
		UpdatedAt:              data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:                     data.ID,
		Email:                  data.Email,
		FirstName:              data.FirstName,
		LastName:               data.LastName,
		PasswordHash:           data.PasswordHash,
		ProfilePicture:         data.ProfilePicture,
		IsActive:               data.IsActive,
		EmailVerified:          data.EmailVerified,
		Role:                   data.Role.String(),
		LastLogin:              data.LastLogin,
		OTP:                    data.OTP,
		OTPExpires:             data.OTPExpires,
		PasswordResetTokenHash: data.PasswordResetTokenHash,
		PasswordResetExpires:   data.PasswordResetExpires,
	}
}
