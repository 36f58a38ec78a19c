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

// accountRepository implements the domain.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Create persists a new provider credential. The unique (provider, providerID)
// index is the authoritative duplicate guard.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("provider credential already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserCreationFailed.WrapMessage("invalid user reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	account.ID = accountM.ID
	account.CreatedAt = accountM.CreatedAt

	return nil
}

// Find retrieves an account by its provider and provider-specific ID.
func (repo *accountRepository) Find(ctx context.Context, provider entity.ProviderType, providerID string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("provider = ? AND provider_id = ?", string(provider), providerID).
		First(&accountM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "failed to find account")
	}

	return toAccountDomain(&accountM), nil
}

// ListByUserID retrieves all accounts linked to a user.
func (repo *accountRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Account, error) {
	var accountMs []model.AccountModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&accountMs).Error

	if err != nil {
		return nil, errors.Wrap(err, "failed to list accounts by user id")
	}

	accounts := make([]*entity.Account, 0, len(accountMs))
	for i := range accountMs {
		accounts = append(accounts, toAccountDomain(&accountMs[i]))
	}

	return accounts, nil
}

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:         data.ID,
		UserID:     data.UserID,
		Provider:   entity.ProviderType(data.Provider),
		ProviderID: data.ProviderID,
		CreatedAt:  data.CreatedAt,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:         data.ID,
		UserID:     data.UserID,
		Provider:   string(data.Provider),
		ProviderID: data.ProviderID,
	}
}
