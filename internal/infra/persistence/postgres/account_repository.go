package postgres

import (
	"context"

	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/domain/repository"
	"roster/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// accountRepository implements the repository.AccountRepository interface using GORM.
type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository is the constructor for accountRepository.
// It returns the repository as a repository.AccountRepository interface, adhering to dependency inversion.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

// Create persists a new account. The unique index on email makes the
// uniqueness check atomic: of two concurrent creates with the same email the
// database accepts exactly one, and the loser lands in the duplicate branch.
func (repo *accountRepository) Create(ctx context.Context, account *entity.Account) error {
	accountM := fromAccountDomain(account)

	if err := repo.db.WithContext(ctx).Create(accountM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrEmailTaken.WrapMessage("email already exists")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("missing required account information")
		}
		if isStorageUnavailable(err) {
			return domainerrors.ErrStorageUnavailable.WrapMessage("failed to create account")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create account")
	}

	// Carry the generated ID, timestamp and defaults back onto the entity.
	account.ID = accountM.ID
	account.IsActive = accountM.IsActive
	account.CreatedOn = accountM.CreatedOn

	return nil
}

// FindAll retrieves every account in insertion order.
func (repo *accountRepository) FindAll(ctx context.Context) ([]*entity.Account, error) {
	var accountMs []model.AccountModel
	if err := repo.db.WithContext(ctx).Order("created_on").Find(&accountMs).Error; err != nil {
		if isStorageUnavailable(err) {
			return nil, domainerrors.ErrStorageUnavailable.WrapMessage("failed to list accounts")
		}

		return nil, errors.Wrap(err, "failed to list accounts")
	}

	accounts := make([]*entity.Account, 0, len(accountMs))
	for i := range accountMs {
		accounts = append(accounts, toAccountDomain(&accountMs[i]))
	}

	return accounts, nil
}

// FindByEmail retrieves a single account by its normalized email.
// The uniqueness invariant guarantees at most one match.
func (repo *accountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	var accountM model.AccountModel
	err := repo.db.WithContext(ctx).Where("email = ?", email).First(&accountM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrAccountNotFound
		}
		if isStorageUnavailable(err) {
			return nil, domainerrors.ErrStorageUnavailable.WrapMessage("failed to find account by email")
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return toAccountDomain(&accountM), nil
}

// UpdateByEmail applies the given changes to the matching account.
// Only the columns named by the changes are touched, so created_on and
// password_hash stay as inserted.
func (repo *accountRepository) UpdateByEmail(ctx context.Context, email string, changes entity.AccountChanges) (*entity.Account, error) {
	updates := map[string]any{}
	if changes.Username != nil {
		updates["username"] = *changes.Username
	}
	if len(updates) == 0 {
		return repo.FindByEmail(ctx, email)
	}

	result := repo.db.WithContext(ctx).
		Model(&model.AccountModel{}).
		Where("email = ?", email).
		Updates(updates)
	if result.Error != nil {
		if isStorageUnavailable(result.Error) {
			return nil, domainerrors.ErrStorageUnavailable.WrapMessage("failed to update account")
		}

		return nil, domainerrors.NewDatabaseExecuteError(result.Error, "failed to update account")
	}
	if result.RowsAffected == 0 {
		return nil, repository.ErrAccountNotFound
	}

	return repo.FindByEmail(ctx, email)
}

// DeleteByEmail permanently removes the matching account (hard delete).
func (repo *accountRepository) DeleteByEmail(ctx context.Context, email string) error {
	result := repo.db.WithContext(ctx).Where("email = ?", email).Delete(&model.AccountModel{})
	if result.Error != nil {
		if isStorageUnavailable(result.Error) {
			return domainerrors.ErrStorageUnavailable.WrapMessage("failed to delete account")
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete account")
	}
	if result.RowsAffected == 0 {
		return repository.ErrAccountNotFound
	}

	return nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toAccountDomain converts a GORM AccountModel to a domain Account entity.
func toAccountDomain(data *model.AccountModel) *entity.Account {
	if data == nil {
		return nil
	}

	return &entity.Account{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		IsActive:     data.IsActive,
		CreatedOn:    data.CreatedOn,
	}
}

// fromAccountDomain converts a domain Account entity to a GORM AccountModel for persistence.
func fromAccountDomain(data *entity.Account) *model.AccountModel {
	if data == nil {
		return nil
	}

	return &model.AccountModel{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		IsActive:     data.IsActive,
		CreatedOn:    data.CreatedOn,
	}
}
