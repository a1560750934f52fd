// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"roster/internal/domain/entity"
	domainerrors "roster/internal/domain/errors"
	"roster/internal/domain/repository"
	"roster/internal/domain/service"
	"roster/internal/usecase"

	"github.com/pkg/errors"
)

// dummyHash is a bcrypt hash of a throwaway value. When authentication is
// asked about an email that has no account, one comparison still runs against
// this hash so the unknown-email path costs the same as a wrong password.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// accountService implements the AccountUsecase interface.
type accountService struct {
	repo   repository.AccountRepository
	hasher service.PasswordHasher
	logger *slog.Logger
}

// NewAccountService is the constructor for accountService. It receives all dependencies as interfaces.
func NewAccountService(
	repo repository.AccountRepository,
	hasher service.PasswordHasher,
	logger *slog.Logger,
) usecase.AccountUsecase {
	return &accountService{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

// Register orchestrates the complete account registration process.
func (srv *accountService) Register(ctx context.Context, input *usecase.RegisterInput) (*entity.Account, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("username is required")
	}

	srv.logger.Info("Starting account registration", "email", email)

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.logger.Error("Failed to hash password during registration", "error", err)

		return nil, errors.Wrap(err, "failed to hash password during registration")
	}

	newAccount := &entity.Account{
		Username:     input.Username,
		Email:        email,
		PasswordHash: hashedPassword,
		IsActive:     true,
	}

	// The repository relies on the storage's unique index, so a concurrent
	// duplicate registration surfaces here as ErrEmailTaken.
	if err := srv.repo.Create(ctx, newAccount); err != nil {
		srv.logger.Error("Failed to create account", "error", err, "email", email)

		return nil, errors.WithStack(err)
	}

	srv.logger.Debug("Account registered successfully", "accountID", newAccount.ID)

	return newAccount, nil
}

// List returns every account.
func (srv *accountService) List(ctx context.Context) ([]*entity.Account, error) {
	accounts, err := srv.repo.FindAll(ctx)
	if err != nil {
		srv.logger.Error("Failed to list accounts", "error", err)

		return nil, errors.Wrap(err, "failed to list accounts")
	}

	return accounts, nil
}

// GetByEmail returns the account matching the normalized email.
func (srv *accountService) GetByEmail(ctx context.Context, rawEmail string) (*entity.Account, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	account, err := srv.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("find account failed")
		}

		return nil, errors.Wrap(err, "failed to find account by email")
	}

	return account, nil
}

// UpdateByEmail applies the caller-supplied changes to the matching account.
func (srv *accountService) UpdateByEmail(ctx context.Context, rawEmail string, input *usecase.UpdateInput) (*entity.Account, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Username) == "" {
		return nil, domainerrors.ErrValidationFailed.WrapMessage("username is required")
	}

	changes := entity.AccountChanges{Username: &input.Username}

	account, err := srv.repo.UpdateByEmail(ctx, email, changes)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound.WrapMessage("update account failed")
		}
		srv.logger.Error("Failed to update account", "error", err, "email", email)

		return nil, errors.Wrap(err, "failed to update account")
	}

	srv.logger.Debug("Account updated", "accountID", account.ID)

	return account, nil
}

// DeleteByEmail permanently removes the matching account.
func (srv *accountService) DeleteByEmail(ctx context.Context, rawEmail string) error {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return err
	}

	if err := srv.repo.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return domainerrors.ErrAccountNotFound.WrapMessage("delete account failed")
		}
		srv.logger.Error("Failed to delete account", "error", err, "email", email)

		return errors.Wrap(err, "failed to delete account")
	}

	srv.logger.Info("Account deleted", "email", email)

	return nil
}

// Authenticate verifies the password for the account matching the email.
// Both failure modes return domainerrors.ErrInvalidCredentials with no
// distinguishing message, so the response never reveals whether the email
// is registered.
func (srv *accountService) Authenticate(ctx context.Context, input *usecase.LoginInput) (*entity.Account, error) {
	email, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	account, err := srv.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			// Burn a comparison so this path is as slow as a failed match.
			_, _ = srv.hasher.Check(input.Password, dummyHash)

			return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
		}
		srv.logger.Error("Failed to look up account during login", "error", err)

		return nil, errors.Wrap(err, "failed to look up account during login")
	}

	ok, err := srv.hasher.Check(input.Password, account.PasswordHash)
	if err != nil {
		srv.logger.Error("Stored credential could not be verified", "error", err, "accountID", account.ID)

		return nil, errors.Wrap(err, "failed to verify password")
	}
	if !ok {
		return nil, errors.WithStack(domainerrors.ErrInvalidCredentials)
	}

	srv.logger.Debug("Login successful", "accountID", account.ID)

	return account, nil
}

// normalizeEmail canonicalizes an email address for storage and lookup:
// trimmed, lower-cased, and syntactically valid as a bare address.
func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domainerrors.ErrValidationFailed.WrapMessage("email is required")
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", domainerrors.ErrValidationFailed.WrapMessage("email is not a valid address")
	}

	return email, nil
}
