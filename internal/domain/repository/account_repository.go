// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"roster/internal/domain/entity"
)

// ErrAccountNotFound is a domain-specific error returned when no account matches the given email.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// The application layer will depend on this interface, not the concrete implementation.
// Email arguments are expected to be normalized by the caller.
type AccountRepository interface {
	// Create persists a new account entity to the storage. Uniqueness of the
	// email is enforced atomically by the storage: of two concurrent creates
	// with the same email, exactly one succeeds.
	Create(ctx context.Context, account *entity.Account) error

	// FindAll retrieves every account, in insertion order.
	FindAll(ctx context.Context) ([]*entity.Account, error)

	// FindByEmail retrieves a single account by its normalized email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)

	// UpdateByEmail applies the given changes to the account matching email
	// and returns the updated account.
	UpdateByEmail(ctx context.Context, email string, changes entity.AccountChanges) (*entity.Account, error)

	// DeleteByEmail permanently removes the account matching email.
	DeleteByEmail(ctx context.Context, email string) error
}
