// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"roster/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to register a new account.
type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateInput defines the caller-supplied changes for an account update.
type UpdateInput struct {
	Username string `json:"username" validate:"required"`
}

// LoginInput defines the data required to authenticate.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccountUsecase defines the interface for account-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AccountUsecase interface {
	// Register creates a new account with a hashed password.
	Register(ctx context.Context, input *RegisterInput) (*entity.Account, error)

	// List returns every account, in insertion order.
	List(ctx context.Context) ([]*entity.Account, error)

	// GetByEmail returns the account matching the normalized email.
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)

	// UpdateByEmail applies the caller-supplied changes to the matching account.
	UpdateByEmail(ctx context.Context, email string, input *UpdateInput) (*entity.Account, error)

	// DeleteByEmail permanently removes the matching account.
	DeleteByEmail(ctx context.Context, email string) error

	// Authenticate verifies the password for the account matching the email.
	// Unknown email and wrong password fail identically.
	Authenticate(ctx context.Context, input *LoginInput) (*entity.Account, error)
}
