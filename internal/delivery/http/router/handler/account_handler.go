// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"roster/internal/delivery/http/response"
	"roster/internal/domain/entity"
	"roster/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AccountResponse is the transport representation of an account.
// The password hash never leaves the service.
type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"isActive"`
	CreatedOn time.Time `json:"createdOn"`
}

func toAccountResponse(account *entity.Account) *AccountResponse {
	if account == nil {
		return nil
	}

	return &AccountResponse{
		ID:        account.ID,
		Username:  account.Username,
		Email:     account.Email,
		IsActive:  account.IsActive,
		CreatedOn: account.CreatedOn,
	}
}

// AccountHandler holds dependencies for account-related handlers.
type AccountHandler struct {
	uc     usecase.AccountUsecase
	logger *slog.Logger
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{
		uc:     uc,
		logger: logger,
	}
}

// Register handles the account registration request.
func (h *AccountHandler) Register(c echo.Context) error {
	var input *usecase.RegisterInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	account, err := h.uc.Register(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toAccountResponse(account), "Account registered successfully")
}

// List handles the request for every account.
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.uc.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	resp := make([]*AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, toAccountResponse(account))
	}

	return response.Success(c, http.StatusOK, resp, "Accounts retrieved successfully")
}

// GetByEmail handles the lookup of a single account by email.
func (h *AccountHandler) GetByEmail(c echo.Context) error {
	account, err := h.uc.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountResponse(account), "Account retrieved successfully")
}

// Update handles the account update request.
func (h *AccountHandler) Update(c echo.Context) error {
	var input usecase.UpdateInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid update input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	account, err := h.uc.UpdateByEmail(c.Request().Context(), c.Param("email"), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountResponse(account), "Account updated successfully")
}

// Delete handles the account removal request.
func (h *AccountHandler) Delete(c echo.Context) error {
	if err := h.uc.DeleteByEmail(c.Request().Context(), c.Param("email")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Account deleted successfully")
}

// Login handles the authentication request.
// Failed logins carry no hint of whether the email is registered.
func (h *AccountHandler) Login(c echo.Context) error {
	var input *usecase.LoginInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(input); err != nil {
		return errors.WithStack(err)
	}

	account, err := h.uc.Authenticate(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toAccountResponse(account), "Login successful")
}
