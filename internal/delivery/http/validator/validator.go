// Package validator adapts go-playground/validator to echo's Validator hook.
package validator

import (
	playgroundvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	domainerrors "roster/internal/domain/errors"
)

type requestValidator struct {
	validate *playgroundvalidator.Validate
}

// New creates the echo.Validator used for request DTOs.
func New() echo.Validator {
	return &requestValidator{
		validate: playgroundvalidator.New(playgroundvalidator.WithRequiredStructEnabled()),
	}
}

// Validate checks the struct tags on a bound request DTO.
// Failures surface as the domain validation error so the error middleware
// maps them to a 400 with the unified envelope.
func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
