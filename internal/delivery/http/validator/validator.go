// Package validator adapts go-playground/validator to Echo's Validator interface.
package validator

import (
	domainerrors "authpal/internal/domain/errors"

	playground "github.com/go-playground/validator/v10"
)

// EchoValidator wraps a validator instance for use as echo.Echo.Validator.
type EchoValidator struct {
	validate *playground.Validate
}

// New builds the request validator.
func New() *EchoValidator {
	return &EchoValidator{validate: playground.New(playground.WithRequiredStructEnabled())}
}

// Validate checks a bound request DTO against its `validate` tags.
func (v *EchoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
