package usecase

import (
	"errors"
	"fmt"

	"travel-agency/pkg/utils"

	"github.com/google/uuid"
)

// Error classes returned by services. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrPayment      = errors.New("payment processor error")
)

// ValidationError keeps the per-field messages so handlers can return them.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, utils.FormatValidationErrors(e.Fields))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// validate runs struct validation and returns a *ValidationError on failure.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func fieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func notFound(what string, id any) error {
	return fmt.Errorf("%s %v %w", what, id, ErrNotFound)
}

// parseUUID parses an identifier taken from the path or body of a request.
func parseUUID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fieldError(field, "Must be a valid UUID")
	}
	return id, nil
}
