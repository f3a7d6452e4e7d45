package service

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is matched by every FieldError.
var ErrInvalidInput = errors.New("invalid input")

// FieldError reports a rejected input field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, message string) error {
	return &FieldError{Field: field, Message: message}
}

func requireNonNegative(field string, value decimal.Decimal) error {
	if value.IsNegative() {
		return invalid(field, "must not be negative")
	}
	return nil
}

func requirePositive(field string, value decimal.Decimal) error {
	if !value.IsPositive() {
		return invalid(field, "must be greater than zero")
	}
	return nil
}

func requireOneOf(field, value string, allowed []string) error {
	if !slices.Contains(allowed, value) {
		return invalid(field, "is not a supported value")
	}
	return nil
}
