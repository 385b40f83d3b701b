package services

import (
	"errors"
	"fmt"
)

// Sentinel errors for the purchase flow. Handlers map these onto HTTP
// statuses; every failure message tells the user whether money moved.
var (
	// ErrInsufficientFunds - wallet balance below price, ledger untouched
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// ErrServiceUnavailable - provider not configured or unreachable
	ErrServiceUnavailable = errors.New("service temporarily unavailable")

	// ErrPurchaseFailed - provider declined the purchase, wallet refunded
	ErrPurchaseFailed = errors.New("purchase failed")

	// ErrWalletNotFound - wallet missing for an operation that requires one
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrNotFound - generic record not found (plan, schedule, gift...)
	ErrNotFound = errors.New("record not found")
)

// ValidationError carries per-field messages for bad input. Raised before
// any ledger touch.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return fmt.Sprintf("%s: %s", field, msg)
	}
	return "validation failed"
}

// NewValidationError builds a single-field validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
