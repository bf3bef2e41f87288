package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the core wraps exactly one of these,
// so callers classify failures with errors.Is.
var (
	// ErrUnauthenticated is returned when no credential, or an invalid one, was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUnauthorized is returned when an operation needs a principal and none is present.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the principal lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound is returned when a product, category or cart item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned when an input is malformed or out of range.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Specific errors, each wrapping one of the kinds above.
var (
	ErrMissingCredential = fmt.Errorf("%w: missing or malformed credential", ErrUnauthenticated)
	ErrInvalidCredential = fmt.Errorf("%w: invalid or expired credential", ErrUnauthenticated)

	ErrAuthenticationRequired = fmt.Errorf("%w: authentication required", ErrUnauthorized)
	ErrAdminRequired          = fmt.Errorf("%w: admin role required", ErrForbidden)
	ErrSecretAccessDenied     = fmt.Errorf("%w: access denied to secret product data", ErrForbidden)

	ErrUnknownProduct   = fmt.Errorf("%w: unknown product", ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("%w: product not found", ErrNotFound)
	ErrItemNotInCart    = fmt.Errorf("%w: item not in cart", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("%w: category", ErrNotFound)

	ErrQuantityOutOfRange = fmt.Errorf("%w: quantity out of range", ErrInvalidArgument)
	ErrInvalidProductID   = fmt.Errorf("%w: invalid product id", ErrInvalidArgument)
	ErrCategoryRequired   = fmt.Errorf("%w: category name required", ErrInvalidArgument)
)

// ValidationError describes a single invalid field. It wraps ErrInvalidArgument
// unless a more specific error is supplied.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap supports errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidArgument
	}
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{Field: field, Message: message, Err: err}
}
