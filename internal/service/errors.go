package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/storefront-api/internal/domain"
)

// ServiceError wraps an infrastructure failure with the operation that hit it.
// Domain errors are never wrapped in a ServiceError; they reach the caller
// unchanged so the API layer can classify them with errors.Is.
type ServiceError struct {
	// Service names the component, e.g. "cart" or "product".
	Service string
	// Operation is the operation that failed (e.g., "add_item", "update_product")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// CartServiceError is the ServiceError returned by the cart service.
type CartServiceError = ServiceError

// domainKinds are returned as-is by wrapServiceError.
var domainKinds = []error{
	domain.ErrUnauthenticated,
	domain.ErrUnauthorized,
	domain.ErrForbidden,
	domain.ErrNotFound,
	domain.ErrInvalidArgument,
}

// wrapServiceError returns err unchanged when it already carries a domain
// kind, and a *ServiceError otherwise.
func wrapServiceError(service, operation, message string, err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range domainKinds {
		if errors.Is(err, kind) {
			return err
		}
	}
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// NewCartServiceError wraps an infrastructure failure from the cart service.
func NewCartServiceError(operation, message string, err error) error {
	return wrapServiceError("cart", operation, message, err)
}

// NewProductServiceError wraps an infrastructure failure from the product service.
func NewProductServiceError(operation, message string, err error) error {
	return wrapServiceError("product", operation, message, err)
}
