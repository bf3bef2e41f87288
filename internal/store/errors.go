package store

import (
	"errors"
	"fmt"
)

// Error kinds shared by the memory and postgres implementations.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity covers entities rejected before a write and rows that
	// no longer satisfy domain invariants when read back.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or is aborted by the server.
	ErrTransactionFailed = errors.New("transaction failed")

	ErrProductNotFound = fmt.Errorf("%w: product", ErrNotFound)
	ErrProductExists   = fmt.Errorf("%w: product", ErrDuplicate)
)

// StoreError adds the entity and operation to a store failure.
type StoreError struct {
	Entity    string // "cart", "product", "revocation"
	Operation string // "get", "save", ...
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
	}
	return fmt.Sprintf("%s operation on %s failed: %s: %v", e.Operation, e.Entity, e.Message, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}
