package error

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for standardized API responses
const (
	// 4xxx - Caller errors
	CodeTransactionAlreadyOpen = 4001
	CodeNoActiveTransaction    = 4002
	CodeValidationFailed       = 4003
	CodeNotFound               = 4040
	CodeContextClosed          = 4100

	// 5xxx - Engine errors
	CodeTransactionFailed = 5001
	CodePersistenceFailed = 5002
	CodeInternalServer    = 5000
)

// Base error types
var (
	// ErrContextClosed is returned when an operation is attempted after the
	// persistence context has been released. The unit of work is unusable
	// from that point on.
	ErrContextClosed = errors.New("persistence context is closed")

	// ErrTransactionAlreadyOpen is returned when Begin is called while a
	// transaction is still open on the same unit of work
	ErrTransactionAlreadyOpen = errors.New("a transaction is already open")

	// ErrNoActiveTransaction is returned when Commit is called with no open transaction
	ErrNoActiveTransaction = errors.New("no active transaction")

	// ErrNotFound is returned when an identifier does not resolve to an entity
	ErrNotFound = errors.New("entity not found")

	// ErrInternalServer is returned for unexpected engine-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrTransactionAlreadyOpen):
		return CodeTransactionAlreadyOpen
	case errors.Is(err, ErrNoActiveTransaction):
		return CodeNoActiveTransaction
	case errors.Is(err, ErrContextClosed):
		return CodeContextClosed
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case IsValidationError(err):
		return CodeValidationFailed
	case IsTransactionError(err):
		return CodeTransactionFailed
	case IsPersistenceError(err):
		return CodePersistenceFailed
	default:
		return CodeInternalServer
	}
}

// TransactionError represents an engine-level failure while opening,
// committing or rolling back a transaction. The underlying cause is
// preserved and reachable through Unwrap.
type TransactionError struct {
	Op  string // "begin", "commit" or "rollback"
	Err error
}

// Error implements the error interface for TransactionError
func (e *TransactionError) Error() string {
	return fmt.Sprintf("failed to %s transaction: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *TransactionError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "transaction_error",
		"operation":  e.Op,
		"error":      e.Err.Error(),
		"error_code": CodeTransactionFailed,
	}
}

// NewTransactionError wraps an engine failure for the given transaction operation
func NewTransactionError(op string, err error) error {
	return &TransactionError{Op: op, Err: err}
}

// IsTransactionError checks if the error is a transaction-level engine failure
func IsTransactionError(err error) bool {
	var te *TransactionError
	return errors.As(err, &te)
}

// FieldViolation describes a single failed validation rule on one entity field
type FieldViolation struct {
	Entity  string // entity type name, e.g. "Customer"
	Field   string
	Message string
}

// ValidationError aggregates every validation failure found while flushing
// staged entities. The message lists, per failing entity, the entity type
// name and each field with its validation message, newline separated.
type ValidationError struct {
	Violations []FieldViolation
}

// Error implements the error interface for ValidationError
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "entity validation failed"
	}
	lines := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		lines = append(lines, fmt.Sprintf("%s: %s %s", v.Entity, v.Field, v.Message))
	}
	return "entity validation failed:\n" + strings.Join(lines, "\n")
}

// LogFields returns a map of fields for structured logging
func (e *ValidationError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "validation_error",
		"violations":  len(e.Violations),
		"error_code":  CodeValidationFailed,
		"description": e.Error(),
	}
}

// IsValidationError checks if the error is an aggregated validation failure
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// PersistenceError represents a generic engine rejection while staging or
// writing an entity, wrapping the underlying cause.
type PersistenceError struct {
	Op  string // e.g. "add", "update", "delete", "flush"
	Err error
}

// Error implements the error interface for PersistenceError
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence operation %q failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *PersistenceError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "persistence_error",
		"operation":  e.Op,
		"error":      e.Err.Error(),
		"error_code": CodePersistenceFailed,
	}
}

// NewPersistenceError wraps an engine rejection for the given repository operation
func NewPersistenceError(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistenceError checks if the error is a generic engine rejection
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
