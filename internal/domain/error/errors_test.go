package error

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"transaction already open", ErrTransactionAlreadyOpen, CodeTransactionAlreadyOpen},
		{"no active transaction", ErrNoActiveTransaction, CodeNoActiveTransaction},
		{"context closed", ErrContextClosed, CodeContextClosed},
		{"not found", ErrNotFound, CodeNotFound},
		{"validation", &ValidationError{}, CodeValidationFailed},
		{"transaction failure", NewTransactionError("commit", errors.New("boom")), CodeTransactionFailed},
		{"persistence failure", NewPersistenceError("insert", errors.New("boom")), CodePersistenceFailed},
		{"unknown", errors.New("anything else"), CodeInternalServer},
		{"wrapped sentinel", fmt.Errorf("outer: %w", ErrNotFound), CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorCode(tt.err))
		})
	}
}

func TestTransactionError(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewTransactionError("commit", cause)

	assert.Equal(t, "failed to commit transaction: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsTransactionError(err))
	assert.False(t, IsTransactionError(cause))

	var te *TransactionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "commit", te.Op)
	assert.Equal(t, CodeTransactionFailed, te.LogFields()["error_code"])
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewPersistenceError("insert", cause)

	assert.Equal(t, `persistence operation "insert" failed: disk full`, err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsPersistenceError(err))
	assert.False(t, IsPersistenceError(ErrNotFound))
}

func TestValidationError_MessageAggregation(t *testing.T) {
	err := &ValidationError{Violations: []FieldViolation{
		{Entity: "Customer", Field: "Name", Message: "is required"},
		{Entity: "Customer", Field: "Email", Message: "must be a valid email address"},
	}}

	expected := "entity validation failed:\n" +
		"Customer: Name is required\n" +
		"Customer: Email must be a valid email address"
	assert.Equal(t, expected, err.Error())
	assert.True(t, IsValidationError(err))
	assert.Equal(t, 2, err.LogFields()["violations"])
}

func TestValidationError_EmptyViolations(t *testing.T) {
	err := &ValidationError{}
	assert.Equal(t, "entity validation failed", err.Error())
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("lookup: %w", ErrNotFound)))
	assert.False(t, IsNotFoundError(errors.New("other")))
	assert.False(t, IsNotFoundError(nil))
}
