package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassifier_Classify(t *testing.T) {
	classifier := NewErrorClassifier()

	tests := []struct {
		name     string
		err      error
		expected ErrorType
	}{
		{
			name:     "postgres duplicate key",
			err:      errors.New(`duplicate key value violates unique constraint "idx_customers_email"`),
			expected: DuplicateKeyError,
		},
		{
			name:     "sqlite unique constraint",
			err:      errors.New("UNIQUE constraint failed: customers.email"),
			expected: DuplicateKeyError,
		},
		{
			name:     "deadlock",
			err:      errors.New("deadlock detected"),
			expected: LockError,
		},
		{
			name:     "sqlite busy",
			err:      errors.New("database is locked"),
			expected: LockError,
		},
		{
			name:     "serialization failure",
			err:      errors.New("could not serialize access due to concurrent update"),
			expected: LockError,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			expected: ConnectionError,
		},
		{
			name:     "foreign key violation",
			err:      errors.New("insert violates foreign key constraint"),
			expected: ConstraintError,
		},
		{
			name:     "not null violation",
			err:      errors.New("NOT NULL constraint failed: customers.name"),
			expected: ConstraintError,
		},
		{
			name:     "unclassified",
			err:      errors.New("something unusual happened"),
			expected: ErrorType(""),
		},
		{
			name:     "nil error",
			err:      nil,
			expected: ErrorType(""),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifier.Classify(tt.err))
		})
	}
}

func TestErrorClassifier_ConstraintIncludesDuplicates(t *testing.T) {
	classifier := NewErrorClassifier()
	err := errors.New("UNIQUE constraint failed: customers.email")

	assert.True(t, classifier.IsDuplicateKeyError(err))
	assert.True(t, classifier.IsConstraintError(err))
	// Duplicate wins in classification order
	assert.Equal(t, DuplicateKeyError, classifier.Classify(err))
}
