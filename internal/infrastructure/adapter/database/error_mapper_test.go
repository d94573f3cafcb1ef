package database

import (
	"errors"
	"testing"

	errs "github.com/datatide/relstore/internal/domain/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestErrorMapper_Map(t *testing.T) {
	mapper := NewErrorMapper()

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, mapper.Map("insert", nil))
	})

	t.Run("record not found becomes domain not found", func(t *testing.T) {
		err := mapper.Map("find", gorm.ErrRecordNotFound)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("other engine errors become persistence errors", func(t *testing.T) {
		cause := errors.New("UNIQUE constraint failed: customers.email")
		err := mapper.Map("insert", cause)

		require.True(t, errs.IsPersistenceError(err))
		assert.ErrorIs(t, err, cause)

		var pe *errs.PersistenceError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "insert", pe.Op)
	})
}

func TestErrorMapper_Fields(t *testing.T) {
	mapper := NewErrorMapper()

	t.Run("classified error carries its class", func(t *testing.T) {
		fields := mapper.Fields(errors.New("database is locked"))
		assert.Equal(t, "database is locked", fields["error"])
		assert.Equal(t, "lock", fields["class"])
	})

	t.Run("unclassified error has no class field", func(t *testing.T) {
		fields := mapper.Fields(errors.New("weird failure"))
		assert.Equal(t, "weird failure", fields["error"])
		_, present := fields["class"]
		assert.False(t, present)
	})
}
