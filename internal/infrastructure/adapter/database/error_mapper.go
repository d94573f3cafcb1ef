package database

import (
	"errors"

	errs "github.com/datatide/relstore/internal/domain/error"
	"github.com/datatide/relstore/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// ErrorMapper translates engine errors into the domain taxonomy
type ErrorMapper struct {
	classifier *repository.ErrorClassifier
}

// NewErrorMapper creates a new ErrorMapper
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{
		classifier: repository.NewErrorClassifier(),
	}
}

// Map maps an engine error raised by the given operation to a domain error.
// The original cause stays reachable through errors.Unwrap.
func (m *ErrorMapper) Map(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrNotFound
	}
	return errs.NewPersistenceError(op, err)
}

// Fields returns structured log fields describing an engine error,
// including its classification when one applies
func (m *ErrorMapper) Fields(err error) map[string]any {
	fields := map[string]any{
		"error": err.Error(),
	}
	if class := m.classifier.Classify(err); class != "" {
		fields["class"] = string(class)
	}
	return fields
}
