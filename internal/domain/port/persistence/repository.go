package persistence

import (
	"context"
)

// Filter narrows a list query to the entities matching a condition. Query is
// a parameterized condition understood by the persistence engine (for the
// GORM adapter, a WHERE clause such as "active = ?") and Args carries its
// bind parameters.
type Filter struct {
	Query string
	Args  []any
}

// NewFilter creates a filter from a condition and its bind parameters
func NewFilter(query string, args ...any) *Filter {
	return &Filter{Query: query, Args: args}
}

// Repository exposes generic CRUD operations over a persisted entity
// collection of type T addressed by identifiers of type K. A repository is a
// conduit: reads go straight to the store through the owning unit of work's
// persistence context, while Add/Update/Delete only stage changes — nothing
// is written until the owning unit of work commits.
//
// Every operation consults the owner's context guard before touching the
// engine; once the owning unit of work is closed all operations fail with
// ErrContextClosed.
type Repository[K comparable, T any] interface {
	// FindByID retrieves the entity matching the identifier. Absence is not
	// an error: it returns (nil, nil) when no entity matches.
	FindByID(ctx context.Context, id K) (*T, error)

	// GetAll returns all entities of type T in store order
	GetAll(ctx context.Context) ([]*T, error)

	// List returns the entities satisfying the filter. A nil filter behaves
	// like GetAll.
	List(ctx context.Context, filter *Filter) ([]*T, error)

	// ListIncluding behaves like List and additionally eager-loads each named
	// related association for every returned entity, avoiding deferred
	// per-entity fetches. With no relations it is identical to List.
	ListIncluding(ctx context.Context, filter *Filter, relations ...string) ([]*T, error)

	// Add stages the entity for insertion. The write happens when the owning
	// unit of work commits.
	Add(ctx context.Context, entity *T) error

	// Update stages the entity as fully modified: every field is written on
	// flush, not just the changed ones.
	Update(ctx context.Context, entity *T) error

	// Delete resolves the identifier and stages the entity for removal.
	// It returns ErrNotFound when the identifier resolves to nothing.
	Delete(ctx context.Context, id K) error
}
