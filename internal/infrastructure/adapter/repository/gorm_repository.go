package repository

import (
	"context"
	"errors"
	"fmt"

	errs "github.com/datatide/relstore/internal/domain/error"
	coreport "github.com/datatide/relstore/internal/domain/port/core"
	"github.com/datatide/relstore/internal/domain/port/persistence"
	"gorm.io/gorm"
)

// ChangeKind identifies how a staged entity will be written on flush
type ChangeKind int

const (
	// ChangeInsert stages an entity for insertion
	ChangeInsert ChangeKind = iota
	// ChangeUpdate stages an entity as fully modified (all fields written)
	ChangeUpdate
	// ChangeDelete stages an entity for removal
	ChangeDelete
)

// String returns the change kind as a short verb for logs and errors
func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeUpdate:
		return "update"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change is one staged write held by the owning unit of work until commit
type Change struct {
	Kind   ChangeKind
	Entity any
}

// Owner is the capability a repository receives from its owning unit of work
// at construction. EnsureContext is invoked before every operation and aborts
// it when the persistence context is gone; Conn yields the connection the
// operation must run against (the open transaction when one exists, the base
// session otherwise); Stage hands a pending write to the owner.
type Owner interface {
	EnsureContext() error
	Conn(ctx context.Context) *gorm.DB
	Stage(change Change) error
}

// GormRepository implements persistence.Repository on top of GORM. It holds
// no connection of its own: every engine interaction goes through the owner.
type GormRepository[K comparable, T any] struct {
	owner  Owner
	logger coreport.Logger
}

// NewGormRepository creates a repository wired to its owning unit of work
func NewGormRepository[K comparable, T any](owner Owner, logger coreport.Logger) *GormRepository[K, T] {
	return &GormRepository[K, T]{
		owner:  owner,
		logger: logger,
	}
}

// FindByID retrieves the entity matching the identifier, or (nil, nil) when
// no entity matches
func (r *GormRepository[K, T]) FindByID(ctx context.Context, id K) (*T, error) {
	if err := r.owner.EnsureContext(); err != nil {
		return nil, err
	}

	var entity T
	result := r.owner.Conn(ctx).First(&entity, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, r.handleEngineError("find", result.Error)
	}
	return &entity, nil
}

// GetAll returns all entities of type T in store order
func (r *GormRepository[K, T]) GetAll(ctx context.Context) ([]*T, error) {
	return r.List(ctx, nil)
}

// List returns the entities satisfying the filter; a nil filter matches everything
func (r *GormRepository[K, T]) List(ctx context.Context, filter *persistence.Filter) ([]*T, error) {
	return r.ListIncluding(ctx, filter)
}

// ListIncluding behaves like List and eager-loads each named association.
// With zero relations no related data is fetched and the query is identical
// to List.
func (r *GormRepository[K, T]) ListIncluding(ctx context.Context, filter *persistence.Filter, relations ...string) ([]*T, error) {
	if err := r.owner.EnsureContext(); err != nil {
		return nil, err
	}

	query := r.owner.Conn(ctx)
	if filter != nil && filter.Query != "" {
		query = query.Where(filter.Query, filter.Args...)
	}
	for _, relation := range relations {
		query = query.Preload(relation)
	}

	var entities []*T
	if err := query.Find(&entities).Error; err != nil {
		return nil, r.handleEngineError("list", err)
	}
	return entities, nil
}

// Add stages the entity for insertion in the owning unit of work
func (r *GormRepository[K, T]) Add(ctx context.Context, entity *T) error {
	if err := r.owner.EnsureContext(); err != nil {
		return err
	}
	if entity == nil {
		return errs.NewPersistenceError("add", errors.New("cannot stage a nil entity"))
	}

	r.logger.Debug("Staging entity for insertion", map[string]any{
		"entity_type": fmt.Sprintf("%T", entity),
	})
	return r.owner.Stage(Change{Kind: ChangeInsert, Entity: entity})
}

// Update stages the entity as fully modified; every field is written on flush
func (r *GormRepository[K, T]) Update(ctx context.Context, entity *T) error {
	if err := r.owner.EnsureContext(); err != nil {
		return err
	}
	if entity == nil {
		return errs.NewPersistenceError("update", errors.New("cannot stage a nil entity"))
	}

	r.logger.Debug("Staging entity for update", map[string]any{
		"entity_type": fmt.Sprintf("%T", entity),
	})
	return r.owner.Stage(Change{Kind: ChangeUpdate, Entity: entity})
}

// Delete resolves the identifier and stages the entity for removal. An
// identifier that resolves to nothing yields ErrNotFound rather than staging
// a missing entity.
func (r *GormRepository[K, T]) Delete(ctx context.Context, id K) error {
	if err := r.owner.EnsureContext(); err != nil {
		return err
	}

	entity, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if entity == nil {
		r.logger.Warn("Delete requested for missing entity", map[string]any{
			"id": id,
		})
		return errs.ErrNotFound
	}

	r.logger.Debug("Staging entity for removal", map[string]any{
		"entity_type": fmt.Sprintf("%T", entity),
		"id":          id,
	})
	return r.owner.Stage(Change{Kind: ChangeDelete, Entity: entity})
}

// handleEngineError logs and wraps a read-path engine failure
func (r *GormRepository[K, T]) handleEngineError(op string, err error) error {
	r.logger.Error(fmt.Sprintf("Engine error during %s", op), map[string]any{
		"error": err.Error(),
	})
	return errs.NewPersistenceError(op, err)
}
