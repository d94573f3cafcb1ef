package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	errs "github.com/datatide/relstore/internal/domain/error"
	coreport "github.com/datatide/relstore/internal/domain/port/core"
	"github.com/datatide/relstore/internal/domain/port/persistence"
	"github.com/datatide/relstore/internal/infrastructure/adapter/repository"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// UnitOfWork implements the unit of work pattern over a GORM session. It
// exclusively owns the persistence context (the session) and at most one open
// transaction, and carries exactly one repository created at construction and
// wired back to this instance through the repository.Owner capability.
//
// Add/Update/Delete on the repository only stage changes here; Commit
// validates and flushes them through the open transaction. Instances are not
// safe for concurrent use.
type UnitOfWork[K comparable, T any] struct {
	session *gorm.DB // persistence context; nil once closed
	tx      *gorm.DB // open transaction handle; nil when no transaction
	pending []repository.Change

	repo     *repository.GormRepository[K, T]
	logger   coreport.Logger
	timeProv coreport.TimeProvider
	validate *validator.Validate
	mapper   *ErrorMapper
}

// NewUnitOfWork creates a unit of work with its own session view over db.
// The pooled connections behind db stay owned by the Manager; closing the
// unit of work releases only its session reference.
func NewUnitOfWork[K comparable, T any](db *gorm.DB, logger coreport.Logger, timeProv coreport.TimeProvider) *UnitOfWork[K, T] {
	u := &UnitOfWork[K, T]{
		session:  db.Session(&gorm.Session{NewDB: true}),
		logger:   logger,
		timeProv: timeProv,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		mapper:   NewErrorMapper(),
	}
	u.repo = repository.NewGormRepository[K, T](u, logger)
	return u
}

// Repository returns the repository bound to this unit of work
func (u *UnitOfWork[K, T]) Repository() persistence.Repository[K, T] {
	return u.repo
}

// EnsureContext fails with ErrContextClosed when the persistence context has
// been released. The repository invokes it before every operation, and every
// transaction operation calls it first.
func (u *UnitOfWork[K, T]) EnsureContext() error {
	if u.session == nil {
		return errs.ErrContextClosed
	}
	return nil
}

// Conn returns the connection repository operations must run against: the
// open transaction when one exists, the base session otherwise.
func (u *UnitOfWork[K, T]) Conn(ctx context.Context) *gorm.DB {
	if u.tx != nil {
		return u.tx.WithContext(ctx)
	}
	return u.session.WithContext(ctx)
}

// Stage records a pending write to be flushed on the next successful commit
func (u *UnitOfWork[K, T]) Stage(change repository.Change) error {
	if u.session == nil {
		return errs.ErrContextClosed
	}
	u.pending = append(u.pending, change)
	return nil
}

// Begin opens a new transaction against the persistence context
func (u *UnitOfWork[K, T]) Begin(ctx context.Context) error {
	if err := u.EnsureContext(); err != nil {
		return err
	}
	if u.tx != nil {
		return errs.ErrTransactionAlreadyOpen
	}

	u.logger.Debug("Beginning transaction", nil)
	tx := u.session.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", u.mapper.Fields(tx.Error))
		return errs.NewTransactionError("begin", tx.Error)
	}

	u.tx = tx
	return nil
}

// Commit validates and flushes all staged changes through the open
// transaction, then commits it. Any flush or commit failure triggers a
// compensating rollback of the transaction before the error is surfaced.
// The transaction handle is cleared on every exit path.
func (u *UnitOfWork[K, T]) Commit(ctx context.Context) error {
	if err := u.EnsureContext(); err != nil {
		return err
	}
	if u.tx == nil {
		return errs.ErrNoActiveTransaction
	}

	start := u.timeProv.Now()
	tx := u.tx
	defer func() {
		u.tx = nil
	}()

	if err := u.flush(ctx, tx); err != nil {
		u.compensate(tx)
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.logger.Error("Failed to commit transaction", u.mapper.Fields(err))
		u.compensate(tx)
		return errs.NewTransactionError("commit", err)
	}

	flushed := len(u.pending)
	u.pending = nil
	u.logger.Debug("Transaction committed", map[string]any{
		"changes": flushed,
		"elapsed": u.timeProv.Since(start).String(),
	})
	return nil
}

// Rollback aborts the open transaction and discards staged changes. It is a
// no-op when no transaction is open.
func (u *UnitOfWork[K, T]) Rollback(ctx context.Context) error {
	if err := u.EnsureContext(); err != nil {
		return err
	}
	if u.tx == nil {
		return nil
	}

	u.logger.Debug("Rolling back transaction", nil)
	tx := u.tx
	u.tx = nil
	u.pending = nil

	if err := tx.Rollback().Error; err != nil {
		u.logger.Error("Failed to rollback transaction", u.mapper.Fields(err))
		return errs.NewTransactionError("rollback", err)
	}
	return nil
}

// Close releases the persistence context. An open transaction is rolled back
// first; failures during cleanup are logged and swallowed so that closing
// never raises. Every later operation on this instance fails with
// ErrContextClosed.
func (u *UnitOfWork[K, T]) Close() {
	if u.session == nil {
		return
	}
	if u.tx != nil {
		if err := u.tx.Rollback().Error; err != nil {
			u.logger.Warn("Rollback during close failed", u.mapper.Fields(err))
		}
		u.tx = nil
	}
	u.pending = nil
	u.session = nil
	u.logger.Debug("Persistence context released", nil)
}

// flush validates every staged insert/update and applies all staged changes
// through the transaction in staging order. Validation failures are
// aggregated across all staged entities before anything is written.
func (u *UnitOfWork[K, T]) flush(ctx context.Context, tx *gorm.DB) error {
	if len(u.pending) == 0 {
		return nil
	}

	var violations []errs.FieldViolation
	for _, change := range u.pending {
		if change.Kind == repository.ChangeDelete {
			continue
		}
		found, err := u.collectViolations(change.Entity)
		if err != nil {
			return err
		}
		violations = append(violations, found...)
	}
	if len(violations) > 0 {
		u.logger.Warn("Staged entities failed validation", map[string]any{
			"violations": len(violations),
		})
		return &errs.ValidationError{Violations: violations}
	}

	tx = tx.WithContext(ctx)
	for _, change := range u.pending {
		var err error
		switch change.Kind {
		case repository.ChangeInsert:
			err = tx.Create(change.Entity).Error
		case repository.ChangeUpdate:
			err = tx.Save(change.Entity).Error
		case repository.ChangeDelete:
			err = tx.Delete(change.Entity).Error
		}
		if err != nil {
			u.logger.Error(fmt.Sprintf("Failed to flush staged %s", change.Kind), u.mapper.Fields(err))
			return u.mapper.Map(change.Kind.String(), err)
		}
	}
	return nil
}

// collectViolations runs entity validation and converts the result into the
// aggregated per-field form
func (u *UnitOfWork[K, T]) collectViolations(entity any) ([]errs.FieldViolation, error) {
	err := u.validate.Struct(entity)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Not a field-level result: the entity shape itself is invalid
		return nil, errs.NewPersistenceError("validate", err)
	}

	name := entityTypeName(entity)
	violations := make([]errs.FieldViolation, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, errs.FieldViolation{
			Entity:  name,
			Field:   fe.Field(),
			Message: violationMessage(fe),
		})
	}
	return violations, nil
}

// compensate rolls the transaction back after a failed flush or commit. The
// primary error is what the caller must see, so compensation failures are
// only logged.
func (u *UnitOfWork[K, T]) compensate(tx *gorm.DB) {
	if err := tx.Rollback().Error; err != nil {
		u.logger.Warn("Compensating rollback failed", u.mapper.Fields(err))
	}
}

// violationMessage renders a human-readable message for one failed rule
func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	default:
		return fmt.Sprintf("failed validation rule %q", fe.Tag())
	}
}

// entityTypeName returns the bare struct name behind any level of pointers
func entityTypeName(entity any) string {
	t := reflect.TypeOf(entity)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}
	return t.Name()
}

// UnitOfWorkFactory builds unit-of-work instances over a shared engine handle
type UnitOfWorkFactory[K comparable, T any] struct {
	db       *gorm.DB
	logger   coreport.Logger
	timeProv coreport.TimeProvider
}

// NewUnitOfWorkFactory creates a factory bound to the given engine handle
func NewUnitOfWorkFactory[K comparable, T any](db *gorm.DB, logger coreport.Logger, timeProv coreport.TimeProvider) *UnitOfWorkFactory[K, T] {
	return &UnitOfWorkFactory[K, T]{
		db:       db,
		logger:   logger,
		timeProv: timeProv,
	}
}

// Create returns a fresh unit of work. Each instance owns its own session
// view and transaction state; callers should Close it when done.
func (f *UnitOfWorkFactory[K, T]) Create() (persistence.UnitOfWork[K, T], error) {
	if f.db == nil {
		return nil, errs.ErrContextClosed
	}
	return NewUnitOfWork[K, T](f.db, f.logger, f.timeProv), nil
}
