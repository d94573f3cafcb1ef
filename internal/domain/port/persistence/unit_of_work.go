package persistence

import (
	"context"
)

// UnitOfWork groups repository operations into a single atomic transaction
// boundary. Each instance exclusively owns one persistence context and at
// most one open transaction, and carries exactly one Repository created at
// construction.
//
// Lifecycle: Begin opens a transaction, Commit flushes all staged changes and
// commits it, Rollback discards staged changes and aborts it. After Close the
// context is released and every further operation fails with ErrContextClosed.
//
// A UnitOfWork and its Repository are not safe for concurrent use: the
// context and transaction handle are shared mutable state with no internal
// locking.
type UnitOfWork[K comparable, T any] interface {
	// Repository returns the repository bound to this unit of work
	Repository() Repository[K, T]

	// Begin opens a new transaction. It fails with ErrContextClosed when the
	// context is gone and with ErrTransactionAlreadyOpen when a transaction
	// is already open.
	Begin(ctx context.Context) error

	// Commit validates and flushes all staged changes through the open
	// transaction, then commits it. On any flush or commit failure a
	// compensating rollback of the transaction is attempted before the error
	// is surfaced; validation failures are translated into a ValidationError
	// aggregating every violation. The transaction handle is cleared on every
	// exit path, success or failure.
	Commit(ctx context.Context) error

	// Rollback aborts the open transaction and discards staged changes.
	// It is a no-op when no transaction is open.
	Rollback(ctx context.Context) error

	// Close releases the persistence context. Release failures are logged
	// and swallowed: cleanup never surfaces an error to the caller.
	Close()
}

// UnitOfWorkFactory creates unit-of-work instances, typically one per
// request or per logical operation
type UnitOfWorkFactory[K comparable, T any] interface {
	Create() (UnitOfWork[K, T], error)
}
