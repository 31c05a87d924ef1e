// Package tx defines the transactional-unit-of-work abstraction.
// Domain services depend on this interface only; the pgx-backed
// implementation lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager runs a function inside a database transaction.
// Atomicity is structural: a service hands its whole
// read-check-apply sequence to RunInTransaction instead of managing
// commit/rollback at every call site.
type Manager interface {
	// RunInTransaction executes fn within a transaction.
	// If fn returns an error the transaction is rolled back and no
	// partial state is left behind; otherwise it is committed.
	//
	// Nested calls reuse the transaction already in ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transactions for
// queries that must not take write locks (report aggregation).
type ReadOnlyManager interface {
	Manager

	// ReadOnly executes fn in a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
