// Package tx defines the transaction boundary used by domain services.
// The PostgreSQL implementation lives in infrastructure/storage/postgres,
// the in-memory one in infrastructure/storage/memory.
package tx

import (
	"context"
)

// Manager runs a unit of work atomically.
type Manager interface {
	// RunInTransaction executes fn within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// Nested calls reuse the transaction already in ctx.
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
