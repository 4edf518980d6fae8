package statements

import (
	"context"
	"time"

	"centrebooks/internal/core/id"
	"centrebooks/internal/domain"
)

// Repository defines the interface for Statement persistence.
type Repository interface {
	// Create inserts a statement; a taken (centre, item, start, end) yields DUPLICATE_ENTRY.
	Create(ctx context.Context, s *Statement) error

	// Update overwrites every stored column except id and created_at.
	Update(ctx context.Context, s *Statement) error

	// Delete removes the statement; NOT_FOUND when absent.
	Delete(ctx context.Context, statementID id.ID) error

	// GetByID returns NOT_FOUND when the statement does not exist.
	GetByID(ctx context.Context, statementID id.ID) (*Statement, error)

	// List returns statements ordered by end date descending, then centre name.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Statement], error)

	// FindOverlapping returns one statement of the same centre and item whose
	// range intersects [start, end], ignoring excludeID. nil when there is none.
	FindOverlapping(ctx context.Context, centreID, itemID id.ID, start, end time.Time, excludeID *id.ID) (*Statement, error)
}
