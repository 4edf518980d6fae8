package centre

import (
	"context"

	"centrebooks/internal/core/id"
)

// Repository defines the interface for Centre persistence.
type Repository interface {
	// Create inserts a centre; a taken name yields DUPLICATE_ENTRY.
	Create(ctx context.Context, c *Centre) error

	// GetByID returns NOT_FOUND when the centre does not exist.
	GetByID(ctx context.Context, centreID id.ID) (*Centre, error)

	// GetByName matches the exact name.
	GetByName(ctx context.Context, name string) (*Centre, error)

	// List returns centres ordered by name.
	List(ctx context.Context, filter ListFilter) ([]*Centre, error)
}
