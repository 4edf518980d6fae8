package item

import (
	"context"

	"centrebooks/internal/core/id"
)

// Repository defines the interface for Item persistence.
type Repository interface {
	// Create inserts an item; a taken code yields DUPLICATE_ENTRY.
	Create(ctx context.Context, it *Item) error

	// GetByID returns NOT_FOUND when the item does not exist.
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)

	// GetByCode matches the exact code.
	GetByCode(ctx context.Context, code string) (*Item, error)

	// List returns items ordered by name.
	List(ctx context.Context, filter ListFilter) ([]*Item, error)

	// FindByNameFold returns the first item whose name equals name ignoring case.
	FindByNameFold(ctx context.Context, name string) (*Item, error)

	// FindByCodeContains returns the first item, by name, whose code contains
	// fragment ignoring case.
	FindByCodeContains(ctx context.Context, fragment string) (*Item, error)
}
