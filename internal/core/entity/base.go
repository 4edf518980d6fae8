// Package entity holds the fields every stored record carries.
package entity

import (
	"context"
	"time"

	"centrebooks/internal/core/id"
)

// Validatable is implemented by records that check their own invariants.
// Validation never touches storage.
type Validatable interface {
	Validate(ctx context.Context) error
}

// BaseEntity contains the identity and audit timestamps of a record.
type BaseEntity struct {
	// ID is the primary key (UUIDv7)
	ID id.ID `db:"id" json:"id"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewBaseEntity creates a BaseEntity with a generated ID and both timestamps set to now.
func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{
		ID:        id.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes UpdatedAt. CreatedAt is never changed after creation.
func (b *BaseEntity) Touch() {
	b.UpdatedAt = time.Now().UTC()
}

// GetID returns the record id.
func (b *BaseEntity) GetID() id.ID {
	return b.ID
}
