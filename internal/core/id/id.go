// Package id provides identifiers for centres, items, statements and accounts.
// Identifiers are UUIDv7, so they sort by creation time.
package id

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ID is the identifier type shared by all records.
type ID = uuid.UUID

// ErrNil is returned by Parse for the all-zero identifier.
var ErrNil = errors.New("nil identifier")

// New generates a new UUIDv7, falling back to v4 if the clock read fails.
func New() ID {
	if v, err := uuid.NewV7(); err == nil {
		return v
	}
	return uuid.New()
}

// Parse reads a canonical identifier. The nil UUID is rejected since no
// record ever carries it.
func Parse(s string) (ID, error) {
	v, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse id %q: %w", s, err)
	}
	if v == uuid.Nil {
		return uuid.Nil, ErrNil
	}
	return v, nil
}

// IsNil reports whether v is the zero identifier.
func IsNil(v ID) bool {
	return v == uuid.Nil
}
