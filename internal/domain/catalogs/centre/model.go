// Package centre provides the Centre catalog: the regional distribution
// points that file statements.
package centre

import (
	"context"
	"strings"
	"unicode/utf8"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/entity"
	"centrebooks/internal/core/id"
)

const maxNameLength = 100

// Centre is a distribution point. Name is unique.
type Centre struct {
	entity.BaseEntity

	Name    string `db:"name" json:"name"`
	City    string `db:"city" json:"city,omitempty"`
	Contact string `db:"contact" json:"contact,omitempty"`
}

// NewCentre creates a Centre with a generated id.
func NewCentre(name, city, contact string) *Centre {
	return &Centre{
		BaseEntity: entity.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		City:       strings.TrimSpace(city),
		Contact:    strings.TrimSpace(contact),
	}
}

// Validate implements entity.Validatable interface.
func (c *Centre) Validate(ctx context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewFieldValidation("name", "name is required")
	}
	if utf8.RuneCountInString(c.Name) > maxNameLength {
		return apperror.NewFieldValidation("name", "name is too long").
			WithDetail("max_length", maxNameLength)
	}
	return nil
}

// ListFilter narrows a centre listing. Results are always ordered by name.
type ListFilter struct {
	// IDs restricts the listing; nil means all centres
	IDs []id.ID
}
