// Package item provides the Item catalog: the titles distributed to centres.
package item

import (
	"context"
	"strings"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/entity"
	"centrebooks/internal/core/id"
	"centrebooks/internal/core/types"
)

// Item is a distributed title. Code is unique.
type Item struct {
	entity.BaseEntity

	Code  string `db:"code" json:"code"`
	Name  string `db:"name" json:"name"`
	Pages int    `db:"pages" json:"pages"`

	// DefaultUnitPrice is applied to statements filed without a price.
	DefaultUnitPrice types.Money `db:"default_unit_price" json:"defaultUnitPrice"`
}

// NewItem creates an Item with a generated id.
func NewItem(code, name string, pages int, defaultUnitPrice types.Money) *Item {
	return &Item{
		BaseEntity:       entity.NewBaseEntity(),
		Code:             strings.TrimSpace(code),
		Name:             strings.TrimSpace(name),
		Pages:            pages,
		DefaultUnitPrice: types.Round2(defaultUnitPrice),
	}
}

// Validate implements entity.Validatable interface.
func (i *Item) Validate(ctx context.Context) error {
	if strings.TrimSpace(i.Code) == "" {
		return apperror.NewFieldValidation("code", "code is required")
	}
	if strings.TrimSpace(i.Name) == "" {
		return apperror.NewFieldValidation("name", "name is required")
	}
	if i.Pages < 0 {
		return apperror.NewFieldValidation("pages", "pages must not be negative")
	}
	if i.DefaultUnitPrice.IsNegative() {
		return apperror.NewFieldValidation("defaultUnitPrice", "default unit price must not be negative")
	}
	return nil
}

// ListFilter narrows an item listing. Results are always ordered by name.
type ListFilter struct {
	// IDs restricts the listing; nil means all items
	IDs []id.ID
}

// PinnedRef locates a well-known item without knowing its id: first by
// case-insensitive exact name, then by case-insensitive code fragment.
type PinnedRef struct {
	Name         string
	CodeFragment string
	// Label titles the item's summary line in exports, e.g. "VIATIQUE"
	Label string
}
