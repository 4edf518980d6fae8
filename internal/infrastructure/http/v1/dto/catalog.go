package dto

import (
	"github.com/shopspring/decimal"

	"centrebooks/internal/domain/catalogs/centre"
	"centrebooks/internal/domain/catalogs/item"
)

// --- Centres ---

// CreateCentreRequest for registering a centre.
type CreateCentreRequest struct {
	Name    string `json:"name" binding:"required"`
	City    string `json:"city"`
	Contact string `json:"contact"`
}

// ToCentre converts to a new domain centre.
func (r *CreateCentreRequest) ToCentre() *centre.Centre {
	return centre.NewCentre(r.Name, r.City, r.Contact)
}

// CentreResponse represents a centre in API response.
type CentreResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// FromCentre creates response from domain centre.
func FromCentre(c *centre.Centre) CentreResponse {
	return CentreResponse{
		ID:      c.ID.String(),
		Name:    c.Name,
		City:    c.City,
		Contact: c.Contact,
	}
}

// FromCentres converts a listing.
func FromCentres(list []*centre.Centre) ItemsResponse[CentreResponse] {
	out := make([]CentreResponse, len(list))
	for i, c := range list {
		out[i] = FromCentre(c)
	}
	return ItemsResponse[CentreResponse]{Items: out}
}

// --- Items ---

// CreateItemRequest for registering an item.
type CreateItemRequest struct {
	Code             string          `json:"code" binding:"required"`
	Name             string          `json:"name" binding:"required"`
	Pages            int             `json:"pages"`
	DefaultUnitPrice decimal.Decimal `json:"defaultUnitPrice"`
}

// ToItem converts to a new domain item.
func (r *CreateItemRequest) ToItem() *item.Item {
	return item.NewItem(r.Code, r.Name, r.Pages, r.DefaultUnitPrice)
}

// ItemResponse represents an item in API response.
type ItemResponse struct {
	ID               string `json:"id"`
	Code             string `json:"code"`
	Name             string `json:"name"`
	Pages            int    `json:"pages"`
	DefaultUnitPrice string `json:"defaultUnitPrice"`
}

// FromItem creates response from domain item.
func FromItem(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:               it.ID.String(),
		Code:             it.Code,
		Name:             it.Name,
		Pages:            it.Pages,
		DefaultUnitPrice: it.DefaultUnitPrice.StringFixed(2),
	}
}

// FromItems converts a listing.
func FromItems(list []*item.Item) ItemsResponse[ItemResponse] {
	out := make([]ItemResponse, len(list))
	for i, it := range list {
		out[i] = FromItem(it)
	}
	return ItemsResponse[ItemResponse]{Items: out}
}
