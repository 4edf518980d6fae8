// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/id"
	"centrebooks/internal/domain"
)

// --- Pagination ---

// PaginationRequest contains pagination parameters.
type PaginationRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// Defaults sets default pagination values.
func (p *PaginationRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = 20
	}
}

// Offset calculates SQL offset.
func (p *PaginationRequest) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ToPage converts to the domain page.
func (p *PaginationRequest) ToPage() domain.Page {
	p.Defaults()
	return domain.Page{Limit: p.PageSize, Offset: p.Offset()}
}

// PaginationResponse contains pagination metadata.
type PaginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalItems int64 `json:"totalItems"`
	TotalPages int   `json:"totalPages"`
}

// NewPaginationResponse creates pagination response.
func NewPaginationResponse(page, pageSize int, totalItems int64) PaginationResponse {
	totalPages := int(totalItems) / pageSize
	if int(totalItems)%pageSize > 0 {
		totalPages++
	}
	return PaginationResponse{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// GenericListResponse wraps list results with pagination.
type GenericListResponse[T any] struct {
	Data       []T                `json:"data"`
	Pagination PaginationResponse `json:"pagination"`
}

// ItemsResponse wraps an unpaginated list.
type ItemsResponse[T any] struct {
	Items []T `json:"items"`
}

// --- Dates ---

// ParseDate parses a YYYY-MM-DD request field.
func ParseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, apperror.NewFieldValidation(field, "date must be formatted as YYYY-MM-DD").
			WithDetail("value", raw)
	}
	return t, nil
}

// ParseOptionalID parses an optional id field; empty means absent.
func ParseOptionalID(field, raw string) (*id.ID, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := id.Parse(raw)
	if err != nil {
		return nil, apperror.NewFieldValidation(field, "invalid id").WithDetail("value", raw)
	}
	return &v, nil
}

// --- ID Response ---

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// --- Error Response ---

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
