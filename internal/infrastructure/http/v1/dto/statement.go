package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"centrebooks/internal/core/period"
	"centrebooks/internal/core/types"
	"centrebooks/internal/domain"
	"centrebooks/internal/domain/statements"
)

// StatementRequest is the body of POST and PUT /statements. Dates are
// YYYY-MM-DD; money may be a JSON number or a string.
type StatementRequest struct {
	CentreID  string `json:"centreId"`
	ItemID    string `json:"itemId"`
	DateStart string `json:"dateStart"`
	DateEnd   string `json:"dateEnd"`

	QuantityReceived int64 `json:"quantityReceived"`
	QuantitySold     int64 `json:"quantitySold"`

	UnitPrice         *decimal.Decimal `json:"unitPrice"`
	OtherExpenses     *decimal.Decimal `json:"otherExpenses"`
	Operator          string           `json:"operator"`
	WithdrawalFeeRate *decimal.Decimal `json:"withdrawalFeeRate"`
}

// ToInput converts to the domain input. Missing fields are left zero so
// that domain validation reports them.
func (r *StatementRequest) ToInput() (statements.Input, error) {
	in := statements.Input{
		QuantityReceived:  r.QuantityReceived,
		QuantitySold:      r.QuantitySold,
		UnitPrice:         r.UnitPrice,
		OtherExpenses:     types.Zero(),
		Operator:          statements.ParseOperator(r.Operator),
		WithdrawalFeeRate: r.WithdrawalFeeRate,
	}
	if r.OtherExpenses != nil {
		in.OtherExpenses = *r.OtherExpenses
	}

	centreID, err := ParseOptionalID("centreId", r.CentreID)
	if err != nil {
		return in, err
	}
	if centreID != nil {
		in.CentreID = *centreID
	}
	itemID, err := ParseOptionalID("itemId", r.ItemID)
	if err != nil {
		return in, err
	}
	if itemID != nil {
		in.ItemID = *itemID
	}

	if r.DateStart != "" {
		if in.DateStart, err = ParseDate("dateStart", r.DateStart); err != nil {
			return in, err
		}
	}
	if r.DateEnd != "" {
		if in.DateEnd, err = ParseDate("dateEnd", r.DateEnd); err != nil {
			return in, err
		}
	}
	return in, nil
}

// ListStatementsRequest holds the query of GET /statements.
type ListStatementsRequest struct {
	CentreID string `form:"centreId"`
	ItemID   string `form:"itemId"`
	// From and To bound the end date, both inclusive
	From string `form:"from"`
	To   string `form:"to"`
	PaginationRequest
}

// ToFilter converts to the domain filter.
func (r *ListStatementsRequest) ToFilter() (statements.ListFilter, error) {
	var (
		f   statements.ListFilter
		err error
	)
	if f.CentreID, err = ParseOptionalID("centreId", r.CentreID); err != nil {
		return f, err
	}
	if f.ItemID, err = ParseOptionalID("itemId", r.ItemID); err != nil {
		return f, err
	}

	if r.From != "" || r.To != "" {
		rng := period.Range{Start: period.Date(1, time.January, 1), End: period.Date(9999, time.December, 31)}
		if r.From != "" {
			if rng.Start, err = ParseDate("from", r.From); err != nil {
				return f, err
			}
		}
		if r.To != "" {
			if rng.End, err = ParseDate("to", r.To); err != nil {
				return f, err
			}
		}
		f.Range = &rng
	}

	f.Page = r.PaginationRequest.ToPage()
	return f, nil
}

// StatementResponse represents a statement in API response. Money is
// rendered with two decimals.
type StatementResponse struct {
	ID         string `json:"id"`
	CentreID   string `json:"centreId"`
	CentreName string `json:"centreName,omitempty"`
	ItemID     string `json:"itemId"`
	ItemName   string `json:"itemName,omitempty"`
	DateStart  string `json:"dateStart"`
	DateEnd    string `json:"dateEnd"`
	Quarter    int    `json:"quarter"`

	QuantityReceived  int64  `json:"quantityReceived"`
	QuantitySold      int64  `json:"quantitySold"`
	QuantityRemaining int64  `json:"quantityRemaining"`
	UnitPrice         string `json:"unitPrice"`
	SalesAmount       string `json:"salesAmount"`
	OtherExpenses     string `json:"otherExpenses"`

	Operator            string  `json:"operator,omitempty"`
	WithdrawalFeeRate   *string `json:"withdrawalFeeRate,omitempty"`
	WithdrawalFeeAmount string  `json:"withdrawalFeeAmount"`
	FeeRateManual       bool    `json:"feeRateManual"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromStatement creates response from domain statement.
func FromStatement(s *statements.Statement) StatementResponse {
	resp := StatementResponse{
		ID:                  s.ID.String(),
		CentreID:            s.CentreID.String(),
		CentreName:          s.CentreName,
		ItemID:              s.ItemID.String(),
		ItemName:            s.ItemName,
		DateStart:           s.DateStart.Format(time.DateOnly),
		DateEnd:             s.DateEnd.Format(time.DateOnly),
		Quarter:             s.Quarter(),
		QuantityReceived:    s.QuantityReceived,
		QuantitySold:        s.QuantitySold,
		QuantityRemaining:   s.QuantityRemaining,
		UnitPrice:           s.UnitPrice.StringFixed(2),
		SalesAmount:         s.SalesAmount.StringFixed(2),
		OtherExpenses:       s.OtherExpenses.StringFixed(2),
		Operator:            string(s.Operator),
		WithdrawalFeeAmount: s.WithdrawalFeeAmount.StringFixed(2),
		FeeRateManual:       s.FeeRateManual,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
	if s.WithdrawalFeeRate != nil {
		rate := s.WithdrawalFeeRate.StringFixed(2)
		resp.WithdrawalFeeRate = &rate
	}
	return resp
}

// FromStatementList converts a page of statements.
func FromStatementList(res domain.ListResult[*statements.Statement], page PaginationRequest) GenericListResponse[StatementResponse] {
	page.Defaults()
	out := make([]StatementResponse, len(res.Items))
	for i, s := range res.Items {
		out[i] = FromStatement(s)
	}
	return GenericListResponse[StatementResponse]{
		Data:       out,
		Pagination: NewPaginationResponse(page.Page, page.PageSize, res.TotalCount),
	}
}
