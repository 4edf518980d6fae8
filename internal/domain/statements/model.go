// Package statements provides periodic centre statements: what a centre
// received and sold of one item over a date range, and the monetary fields
// derived from it when the statement is saved.
package statements

import (
	"context"
	"time"

	"centrebooks/internal/core/apperror"
	"centrebooks/internal/core/entity"
	"centrebooks/internal/core/id"
	"centrebooks/internal/core/period"
	"centrebooks/internal/core/types"
	"centrebooks/internal/domain"
)

// EntityType names statements in the audit trail.
const EntityType = "statement"

// Statement is one centre's report for one item over [DateStart, DateEnd].
// (CentreID, ItemID, DateStart, DateEnd) is unique.
type Statement struct {
	entity.BaseEntity

	CentreID  id.ID     `db:"centre_id" json:"centreId"`
	ItemID    id.ID     `db:"item_id" json:"itemId"`
	DateStart time.Time `db:"date_start" json:"dateStart"`
	DateEnd   time.Time `db:"date_end" json:"dateEnd"`

	QuantityReceived int64       `db:"quantity_received" json:"quantityReceived"`
	QuantitySold     int64       `db:"quantity_sold" json:"quantitySold"`
	UnitPrice        types.Money `db:"unit_price" json:"unitPrice"`
	OtherExpenses    types.Money `db:"other_expenses" json:"otherExpenses"`

	Operator          Operator     `db:"operator" json:"operator,omitempty"`
	WithdrawalFeeRate *types.Money `db:"withdrawal_fee_rate" json:"withdrawalFeeRate,omitempty"`
	// FeeRateManual is set when the rate was typed in rather than taken from the schedule.
	FeeRateManual bool `db:"fee_rate_manual" json:"feeRateManual"`

	// Derived on every save.
	SalesAmount         types.Money `db:"sales_amount" json:"salesAmount"`
	QuantityRemaining   int64       `db:"quantity_remaining" json:"quantityRemaining"`
	WithdrawalFeeAmount types.Money `db:"withdrawal_fee_amount" json:"withdrawalFeeAmount"`

	// Read-only joins, filled by listings.
	CentreName string `db:"centre_name" json:"centreName,omitempty"`
	ItemName   string `db:"item_name" json:"itemName,omitempty"`
}

// Quarter returns the quarter (1..4) of the end date.
func (s *Statement) Quarter() int {
	return period.QuarterOf(s.DateEnd)
}

// Validate implements entity.Validatable interface.
func (s *Statement) Validate(ctx context.Context) error {
	return s.input().Validate()
}

func (s *Statement) input() Input {
	price := s.UnitPrice
	var rate *types.Money
	if s.FeeRateManual {
		rate = s.WithdrawalFeeRate
	}
	return Input{
		CentreID:          s.CentreID,
		ItemID:            s.ItemID,
		DateStart:         s.DateStart,
		DateEnd:           s.DateEnd,
		QuantityReceived:  s.QuantityReceived,
		QuantitySold:      s.QuantitySold,
		UnitPrice:         &price,
		OtherExpenses:     s.OtherExpenses,
		Operator:          s.Operator,
		WithdrawalFeeRate: rate,
	}
}

// apply copies caller-supplied fields and the derived values onto s.
func (s *Statement) apply(in Input, d Derived) {
	s.CentreID = in.CentreID
	s.ItemID = in.ItemID
	s.DateStart = period.Truncate(in.DateStart)
	s.DateEnd = period.Truncate(in.DateEnd)
	s.QuantityReceived = in.QuantityReceived
	s.QuantitySold = in.QuantitySold
	s.OtherExpenses = types.Round2(in.OtherExpenses)
	s.Operator = in.Operator
	s.FeeRateManual = in.WithdrawalFeeRate != nil

	s.UnitPrice = d.UnitPrice
	s.SalesAmount = d.SalesAmount
	s.QuantityRemaining = d.QuantityRemaining
	s.WithdrawalFeeRate = d.WithdrawalFeeRate
	s.WithdrawalFeeAmount = d.WithdrawalFeeAmount
}

// Input is what a caller supplies when filing or correcting a statement.
type Input struct {
	CentreID  id.ID
	ItemID    id.ID
	DateStart time.Time
	DateEnd   time.Time

	QuantityReceived int64
	QuantitySold     int64
	// UnitPrice nil or zero means "use the item's default price".
	UnitPrice     *types.Money
	OtherExpenses types.Money

	Operator Operator
	// WithdrawalFeeRate is a percentage; nil lets the operator schedule decide.
	WithdrawalFeeRate *types.Money
}

var maxRate = types.NewMoneyFromInt(100)

// Validate checks field-level invariants before any valuation happens.
func (in Input) Validate() error {
	if id.IsNil(in.CentreID) {
		return apperror.NewFieldValidation("centreId", "centre is required")
	}
	if id.IsNil(in.ItemID) {
		return apperror.NewFieldValidation("itemId", "item is required")
	}
	if in.DateStart.IsZero() {
		return apperror.NewFieldValidation("dateStart", "start date is required")
	}
	if in.DateEnd.IsZero() {
		return apperror.NewFieldValidation("dateEnd", "end date is required")
	}
	if period.Truncate(in.DateEnd).Before(period.Truncate(in.DateStart)) {
		return apperror.NewFieldValidation("dateEnd", "end date must not be before start date").
			WithDetail("date_start", in.DateStart.Format(time.DateOnly)).
			WithDetail("date_end", in.DateEnd.Format(time.DateOnly))
	}
	if in.QuantityReceived < 0 {
		return apperror.NewFieldValidation("quantityReceived", "quantity received must not be negative")
	}
	if in.QuantitySold < 0 {
		return apperror.NewFieldValidation("quantitySold", "quantity sold must not be negative")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return apperror.NewFieldValidation("unitPrice", "unit price must not be negative")
	}
	if in.OtherExpenses.IsNegative() {
		return apperror.NewFieldValidation("otherExpenses", "expenses must not be negative")
	}
	if !in.Operator.IsValid() {
		return apperror.NewFieldValidation("operator", "unknown mobile money operator").
			WithDetail("value", string(in.Operator)).
			WithDetail("allowed", Operators())
	}
	if in.WithdrawalFeeRate != nil {
		if in.WithdrawalFeeRate.IsNegative() || in.WithdrawalFeeRate.GreaterThan(maxRate) {
			return apperror.NewFieldValidation("withdrawalFeeRate", "withdrawal fee rate must be between 0 and 100")
		}
	}
	return nil
}

// ListFilter narrows a statement listing.
type ListFilter struct {
	// CentreID restricts to one centre; forced for centre-bound principals
	CentreID *id.ID
	ItemID   *id.ID
	// Range matches on the end date
	Range *period.Range
	domain.Page
}
