package statements

import (
	"centrebooks/internal/core/types"
)

// ValuationInput is everything the valuation needs; it never reads storage.
type ValuationInput struct {
	QuantityReceived int64
	QuantitySold     int64
	UnitPrice        *types.Money
	// DefaultUnitPrice is the item's default; nil when the item is unknown.
	DefaultUnitPrice *types.Money

	Operator          Operator
	WithdrawalFeeRate *types.Money
}

// Derived holds the values a save writes back onto the statement.
type Derived struct {
	UnitPrice           types.Money
	SalesAmount         types.Money
	QuantityRemaining   int64
	WithdrawalFeeRate   *types.Money
	WithdrawalFeeAmount types.Money
}

// ComputeDerived values a statement. It is deterministic and idempotent:
// feeding its own output back in yields the same result.
//
//  1. A missing or zero unit price takes the item's default.
//  2. Sales amount is quantity sold times unit price.
//  3. Remaining is received minus sold and may go negative.
//  4. The withdrawal fee comes from an explicit rate when one is given,
//     otherwise from the operator's schedule, otherwise it is zero.
func ComputeDerived(in ValuationInput) Derived {
	price := types.Zero()
	if in.UnitPrice != nil {
		price = *in.UnitPrice
	}
	if price.IsZero() && in.DefaultUnitPrice != nil {
		price = *in.DefaultUnitPrice
	}
	price = types.Round2(price)

	amount := types.Round2(price.Mul(types.NewMoneyFromInt(in.QuantitySold)))

	out := Derived{
		UnitPrice:         price,
		SalesAmount:       amount,
		QuantityRemaining: in.QuantityReceived - in.QuantitySold,
	}

	switch {
	case in.WithdrawalFeeRate != nil:
		rate := types.Round2(*in.WithdrawalFeeRate)
		out.WithdrawalFeeRate = &rate
		out.WithdrawalFeeAmount = types.Percent(amount, rate)
	case in.Operator != OperatorNone:
		out.WithdrawalFeeRate, out.WithdrawalFeeAmount = ScheduledFee(in.Operator, amount)
	default:
		out.WithdrawalFeeAmount = types.Zero()
	}

	return out
}

// valuation pairs the input with the item's default price.
func (in Input) valuation(defaultUnitPrice *types.Money) ValuationInput {
	return ValuationInput{
		QuantityReceived:  in.QuantityReceived,
		QuantitySold:      in.QuantitySold,
		UnitPrice:         in.UnitPrice,
		DefaultUnitPrice:  defaultUnitPrice,
		Operator:          in.Operator,
		WithdrawalFeeRate: in.WithdrawalFeeRate,
	}
}

