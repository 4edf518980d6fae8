package statements

import (
	"strings"

	"centrebooks/internal/core/types"
)

// Operator is the mobile-money provider a centre withdraws its takings through.
type Operator string

const (
	OperatorNone   Operator = ""
	OperatorOrange Operator = "ORANGE"
	OperatorMoov   Operator = "MOOV"
	OperatorWave   Operator = "WAVE"
	OperatorMTN    Operator = "MTN"
)

// Operators lists the selectable providers.
func Operators() []Operator {
	return []Operator{OperatorOrange, OperatorMoov, OperatorWave, OperatorMTN}
}

// ParseOperator normalizes user input; blank means no operator.
func ParseOperator(s string) Operator {
	return Operator(strings.ToUpper(strings.TrimSpace(s)))
}

// IsValid reports whether o is a known provider or none.
func (o Operator) IsValid() bool {
	switch o {
	case OperatorNone, OperatorOrange, OperatorMoov, OperatorWave, OperatorMTN:
		return true
	}
	return false
}

// Tier boundaries of the MTN schedule, in currency units.
var (
	mtnFreeBelow = types.NewMoneyFromInt(100_000)
	mtnFlatAbove = types.NewMoneyFromInt(500_000)
	mtnFlatFee   = types.NewMoneyFromInt(5_000)
	onePercent   = types.NewMoneyFromInt(1)
	zeroPercent  = types.Zero()
)

// ScheduledFee applies the operator's published withdrawal schedule to amount.
// rate is nil when the schedule does not apply (no operator, or nothing to withdraw).
func ScheduledFee(op Operator, amount types.Money) (rate *types.Money, fee types.Money) {
	if op == OperatorNone || !amount.IsPositive() {
		return nil, types.Zero()
	}

	switch op {
	case OperatorOrange, OperatorMoov:
		return types.Ptr(onePercent), types.Percent(amount, onePercent)

	case OperatorWave:
		return types.Ptr(zeroPercent), types.Zero()

	case OperatorMTN:
		switch {
		case amount.LessThan(mtnFreeBelow):
			return types.Ptr(zeroPercent), types.Zero()
		case amount.LessThanOrEqual(mtnFlatAbove):
			return types.Ptr(onePercent), types.Percent(amount, onePercent)
		default:
			return types.Ptr(types.RateOf(mtnFlatFee, amount)), mtnFlatFee
		}
	}

	return nil, types.Zero()
}
