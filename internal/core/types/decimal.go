// Package types provides the monetary value type and its helpers.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// MoneyScale is the number of fractional digits kept for stored amounts.
const MoneyScale = 2

var hundred = decimal.NewFromInt(100)

// NewMoneyFromString creates a Money value from a string.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// NewMoneyFromInt creates a Money value from a whole number of units.
func NewMoneyFromInt(v int64) Money {
	return decimal.NewFromInt(v)
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Round2 rounds to the stored scale, half away from zero.
func Round2(m Money) Money {
	return m.Round(MoneyScale)
}

// Percent returns amount × rate / 100 rounded to the stored scale.
func Percent(amount, rate Money) Money {
	return Round2(amount.Mul(rate).Div(hundred))
}

// RateOf returns part × 100 / whole rounded to the stored scale.
// whole must be non-zero.
func RateOf(part, whole Money) Money {
	return Round2(part.Mul(hundred).Div(whole))
}

// Ptr returns a pointer to m, for optional fields.
func Ptr(m Money) *Money {
	return &m
}

// Sum adds all values.
func Sum(values ...Money) Money {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
