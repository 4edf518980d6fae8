package statements

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centrebooks/internal/core/types"
)

func money(s string) *types.Money {
	m := types.MustMoney(s)
	return &m
}

func TestComputeDerived_PriceAndAmount(t *testing.T) {
	tests := []struct {
		name       string
		in         ValuationInput
		wantPrice  string
		wantAmount string
		wantRemain int64
	}{
		{
			name:       "explicit price",
			in:         ValuationInput{QuantityReceived: 20, QuantitySold: 12, UnitPrice: money("1500")},
			wantPrice:  "1500.00",
			wantAmount: "18000.00",
			wantRemain: 8,
		},
		{
			name:       "missing price takes item default",
			in:         ValuationInput{QuantityReceived: 10, QuantitySold: 4, DefaultUnitPrice: money("1000")},
			wantPrice:  "1000.00",
			wantAmount: "4000.00",
			wantRemain: 6,
		},
		{
			name:       "zero price takes item default",
			in:         ValuationInput{QuantitySold: 3, UnitPrice: money("0"), DefaultUnitPrice: money("800")},
			wantPrice:  "800.00",
			wantAmount: "2400.00",
			wantRemain: -3,
		},
		{
			name:       "unknown item leaves price at zero",
			in:         ValuationInput{QuantityReceived: 5, QuantitySold: 5},
			wantPrice:  "0.00",
			wantAmount: "0.00",
			wantRemain: 0,
		},
		{
			name:       "oversold goes negative",
			in:         ValuationInput{QuantityReceived: 10, QuantitySold: 12, UnitPrice: money("100")},
			wantPrice:  "100.00",
			wantAmount: "1200.00",
			wantRemain: -2,
		},
		{
			name:       "fractional price stays exact",
			in:         ValuationInput{QuantityReceived: 3, QuantitySold: 3, UnitPrice: money("0.10")},
			wantPrice:  "0.10",
			wantAmount: "0.30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDerived(tt.in)
			assert.Equal(t, tt.wantPrice, got.UnitPrice.StringFixed(2))
			assert.Equal(t, tt.wantAmount, got.SalesAmount.StringFixed(2))
			assert.Equal(t, tt.wantRemain, got.QuantityRemaining)
		})
	}
}

func TestComputeDerived_Fee(t *testing.T) {
	tests := []struct {
		name     string
		sold     int64
		price    string
		operator Operator
		rate     *types.Money
		wantRate string // "" means unset
		wantFee  string
	}{
		{"orange one percent", 10, "1000", OperatorOrange, nil, "1.00", "100.00"},
		{"moov one percent", 3, "1000", OperatorMoov, nil, "1.00", "30.00"},
		{"wave is free", 100, "1000", OperatorWave, nil, "0.00", "0.00"},
		{"mtn below first tier", 50, "1000", OperatorMTN, nil, "0.00", "0.00"},
		{"mtn first tier boundary", 100, "1000", OperatorMTN, nil, "1.00", "1000.00"},
		{"mtn middle tier", 300, "1000", OperatorMTN, nil, "1.00", "3000.00"},
		{"mtn middle tier upper bound", 500, "1000", OperatorMTN, nil, "1.00", "5000.00"},
		{"mtn flat fee", 1000, "1000", OperatorMTN, nil, "0.50", "5000.00"},
		{"mtn flat fee rounding", 600, "1000", OperatorMTN, nil, "0.83", "5000.00"},
		{"operator with nothing sold", 0, "1000", OperatorOrange, nil, "", "0.00"},
		{"manual rate wins over schedule", 1, "1000", OperatorOrange, money("2.5"), "2.50", "25.00"},
		{"manual rate without operator", 1, "1000", OperatorNone, money("2.5"), "2.50", "25.00"},
		{"manual zero rate", 10, "1000", OperatorMTN, money("0"), "0.00", "0.00"},
		{"no operator no rate", 10, "1000", OperatorNone, nil, "", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDerived(ValuationInput{
				QuantitySold:      tt.sold,
				UnitPrice:         money(tt.price),
				Operator:          tt.operator,
				WithdrawalFeeRate: tt.rate,
			})
			if tt.wantRate == "" {
				assert.Nil(t, got.WithdrawalFeeRate)
			} else {
				require.NotNil(t, got.WithdrawalFeeRate)
				assert.Equal(t, tt.wantRate, got.WithdrawalFeeRate.StringFixed(2))
			}
			assert.Equal(t, tt.wantFee, got.WithdrawalFeeAmount.StringFixed(2))
		})
	}
}

func TestComputeDerived_Idempotent(t *testing.T) {
	inputs := []ValuationInput{
		{QuantityReceived: 40, QuantitySold: 35, DefaultUnitPrice: money("1500"), Operator: OperatorMTN},
		{QuantityReceived: 10, QuantitySold: 12, UnitPrice: money("999.99"), Operator: OperatorOrange},
		{QuantitySold: 7, UnitPrice: money("120"), WithdrawalFeeRate: money("3.333")},
	}

	for _, in := range inputs {
		first := ComputeDerived(in)

		again := in
		again.UnitPrice = &first.UnitPrice
		second := ComputeDerived(again)

		assert.True(t, first.UnitPrice.Equal(second.UnitPrice))
		assert.True(t, first.SalesAmount.Equal(second.SalesAmount))
		assert.Equal(t, first.QuantityRemaining, second.QuantityRemaining)
		assert.True(t, first.WithdrawalFeeAmount.Equal(second.WithdrawalFeeAmount))
		assert.Equal(t, first.WithdrawalFeeRate == nil, second.WithdrawalFeeRate == nil)
		if first.WithdrawalFeeRate != nil {
			assert.True(t, first.WithdrawalFeeRate.Equal(*second.WithdrawalFeeRate))
		}
	}
}

// reapply recomputes s from its stored inputs the way an edit does.
func reapply(s *Statement, defaultUnitPrice *types.Money) {
	in := s.input()
	s.apply(in, ComputeDerived(in.valuation(defaultUnitPrice)))
}

func TestStatement_ReapplyKeepsScheduledRate(t *testing.T) {
	s := &Statement{
		QuantityReceived: 30,
		QuantitySold:     25,
		Operator:         OperatorMTN,
	}
	reapply(s, money("20000"))

	assert.Equal(t, "20000.00", s.UnitPrice.StringFixed(2))
	assert.Equal(t, "500000.00", s.SalesAmount.StringFixed(2))
	assert.Equal(t, int64(5), s.QuantityRemaining)
	assert.Equal(t, "5000.00", s.WithdrawalFeeAmount.StringFixed(2))
	assert.False(t, s.FeeRateManual)

	// the scheduled rate stored on the statement must not turn into a manual one
	s.QuantitySold = 26
	reapply(s, money("20000"))
	assert.Equal(t, "520000.00", s.SalesAmount.StringFixed(2))
	assert.Equal(t, "5000.00", s.WithdrawalFeeAmount.StringFixed(2))
	assert.Equal(t, "0.96", s.WithdrawalFeeRate.StringFixed(2))
}

func TestScheduledFee_NonPositiveAmount(t *testing.T) {
	for _, op := range Operators() {
		rate, fee := ScheduledFee(op, types.Zero())
		assert.Nil(t, rate, string(op))
		assert.True(t, fee.IsZero(), string(op))
	}
}

func TestParseOperator(t *testing.T) {
	assert.Equal(t, OperatorOrange, ParseOperator(" orange "))
	assert.Equal(t, OperatorNone, ParseOperator(""))
	assert.False(t, ParseOperator("paypal").IsValid())
}
