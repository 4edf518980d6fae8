package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1"},
		{"-1.005", "-1.01"},
		{"2500", "2500"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, MustMoney(tt.want).Equal(Round2(MustMoney(tt.in))), "got %s", Round2(MustMoney(tt.in)))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "25.00", Percent(MustMoney("1000"), MustMoney("2.5")).StringFixed(2))
	assert.Equal(t, "100.00", Percent(MustMoney("10000"), MustMoney("1")).StringFixed(2))
}

func TestRateOf(t *testing.T) {
	assert.Equal(t, "0.50", RateOf(MustMoney("5000"), MustMoney("1000000")).StringFixed(2))
	assert.Equal(t, "0.83", RateOf(MustMoney("5000"), MustMoney("600000")).StringFixed(2))
}

func TestSum(t *testing.T) {
	assert.True(t, Sum().IsZero())
	assert.Equal(t, "3.75", Sum(MustMoney("1.25"), MustMoney("2.50")).StringFixed(2))
}
