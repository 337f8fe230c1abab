package models

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want Money
	}{
		{"6.00", 600},
		{"6", 600},
		{" 1250.50 ", 125050},
		{"0.005", 1},
		{"0.004", 0},
		{"-4.00", -400},
		{"10.999", 1100},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMoney(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMoneyMalformed(t *testing.T) {
	_, err := ParseMoney("шесть рублей")
	assert.ErrorIs(t, err, ErrMalformedAmount)
}

func TestMoneyFromDecimalRange(t *testing.T) {
	for _, in := range []string{"92233720368547758.08", "184467440737095516.17", "-92233720368547758.09"} {
		t.Run(in, func(t *testing.T) {
			_, err := MoneyFromDecimal(decimal.RequireFromString(in))
			assert.ErrorIs(t, err, ErrAmountOutOfRange)

			_, err = ParseMoney(in)
			assert.ErrorIs(t, err, ErrAmountOutOfRange)
		})
	}

	got, err := MoneyFromDecimal(decimal.RequireFromString("92233720368547758.07"))
	require.NoError(t, err)
	assert.Equal(t, Money(math.MaxInt64), got)

	got, err = MoneyFromDecimal(decimal.RequireFromString("-92233720368547758.08"))
	require.NoError(t, err)
	assert.Equal(t, Money(math.MinInt64), got)
}

func TestMoneyDisplay(t *testing.T) {
	assert.Equal(t, "6.00", Money(600).String())
	assert.Equal(t, "0.05", Money(5).String())
	assert.True(t, Money(123456).Decimal().Equal(decimal.RequireFromString("1234.56")))
}

func TestStatusEnumerations(t *testing.T) {
	assert.True(t, InstallmentStatusOverdue.Valid())
	assert.False(t, InstallmentStatus("CANCELED").Valid())
	assert.True(t, ProjectStatusDepositPending.Valid())
	assert.False(t, ProjectStatus("planned").Valid())
}
