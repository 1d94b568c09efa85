package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProrateMonthly(t *testing.T) {
	amount := decimal.NewFromFloat(120.00)

	tests := []struct {
		name      string
		frequency string
		want      string
	}{
		{"monthly keeps full amount", FrequencyMonthly, "120"},
		{"quarterly divides by 3", FrequencyQuarterly, "40"},
		{"semi-annually divides by 6", FrequencySemiAnnually, "20"},
		{"annually divides by 12", FrequencyAnnually, "10"},
		{"unknown frequency keeps full amount", "biweekly", "120"},
		{"case insensitive", "Quarterly", "40"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProrateMonthly(amount, tt.frequency)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s, want %s", got, want)
		})
	}
}

func TestProrateMonthly_NonTerminatingDivision(t *testing.T) {
	// 100 / 3 must not panic and should round-trip to roughly a third.
	got := ProrateMonthly(decimal.NewFromInt(100), FrequencyQuarterly)
	assert.True(t, got.GreaterThan(decimal.NewFromFloat(33.33)))
	assert.True(t, got.LessThan(decimal.NewFromFloat(33.34)))
}

func TestValidFrequency(t *testing.T) {
	assert.True(t, ValidFrequency("monthly"))
	assert.True(t, ValidFrequency("semi-annually"))
	assert.False(t, ValidFrequency("weekly"))
	assert.False(t, ValidFrequency(""))
}

func TestNewFromDecimal(t *testing.T) {
	m := NewFromDecimal(decimal.NewFromFloat(-45.67), USD)
	assert.Equal(t, int64(-4567), m.Amount())
	assert.Equal(t, USD, m.Currency())
	assert.True(t, m.IsNegative())
}

func TestDecimalRoundTrip(t *testing.T) {
	d := decimal.NewFromFloat(89.34)
	m := NewFromDecimal(d, USD)
	assert.True(t, m.Decimal().Equal(d))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$1,234.56", FormatAmount(decimal.NewFromFloat(-1234.56), USD))
	assert.Equal(t, "$0.00", FormatAmount(decimal.Zero, USD))
}

func TestAdd(t *testing.T) {
	a := New(1050, USD)
	b := New(-450, USD)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(600), sum.Amount())

	_, err = a.Add(New(100, "EUR"))
	assert.Error(t, err)
}
