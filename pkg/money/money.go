// Package money provides currency-safe financial arithmetic using integer cents
// and the Fowler Money pattern, plus the proration rules used by the recurring
// expense ledger.
package money

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// USD is the default currency for statement imports.
const USD = "USD"

// Recurring expense frequencies.
const (
	FrequencyMonthly      = "monthly"
	FrequencyQuarterly    = "quarterly"
	FrequencySemiAnnually = "semi-annually"
	FrequencyAnnually     = "annually"
)

// Money represents a monetary value with currency.
// It wraps go-money for safe arithmetic and shopspring/decimal for precision.
type Money struct {
	m *money.Money
}

// New creates a new Money value from cents (minor units) and currency code.
func New(amountCents int64, currencyCode string) *Money {
	return &Money{m: money.New(amountCents, currencyCode)}
}

// NewFromDecimal creates Money from a decimal.Decimal value.
func NewFromDecimal(amount decimal.Decimal, currencyCode string) *Money {
	currency := money.GetCurrency(currencyCode)
	if currency == nil {
		currency = money.GetCurrency(USD)
	}

	multiplier := decimal.New(1, int32(currency.Fraction))
	cents := amount.Mul(multiplier).Round(0).IntPart()

	return New(cents, currencyCode)
}

// Zero returns a zero Money value for the given currency
func Zero(currencyCode string) *Money {
	return New(0, currencyCode)
}

// Amount returns the amount in minor units (cents)
func (m *Money) Amount() int64 {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Amount()
}

// Decimal returns the amount as a decimal in major units.
func (m *Money) Decimal() decimal.Decimal {
	if m == nil || m.m == nil {
		return decimal.Zero
	}
	fraction := int32(m.m.Currency().Fraction)
	return decimal.New(m.m.Amount(), -fraction)
}

// Currency returns the ISO-4217 currency code
func (m *Money) Currency() string {
	if m == nil || m.m == nil {
		return ""
	}
	return m.m.Currency().Code
}

// IsNegative returns true if the amount is less than zero
func (m *Money) IsNegative() bool {
	return m != nil && m.m != nil && m.m.IsNegative()
}

// Abs returns the absolute value
func (m *Money) Abs() *Money {
	if m == nil || m.m == nil {
		return Zero(USD)
	}
	return &Money{m: m.m.Absolute()}
}

// Add adds two Money values. Returns error if currencies don't match.
func (m *Money) Add(other *Money) (*Money, error) {
	if m == nil || m.m == nil {
		return other, nil
	}
	if other == nil || other.m == nil {
		return m, nil
	}

	result, err := m.m.Add(other.m)
	if err != nil {
		return nil, err
	}
	return &Money{m: result}, nil
}

// Display formats the value with its currency symbol, e.g. "$1,234.56".
func (m *Money) Display() string {
	if m == nil || m.m == nil {
		return money.New(0, USD).Display()
	}
	return m.m.Display()
}

// String implements fmt.Stringer
func (m *Money) String() string {
	return m.Display()
}

// FormatAmount renders an amount the way the dashboard shows it: the absolute
// value with a currency symbol, sign carried by context (red/green), not text.
func FormatAmount(amount decimal.Decimal, currencyCode string) string {
	return NewFromDecimal(amount, currencyCode).Abs().Display()
}

// prorationDivisors maps a recurring frequency to the number of months it
// spans. An unknown frequency is treated as monthly (divisor 1).
var prorationDivisors = map[string]int64{
	FrequencyMonthly:      1,
	FrequencyQuarterly:    3,
	FrequencySemiAnnually: 6,
	FrequencyAnnually:     12,
}

// ProrateMonthly converts a recurring amount into its monthly-equivalent
// value: A for monthly, A/3 quarterly, A/6 semi-annually, A/12 annually.
func ProrateMonthly(amount decimal.Decimal, frequency string) decimal.Decimal {
	divisor, ok := prorationDivisors[strings.ToLower(strings.TrimSpace(frequency))]
	if !ok || divisor == 1 {
		return amount
	}
	return amount.Div(decimal.NewFromInt(divisor))
}

// ValidFrequency reports whether the frequency is one the ledger accepts.
func ValidFrequency(frequency string) bool {
	_, ok := prorationDivisors[strings.ToLower(strings.TrimSpace(frequency))]
	return ok
}

// ParseDecimal parses a plain decimal string, rejecting empty input.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(raw)
}
