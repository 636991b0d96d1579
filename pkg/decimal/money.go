package decimal

import (
	"errors"
	"fmt"
	"math"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// CurrencyCode is the ISO code every amount in the engine is denominated in.
const CurrencyCode = gomoney.THB

// ErrNonFinite is returned when a float input is NaN or infinite.
var ErrNonFinite = errors.New("value is not a finite number")

// Money represents a monetary amount in Thai baht with full decimal precision
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// FromFloat converts a float64 to a decimal, rejecting NaN and infinities.
func FromFloat(value float64) (decimal.Decimal, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrNonFinite, value)
	}
	return decimal.NewFromFloat(value), nil
}

// ParseRatio parses "a/b" or a plain decimal string such as "0.4286".
// The denominator of a ratio must be positive.
func ParseRatio(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	num, den, ok := strings.Cut(s, "/")
	if !ok {
		return decimal.NewFromString(s)
	}
	n, err := decimal.NewFromString(strings.TrimSpace(num))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid ratio numerator %q: %w", num, err)
	}
	d, err := decimal.NewFromString(strings.TrimSpace(den))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid ratio denominator %q: %w", den, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid ratio %q: denominator must be positive", s)
	}
	return n.Div(d), nil
}

// FloorZero returns the amount, or zero when it is negative.
func (m Money) FloorZero() Money {
	if m.Decimal.IsNegative() {
		return Zero()
	}
	return m
}

// Zero returns a zero Money amount
func Zero() Money {
	return Money{decimal.Zero}
}

// String returns the plain string representation with two decimals
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount in baht with thousands separators, e.g. ฿1,234.50.
func (m Money) Format() string {
	return FormatBaht(m.Decimal)
}

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)

	wholeFormatter = gomoney.NewFormatter(0, ".", ",", "", "1")
)

func fitsInt64(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(minInt64) && d.LessThanOrEqual(maxInt64)
}

// FormatBaht renders a decimal amount through the THB currency formatter.
// Amounts beyond the formatter's int64 satang range are written ungrouped.
func FormatBaht(amount decimal.Decimal) string {
	cur := gomoney.GetCurrency(CurrencyCode)
	fraction := int32(cur.Fraction)
	minor := amount.Round(fraction).Shift(fraction)
	if !fitsInt64(minor) {
		return cur.Grapheme + amount.StringFixed(fraction)
	}
	return cur.Formatter().Format(minor.IntPart())
}

// FormatWhole renders the integer part of amount with thousands separators and no
// currency sign, e.g. 1,500,000.
func FormatWhole(amount decimal.Decimal) string {
	whole := amount.Truncate(0)
	if !fitsInt64(whole) {
		return whole.String()
	}
	return wholeFormatter.Format(whole.IntPart())
}
