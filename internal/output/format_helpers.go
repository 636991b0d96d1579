package output

import (
	"github.com/shopspring/decimal"
	moneydec "github.com/stockdash/taxengine/pkg/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// FormatCurrency formats a decimal as Thai baht with 2 decimals and grouped thousands.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string {
	return moneydec.NewMoneyFromDecimal(amount).Format()
}

// FormatAmount renders a plain machine-readable amount with 2 decimals (1234.50).
func FormatAmount(amount decimal.Decimal) string {
	return moneydec.NewMoneyFromDecimal(amount).String()
}

// FormatPercentage formats a fraction (0.35) as a percentage with 2 decimals (35.00%).
func FormatPercentage(fraction decimal.Decimal) string {
	return fraction.Mul(decimalHundred).StringFixed(2) + "%"
}

