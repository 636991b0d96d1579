package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stockdash/taxengine/internal/domain"
	moneydec "github.com/stockdash/taxengine/pkg/decimal"
)

// TaxBracket represents one progressive income tax bracket.
// The bracket covers [Min, Max); a zero Max marks the unbounded top bracket.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// IsUnbounded reports whether the bracket has no upper limit.
func (b TaxBracket) IsUnbounded() bool {
	return b.Max.IsZero()
}

// Width is the size of a bounded bracket. It must not be called on the top bracket.
func (b TaxBracket) Width() decimal.Decimal {
	return b.Max.Sub(b.Min)
}

// Range converts the bracket bounds into the result representation.
func (b TaxBracket) Range() domain.BracketRange {
	return domain.BracketRange{Min: b.Min, Max: b.Max, Unbounded: b.IsUnbounded()}
}

// DefaultBrackets returns the Thai personal income tax schedule.
func DefaultBrackets() []TaxBracket {
	return []TaxBracket{
		{decimal.Zero, decimal.NewFromInt(150000), decimal.Zero},
		{decimal.NewFromInt(150000), decimal.NewFromInt(300000), decimal.NewFromFloat(0.05)},
		{decimal.NewFromInt(300000), decimal.NewFromInt(500000), decimal.NewFromFloat(0.10)},
		{decimal.NewFromInt(500000), decimal.NewFromInt(750000), decimal.NewFromFloat(0.15)},
		{decimal.NewFromInt(750000), decimal.NewFromInt(1000000), decimal.NewFromFloat(0.20)},
		{decimal.NewFromInt(1000000), decimal.NewFromInt(2000000), decimal.NewFromFloat(0.25)},
		{decimal.NewFromInt(2000000), decimal.NewFromInt(5000000), decimal.NewFromFloat(0.30)},
		{decimal.NewFromInt(5000000), decimal.Zero, decimal.NewFromFloat(0.35)},
	}
}

// NewBrackets converts configured brackets, falling back to the default schedule when none are given.
func NewBrackets(cfg []domain.BracketConfig) ([]TaxBracket, error) {
	if len(cfg) == 0 {
		return DefaultBrackets(), nil
	}
	brackets := make([]TaxBracket, 0, len(cfg))
	for _, b := range cfg {
		brackets = append(brackets, TaxBracket{Min: b.Min, Max: b.Max, Rate: b.Rate})
	}
	if err := ValidateBrackets(brackets); err != nil {
		return nil, err
	}
	return brackets, nil
}

// ValidateBrackets checks that brackets start at zero, are contiguous and ascending,
// carry rates in [0,1], and end with exactly one unbounded bracket.
func ValidateBrackets(brackets []TaxBracket) error {
	if len(brackets) == 0 {
		return fmt.Errorf("bracket table is empty")
	}
	if !brackets[0].Min.IsZero() {
		return fmt.Errorf("first bracket must start at 0, got %s", brackets[0].Min)
	}
	for i, b := range brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("bracket %d: rate %s must be between 0 and 1", i, b.Rate)
		}
		last := i == len(brackets)-1
		if b.IsUnbounded() != last {
			if last {
				return fmt.Errorf("bracket %d: top bracket must be unbounded (omit max)", i)
			}
			return fmt.Errorf("bracket %d: only the top bracket may be unbounded", i)
		}
		if !last {
			if b.Max.LessThanOrEqual(b.Min) {
				return fmt.Errorf("bracket %d: max %s must be greater than min %s", i, b.Max, b.Min)
			}
			if !brackets[i+1].Min.Equal(b.Max) {
				return fmt.Errorf("bracket %d: min %s must equal previous max %s", i+1, brackets[i+1].Min, b.Max)
			}
		}
	}
	return nil
}

// Allocation is the outcome of spreading net taxable income over the bracket table.
type Allocation struct {
	Lines           []domain.BracketLine
	TaxBeforeCredit decimal.Decimal
	CreditConsumed  decimal.Decimal
	CreditRefund    decimal.Decimal
	TaxAfterCredit  decimal.Decimal
}

// AllocateBrackets walks the brackets in ascending order, taxing each slice of
// netTaxable at its marginal rate and consuming creditPool against the tax of each
// bracket until the pool is exhausted. Credit left after the last populated bracket
// is refundable. Zero income yields no lines and refunds the whole pool.
func AllocateBrackets(netTaxable, creditPool decimal.Decimal, brackets []TaxBracket) Allocation {
	remainingIncome := netTaxable
	remainingCredit := creditPool
	alloc := Allocation{
		TaxBeforeCredit: decimal.Zero,
		CreditConsumed:  decimal.Zero,
	}

	for _, bracket := range brackets {
		if !remainingIncome.IsPositive() {
			break
		}

		// The top bracket absorbs everything left; it never enters the min() below.
		amount := remainingIncome
		if !bracket.IsUnbounded() {
			amount = decimal.Min(remainingIncome, bracket.Width())
		}

		tax := amount.Mul(bracket.Rate)
		consumed := decimal.Min(tax, remainingCredit)
		remainingCredit = remainingCredit.Sub(consumed)

		alloc.Lines = append(alloc.Lines, domain.BracketLine{
			Range:             bracket.Range(),
			Rate:              bracket.Rate,
			TaxableAmount:     amount,
			Tax:               tax,
			CreditConsumed:    consumed,
			CreditCarriedOver: remainingCredit,
		})
		alloc.TaxBeforeCredit = alloc.TaxBeforeCredit.Add(tax)
		alloc.CreditConsumed = alloc.CreditConsumed.Add(consumed)
		remainingIncome = remainingIncome.Sub(amount)
	}

	alloc.CreditRefund = remainingCredit
	alloc.TaxAfterCredit = moneydec.NewMoneyFromDecimal(alloc.TaxBeforeCredit.Sub(alloc.CreditConsumed)).FloorZero().Decimal
	return alloc
}

// Schedule lists the bracket table with the tax owed on a full bracket and the running
// total at each upper bound. The unbounded bracket reports the total at its lower bound.
func Schedule(brackets []TaxBracket) []domain.BracketScheduleRow {
	rows := make([]domain.BracketScheduleRow, 0, len(brackets))
	cumulative := decimal.Zero
	for _, b := range brackets {
		row := domain.BracketScheduleRow{Range: b.Range(), Rate: b.Rate, MaxTax: decimal.Zero}
		if !b.IsUnbounded() {
			row.MaxTax = b.Width().Mul(b.Rate)
			cumulative = cumulative.Add(row.MaxTax)
		}
		row.CumulativeTax = cumulative
		rows = append(rows, row)
	}
	return rows
}
