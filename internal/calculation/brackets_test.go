package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stockdash/taxengine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v decimal.Decimal) *decimal.Decimal { return &v }

func TestDefaultBracketsAreValid(t *testing.T) {
	brackets := DefaultBrackets()
	require.Len(t, brackets, 8)
	require.NoError(t, ValidateBrackets(brackets))
	assert.True(t, brackets[7].IsUnbounded())
	assert.True(t, brackets[7].Rate.Equal(decimal.NewFromFloat(0.35)))
	for _, b := range brackets[:7] {
		assert.False(t, b.IsUnbounded())
	}
}

func TestValidateBracketsRejectsBadTables(t *testing.T) {
	tests := []struct {
		name     string
		brackets []TaxBracket
	}{
		{"empty", nil},
		{"does not start at zero", []TaxBracket{{d(100), decimal.Zero, decimal.Zero}}},
		{"gap between brackets", []TaxBracket{
			{decimal.Zero, d(100), decimal.Zero},
			{d(200), decimal.Zero, decimal.NewFromFloat(0.1)},
		}},
		{"top bracket bounded", []TaxBracket{
			{decimal.Zero, d(100), decimal.Zero},
			{d(100), d(200), decimal.NewFromFloat(0.1)},
		}},
		{"unbounded in the middle", []TaxBracket{
			{decimal.Zero, decimal.Zero, decimal.Zero},
			{d(100), decimal.Zero, decimal.NewFromFloat(0.1)},
		}},
		{"descending bounds", []TaxBracket{
			{decimal.Zero, d(100), decimal.Zero},
			{d(100), d(50), decimal.NewFromFloat(0.1)},
			{d(50), decimal.Zero, decimal.NewFromFloat(0.2)},
		}},
		{"rate above one", []TaxBracket{{decimal.Zero, decimal.Zero, decimal.NewFromFloat(1.5)}}},
		{"negative rate", []TaxBracket{{decimal.Zero, decimal.Zero, decimal.NewFromFloat(-0.1)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidateBrackets(tt.brackets))
		})
	}
}

func TestNewBracketsFallsBackToDefaults(t *testing.T) {
	brackets, err := NewBrackets(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultBrackets(), brackets)

	custom, err := NewBrackets([]domain.BracketConfig{
		{Min: decimal.Zero, Max: d(100000), Rate: decimal.Zero},
		{Min: d(100000), Rate: decimal.NewFromFloat(0.2)},
	})
	require.NoError(t, err)
	require.Len(t, custom, 2)
	assert.True(t, custom[1].IsUnbounded())

	_, err = NewBrackets([]domain.BracketConfig{{Min: d(5), Rate: decimal.Zero}})
	assert.Error(t, err)
}

func TestAllocateBrackets(t *testing.T) {
	brackets := DefaultBrackets()

	tests := []struct {
		name          string
		netTaxable    decimal.Decimal
		creditPool    decimal.Decimal
		wantLines     int
		wantTaxBefore decimal.Decimal
		wantConsumed  decimal.Decimal
		wantRefund    decimal.Decimal
		wantTaxAfter  decimal.Decimal
	}{
		{
			name:          "zero income refunds whole pool",
			netTaxable:    decimal.Zero,
			creditPool:    d(1000),
			wantLines:     0,
			wantTaxBefore: decimal.Zero,
			wantConsumed:  decimal.Zero,
			wantRefund:    d(1000),
			wantTaxAfter:  decimal.Zero,
		},
		{
			name:          "exempt bracket only",
			netTaxable:    d(150000),
			creditPool:    decimal.Zero,
			wantLines:     1,
			wantTaxBefore: decimal.Zero,
			wantConsumed:  decimal.Zero,
			wantRefund:    decimal.Zero,
			wantTaxAfter:  decimal.Zero,
		},
		{
			name:          "three brackets",
			netTaxable:    d(440000),
			creditPool:    decimal.Zero,
			wantLines:     3,
			wantTaxBefore: d(21500), // 150000@0 + 150000@5% + 140000@10%
			wantConsumed:  decimal.Zero,
			wantRefund:    decimal.Zero,
			wantTaxAfter:  d(21500),
		},
		{
			name:          "credit partially consumed",
			netTaxable:    d(440000),
			creditPool:    d(10000),
			wantLines:     3,
			wantTaxBefore: d(21500),
			wantConsumed:  d(10000),
			wantRefund:    decimal.Zero,
			wantTaxAfter:  d(11500),
		},
		{
			name:          "credit exceeds liability",
			netTaxable:    d(200000),
			creditPool:    d(5000),
			wantLines:     2,
			wantTaxBefore: d(2500),
			wantConsumed:  d(2500),
			wantRefund:    d(2500),
			wantTaxAfter:  decimal.Zero,
		},
		{
			name:          "top bracket",
			netTaxable:    d(6000000),
			creditPool:    decimal.Zero,
			wantLines:     8,
			wantTaxBefore: d(1615000),
			wantConsumed:  decimal.Zero,
			wantRefund:    decimal.Zero,
			wantTaxAfter:  d(1615000),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := AllocateBrackets(tt.netTaxable, tt.creditPool, brackets)
			assert.Len(t, alloc.Lines, tt.wantLines)
			assert.True(t, alloc.TaxBeforeCredit.Equal(tt.wantTaxBefore), "tax before: got %s want %s", alloc.TaxBeforeCredit, tt.wantTaxBefore)
			assert.True(t, alloc.CreditConsumed.Equal(tt.wantConsumed), "consumed: got %s want %s", alloc.CreditConsumed, tt.wantConsumed)
			assert.True(t, alloc.CreditRefund.Equal(tt.wantRefund), "refund: got %s want %s", alloc.CreditRefund, tt.wantRefund)
			assert.True(t, alloc.TaxAfterCredit.Equal(tt.wantTaxAfter), "tax after: got %s want %s", alloc.TaxAfterCredit, tt.wantTaxAfter)
		})
	}
}

func TestAllocateBracketsCreditCarriesAcrossBrackets(t *testing.T) {
	alloc := AllocateBrackets(d(7000000), d(200000), DefaultBrackets())
	require.Len(t, alloc.Lines, 8)

	wantConsumed := []int64{0, 7500, 20000, 37500, 50000, 85000, 0, 0}
	wantCarried := []int64{200000, 192500, 172500, 135000, 85000, 0, 0, 0}
	for i, line := range alloc.Lines {
		assert.True(t, line.CreditConsumed.Equal(d(wantConsumed[i])), "line %d consumed %s", i, line.CreditConsumed)
		assert.True(t, line.CreditCarriedOver.Equal(d(wantCarried[i])), "line %d carried %s", i, line.CreditCarriedOver)
	}
	last := alloc.Lines[7]
	assert.True(t, last.Range.Unbounded)
	assert.True(t, last.TaxableAmount.Equal(d(2000000)))
	assert.True(t, alloc.TaxBeforeCredit.Equal(d(1965000)))
	assert.True(t, alloc.TaxAfterCredit.Equal(d(1765000)))
}

func TestAllocateBracketsBoundaryIncome(t *testing.T) {
	// Income landing exactly on a bracket boundary must not spill into the next bracket.
	alloc := AllocateBrackets(d(300000), decimal.Zero, DefaultBrackets())
	require.Len(t, alloc.Lines, 2)
	assert.True(t, alloc.Lines[1].TaxableAmount.Equal(d(150000)))
	assert.True(t, alloc.TaxBeforeCredit.Equal(d(7500)))
}

func TestSchedule(t *testing.T) {
	rows := Schedule(DefaultBrackets())
	require.Len(t, rows, 8)

	wantMax := []int64{0, 7500, 20000, 37500, 50000, 250000, 900000, 0}
	wantCumulative := []int64{0, 7500, 27500, 65000, 115000, 365000, 1265000, 1265000}
	for i, row := range rows {
		assert.True(t, row.MaxTax.Equal(d(wantMax[i])), "row %d max tax %s", i, row.MaxTax)
		assert.True(t, row.CumulativeTax.Equal(d(wantCumulative[i])), "row %d cumulative %s", i, row.CumulativeTax)
	}
	assert.Equal(t, "5,000,000+", rows[7].Range.Label())

	// The cumulative figure at an upper bound is the tax on exactly that income.
	alloc := AllocateBrackets(d(2000000), decimal.Zero, DefaultBrackets())
	assert.True(t, alloc.TaxBeforeCredit.Equal(rows[5].CumulativeTax))
}
