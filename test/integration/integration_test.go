package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdash/taxengine/internal/calculation"
	"github.com/stockdash/taxengine/internal/config"
	"github.com/stockdash/taxengine/internal/domain"
)

func TestEndToEndCalculation(t *testing.T) {
	// Test that we can load a declaration and run the comparison
	parser := config.NewInputParser()
	decl, err := parser.LoadFromFile("../testdata/example_declaration.yaml")
	require.NoError(t, err)
	require.NotNil(t, decl)
	assert.Equal(t, 2024, decl.TaxYear)
	assert.True(t, decl.IncludeDividendCredit)

	engine := calculation.NewTaxEngine()
	result, err := engine.Calculate(*decl)
	require.NoError(t, err)
	assert.True(t, result.IncludeDividendCredit)
	assert.True(t, result.NetTaxableIncome.IsPositive())
	assert.True(t, result.TaxBeforeCredit.GreaterThanOrEqual(result.TaxAfterCredit))

	comparison, err := engine.Compare(*decl)
	require.NoError(t, err)
	// At the statutory factor the credit always outweighs the extra tax on the gross-up.
	assert.Equal(t, domain.ChoiceWithCredit, comparison.BestChoice)
	assert.True(t, comparison.Savings.IsPositive())
	assert.True(t, result.NetCashOutcome().Equal(comparison.WithCredit.NetCashOutcome()))
}

func TestDeclarationScenarios(t *testing.T) {
	parser := config.NewInputParser()
	decls, err := parser.LoadDeclarations("../testdata/declarations.yaml")
	require.NoError(t, err)
	require.Len(t, decls, 4)

	engine := calculation.NewTaxEngine()
	comparisons, err := engine.CompareAll(context.Background(), decls)
	require.NoError(t, err)
	require.Len(t, comparisons, 4)

	// Nothing declared: zero result, no bracket lines, tie goes to the credit
	zero := comparisons[0]
	assert.Equal(t, 2021, zero.TaxYear)
	assert.Empty(t, zero.WithCredit.Brackets)
	assert.True(t, zero.WithCredit.EffectiveRateBefore.IsZero())
	assert.Equal(t, domain.ChoiceWithCredit, zero.BestChoice)
	assert.True(t, zero.Savings.IsZero())

	// Salary only
	salary := comparisons[1].WithoutCredit
	assert.True(t, salary.TotalIncome.Equal(decimal.NewFromInt(500000)))
	assert.True(t, salary.TotalDeductions.Equal(decimal.NewFromInt(60000)))
	assert.True(t, salary.NetTaxableIncome.Equal(decimal.NewFromInt(440000)))
	assert.True(t, salary.TaxBeforeCredit.Equal(decimal.NewFromInt(21500)))
	require.Len(t, salary.Brackets, 3)
	assert.True(t, salary.Brackets[2].Tax.Equal(decimal.NewFromInt(14000)))
	assert.True(t, comparisons[1].WithCredit.TaxPayable.Equal(salary.TaxPayable), "strategies only differ in dividend treatment")

	// Dividend only: the unused credit and the withholding come back
	dividend := comparisons[2]
	pool := dividend.WithCredit.CreditPool
	assert.True(t, pool.Equal(decimal.NewFromInt(100000).Mul(domain.StatutoryCreditFactor.Decimal())))
	assert.True(t, dividend.WithCredit.TotalCreditConsumed.LessThanOrEqual(dividend.WithCredit.TaxBeforeCredit))
	assert.True(t, dividend.WithCredit.TotalCreditConsumed.Add(dividend.WithCredit.TotalCreditRefund).Equal(pool))
	assert.True(t, dividend.WithCredit.IsRefund)
	assert.True(t, dividend.WithoutCredit.TotalIncome.IsZero())
	assert.Equal(t, domain.ChoiceWithCredit, dividend.BestChoice)
	assert.True(t, dividend.Savings.Equal(dividend.WithCredit.RefundAmount))

	// Low credit factor in the top bracket favours final tax
	top := comparisons[3]
	assert.True(t, top.WithCredit.TaxPayable.Equal(decimal.NewFromInt(1685000)))
	assert.True(t, top.WithoutCredit.TaxPayable.Equal(decimal.NewFromInt(1615000)))
	assert.Equal(t, domain.ChoiceFinalTax, top.BestChoice)
	assert.True(t, top.Savings.Equal(decimal.NewFromInt(70000)))
}

func TestInvalidDeclarationIsRejected(t *testing.T) {
	parser := config.NewInputParser()
	_, err := parser.LoadFromFile("../testdata/invalid_declaration.yaml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, calculation.ErrInvalidInput))

	var verr *calculation.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "salary", verr.Field)
}

func TestCustomRules(t *testing.T) {
	parser := config.NewInputParser()
	rules, err := parser.LoadRules("../testdata/rules_custom.yaml")
	require.NoError(t, err)

	engine, err := calculation.NewTaxEngineWithConfig(*rules)
	require.NoError(t, err)

	decls, err := parser.LoadDeclarations("../testdata/declarations.yaml")
	require.NoError(t, err)

	// Personal allowance capped at 30,000: 470,000 net, 170,000 of it at 10%
	result, err := engine.Calculate(decls[1])
	require.NoError(t, err)
	assert.True(t, result.TotalDeductions.Equal(decimal.NewFromInt(30000)))
	assert.True(t, result.TaxBeforeCredit.Equal(decimal.NewFromInt(17000)))
	require.Len(t, result.Brackets, 2)

	// 5% withholding on the dividend is credited back
	result, err = engine.Calculate(decls[2])
	require.NoError(t, err)
	assert.True(t, result.WithholdingPaid.Equal(decimal.NewFromInt(5000)))
}
