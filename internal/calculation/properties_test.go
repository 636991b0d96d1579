package calculation

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stockdash/taxengine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const propertyIterations = 500

func randAmount(r *rand.Rand, limit int64) decimal.Decimal {
	// Satang precision, occasionally exactly zero or on a bracket boundary.
	switch r.Intn(10) {
	case 0:
		return decimal.Zero
	case 1:
		bounds := []int64{150000, 300000, 500000, 750000, 1000000, 2000000, 5000000}
		return d(bounds[r.Intn(len(bounds))])
	}
	return decimal.New(r.Int63n(limit*100), -2)
}

func randDeclaration(r *rand.Rand) domain.TaxDeclaration {
	factors := []domain.CreditFactor{
		{},
		domain.StatutoryCreditFactor,
		domain.CreditFactor20,
		domain.CreditFactor10,
		domain.NewCreditFactor(decimal.New(r.Int63n(10001), -4)),
	}
	return domain.TaxDeclaration{
		TaxYear:               2020 + r.Intn(10),
		Salary:                randAmount(r, 8000000),
		Bonus:                 randAmount(r, 1000000),
		OtherIncome:           randAmount(r, 500000),
		DividendAmount:        randAmount(r, 3000000),
		IncludeDividendCredit: r.Intn(2) == 0,
		DividendCreditFactor:  factors[r.Intn(len(factors))],
		WithholdingTaxPaid:    randAmount(r, 200000),
		Deductions: domain.Deductions{
			Personal:              randAmount(r, 80000),
			Spouse:                randAmount(r, 80000),
			Child:                 randAmount(r, 90000),
			SocialSecurity:        randAmount(r, 12000),
			ProvidentFund:         randAmount(r, 50000),
			RetirementMutualFund:  randAmount(r, 600000),
			SavingsFund:           randAmount(r, 300000),
			LifeInsurance:         randAmount(r, 150000),
			HealthInsurance:       randAmount(r, 25000),
			ParentHealthInsurance: randAmount(r, 40000),
			HomeLoanInterest:      randAmount(r, 150000),
			DonationGeneral:       randAmount(r, 200000),
			DonationEducation:     randAmount(r, 50000),
		},
	}
}

func TestProperty_TaxIsMonotonicInNetIncome(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	brackets := DefaultBrackets()
	incomes := make([]decimal.Decimal, propertyIterations)
	for i := range incomes {
		incomes[i] = randAmount(r, 10000000)
	}
	sort.Slice(incomes, func(i, j int) bool { return incomes[i].LessThan(incomes[j]) })

	prev := decimal.Zero
	for _, income := range incomes {
		tax := AllocateBrackets(income, decimal.Zero, brackets).TaxBeforeCredit
		require.True(t, tax.GreaterThanOrEqual(prev), "tax decreased at income %s: %s < %s", income, tax, prev)
		prev = tax
	}
}

func TestProperty_BracketCoverage(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	brackets := DefaultBrackets()
	for i := 0; i < propertyIterations; i++ {
		income := randAmount(r, 12000000)
		alloc := AllocateBrackets(income, decimal.Zero, brackets)
		sum := decimal.Zero
		for _, line := range alloc.Lines {
			assert.True(t, line.TaxableAmount.IsPositive(), "empty bracket line for income %s", income)
			sum = sum.Add(line.TaxableAmount)
		}
		require.True(t, sum.Equal(income), "coverage mismatch for %s: %s", income, sum)
	}
}

func TestProperty_EngineInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	engine := NewTaxEngine()

	for i := 0; i < propertyIterations; i++ {
		decl := randDeclaration(r)
		result, err := engine.Calculate(decl)
		require.NoError(t, err)

		// Credit conservation
		expectedPool := decimal.Zero
		if decl.IncludeDividendCredit {
			expectedPool = decl.DividendAmount.Mul(decl.CreditFactorValue())
		}
		require.True(t, result.TotalCreditConsumed.Add(result.TotalCreditRefund).Equal(expectedPool),
			"conservation: consumed %s + refund %s != pool %s", result.TotalCreditConsumed, result.TotalCreditRefund, expectedPool)

		// Non-negativity
		require.False(t, result.TaxAfterCredit.IsNegative())
		require.False(t, result.TaxPayable.IsNegative())
		require.False(t, result.RefundAmount.IsNegative())
		require.False(t, result.NetTaxableIncome.IsNegative())
		require.True(t, result.TotalCreditConsumed.LessThanOrEqual(result.TaxBeforeCredit))
		require.False(t, result.IsRefund && result.TaxPayable.IsPositive())

		// Coverage through the full pipeline
		sum := decimal.Zero
		for _, line := range result.Brackets {
			sum = sum.Add(line.TaxableAmount)
		}
		require.True(t, sum.Equal(result.NetTaxableIncome))

		// Idempotence
		again, err := engine.Calculate(decl)
		require.NoError(t, err)
		require.Equal(t, result, again)
	}
}

func TestProperty_DualStrategyConsistency(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	engine := NewTaxEngine()

	for i := 0; i < propertyIterations; i++ {
		decl := randDeclaration(r)
		cmp, err := engine.Compare(decl)
		require.NoError(t, err)

		costWith := cmp.WithCredit.NetCashOutcome()
		costWithout := cmp.WithoutCredit.NetCashOutcome()
		if costWithout.LessThan(costWith) {
			require.Equal(t, domain.ChoiceFinalTax, cmp.BestChoice)
		} else {
			require.Equal(t, domain.ChoiceWithCredit, cmp.BestChoice)
		}
		require.True(t, cmp.Savings.Equal(costWith.Sub(costWithout).Abs()))

		// Both variants share everything except dividend treatment.
		require.True(t, cmp.WithoutCredit.TotalIncome.Equal(decl.BaseIncome()))
		require.True(t, cmp.WithCredit.TotalIncome.Sub(cmp.WithCredit.GrossedUpDividend).Equal(decl.BaseIncome()))
	}
}
