package output

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stockdash/taxengine/internal/domain"
)

// Recommendation encapsulates the selection result for one strategy comparison.
type Recommendation struct {
	TaxYear    int
	Choice     domain.Choice
	NetCash    decimal.Decimal // net cash outcome of the recommended strategy; negative is a refund
	Savings    decimal.Decimal
	SavingsPct decimal.Decimal // savings relative to the gross income under the recommended strategy
	Summary    string
}

// AnalyzeComparison turns a strategy comparison into a human-readable recommendation.
// Extracted from the console formatters for testability.
func AnalyzeComparison(sc *domain.StrategyComparison) Recommendation {
	best := sc.Best()
	rec := Recommendation{
		TaxYear:    sc.TaxYear,
		Choice:     sc.BestChoice,
		NetCash:    best.NetCashOutcome(),
		Savings:    sc.Savings,
		SavingsPct: decimal.Zero,
	}
	if best.TotalIncome.IsPositive() {
		rec.SavingsPct = sc.Savings.Div(best.TotalIncome)
	}

	switch {
	case sc.Savings.IsZero():
		rec.Summary = "Both strategies give the same result; filing with the dividend credit is recommended"
	case sc.BestChoice == domain.ChoiceWithCredit:
		rec.Summary = fmt.Sprintf("Include dividends with the tax credit to save %s", FormatCurrency(sc.Savings))
	default:
		rec.Summary = fmt.Sprintf("Leave dividends as final withholding tax to save %s", FormatCurrency(sc.Savings))
	}
	return rec
}

// AnalyzeComparisons analyzes each comparison and totals the savings across them.
func AnalyzeComparisons(comparisons []domain.StrategyComparison) ([]Recommendation, decimal.Decimal) {
	recs := make([]Recommendation, 0, len(comparisons))
	total := decimal.Zero
	for i := range comparisons {
		rec := AnalyzeComparison(&comparisons[i])
		total = total.Add(rec.Savings)
		recs = append(recs, rec)
	}
	return recs, total
}

// describeOutcome renders a result's bottom line, e.g. "pay ฿1,000.00" or "refund ฿250.00".
func describeOutcome(r *domain.TaxResult) string {
	if r.IsRefund {
		return "refund " + FormatCurrency(r.RefundAmount)
	}
	return "pay " + FormatCurrency(r.TaxPayable)
}
