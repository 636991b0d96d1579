package output

import (
	"fmt"

	"github.com/stockdash/taxengine/internal/calculation"
)

// GenerateAssumptions lists the rule values a computation relied on, for the detailed outputs.
func GenerateAssumptions(rules calculation.TaxRules) []string {
	out := make([]string, 0, 6)
	if n := len(rules.Brackets); n > 0 {
		top := rules.Brackets[n-1]
		out = append(out, fmt.Sprintf("Progressive tax: %d brackets, top rate %s above %s",
			n, FormatPercentage(top.Rate), FormatCurrency(top.Min)))
	}
	caps := rules.Caps
	out = append(out,
		fmt.Sprintf("Dividend withholding at source: %s, credited back when filing with the dividend credit",
			FormatPercentage(rules.DividendWithholdingRate)),
		fmt.Sprintf("Personal allowance %s, spouse %s, social security up to %s",
			FormatCurrency(caps.Personal), FormatCurrency(caps.Spouse), FormatCurrency(caps.SocialSecurity)),
		fmt.Sprintf("RMF up to %s of income (max %s), SSF up to %s of income (max %s)",
			FormatPercentage(caps.RMFIncomeRate), FormatCurrency(caps.RMFMax),
			FormatPercentage(caps.SSFIncomeRate), FormatCurrency(caps.SSFMax)),
		fmt.Sprintf("Life insurance up to %s, home loan interest up to %s, general donations up to %s of income",
			FormatCurrency(caps.LifeInsurance), FormatCurrency(caps.HomeLoanInterest), FormatPercentage(caps.DonationGeneralRate)),
		"Unused dividend credit is refunded in cash",
	)
	return out
}

// DefaultAssumptions describes the built-in rules.
var DefaultAssumptions = GenerateAssumptions(calculation.DefaultTaxRules())
