package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/stockdash/taxengine/internal/domain"
	"github.com/stockdash/taxengine/pkg/dateutil"
)

// ConsoleVerboseFormatter renders the detailed console report with per-bracket tables.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, "DETAILED THAI PERSONAL INCOME TAX ANALYSIS")
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf)

	if len(report.Assumptions) > 0 {
		fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
		for _, a := range report.Assumptions {
			fmt.Fprintf(&buf, "• %s\n", a)
		}
		fmt.Fprintln(&buf)
	}

	for i := range report.Results {
		writeResultDetail(&buf, &report.Results[i])
	}

	for i := range report.Comparisons {
		sc := &report.Comparisons[i]
		fmt.Fprintf(&buf, "TAX YEAR %d: STRATEGY COMPARISON\n", sc.TaxYear)
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		writeComparisonTable(&buf, sc)
		fmt.Fprintln(&buf)
		writeResultDetail(&buf, &sc.WithCredit)
		writeResultDetail(&buf, &sc.WithoutCredit)

		rec := AnalyzeComparison(sc)
		fmt.Fprintf(&buf, "RECOMMENDATION: %s\n", rec.Choice)
		fmt.Fprintf(&buf, "  %s (%s of income)\n", rec.Summary, FormatPercentage(rec.SavingsPct))
		fmt.Fprintln(&buf)
	}

	if len(report.Schedule) > 0 {
		fmt.Fprintln(&buf, "TAX BRACKET SCHEDULE")
		fmt.Fprintln(&buf, strings.Repeat("=", 50))
		fmt.Fprintf(&buf, "%-22s %8s %18s %18s\n", "Income Range", "Rate", "Max Tax", "Cumulative Tax")
		for _, row := range report.Schedule {
			maxTax := FormatCurrency(row.MaxTax)
			if row.Range.Unbounded {
				maxTax = "-"
			}
			fmt.Fprintf(&buf, "%-22s %8s %18s %18s\n", row.Range.Label(), FormatPercentage(row.Rate), maxTax, FormatCurrency(row.CumulativeTax))
		}
	}
	return buf.Bytes(), nil
}

func writeComparisonTable(buf *bytes.Buffer, sc *domain.StrategyComparison) {
	w, f := &sc.WithCredit, &sc.WithoutCredit
	row := func(label, a, b string) {
		fmt.Fprintf(buf, "%-24s %20s %20s\n", label, a, b)
	}
	row("", string(w.Strategy()), string(f.Strategy()))
	row("Total Income", FormatCurrency(w.TotalIncome), FormatCurrency(f.TotalIncome))
	row("Net Taxable Income", FormatCurrency(w.NetTaxableIncome), FormatCurrency(f.NetTaxableIncome))
	row("Tax Before Credit", FormatCurrency(w.TaxBeforeCredit), FormatCurrency(f.TaxBeforeCredit))
	row("Tax After Credit", FormatCurrency(w.TaxAfterCredit), FormatCurrency(f.TaxAfterCredit))
	row("Withholding Paid", FormatCurrency(w.WithholdingPaid), FormatCurrency(f.WithholdingPaid))
	row("Net Cash Outcome", FormatCurrency(w.NetCashOutcome()), FormatCurrency(f.NetCashOutcome()))
}

func writeResultDetail(buf *bytes.Buffer, r *domain.TaxResult) {
	fmt.Fprintf(buf, "%d %s\n", r.TaxYear, r.Strategy())
	fmt.Fprintln(buf, strings.Repeat("-", 50))
	fmt.Fprintf(buf, "Filing Deadline:       %s\n", dateutil.FilingDeadline(r.TaxYear).Format("2 January 2006"))
	fmt.Fprintf(buf, "Total Income:          %s\n", FormatCurrency(r.TotalIncome))
	if r.GrossedUpDividend.IsPositive() {
		fmt.Fprintf(buf, "  Grossed-up Dividend: %s\n", FormatCurrency(r.GrossedUpDividend))
	}
	fmt.Fprintf(buf, "Total Deductions:      %s\n", FormatCurrency(r.TotalDeductions))
	for _, field := range r.CappedDeductions.Fields() {
		if field.Amount.IsPositive() {
			fmt.Fprintf(buf, "  %-22s %s\n", field.Name+":", FormatCurrency(field.Amount))
		}
	}
	fmt.Fprintf(buf, "Net Taxable Income:    %s\n", FormatCurrency(r.NetTaxableIncome))
	fmt.Fprintln(buf)

	if len(r.Brackets) > 0 {
		fmt.Fprintf(buf, "  %-22s %8s %16s %14s %14s %14s\n", "Bracket", "Rate", "Taxable", "Tax", "Credit Used", "Credit Left")
		for _, line := range r.Brackets {
			fmt.Fprintf(buf, "  %-22s %8s %16s %14s %14s %14s\n",
				line.Range.Label(), FormatPercentage(line.Rate),
				FormatCurrency(line.TaxableAmount), FormatCurrency(line.Tax),
				FormatCurrency(line.CreditConsumed), FormatCurrency(line.CreditCarriedOver))
		}
		fmt.Fprintln(buf)
	}

	fmt.Fprintf(buf, "Tax Before Credit:     %s (%s effective)\n", FormatCurrency(r.TaxBeforeCredit), FormatPercentage(r.EffectiveRateBefore))
	if r.IncludeDividendCredit {
		fmt.Fprintf(buf, "Dividend Credit:       %s (used %s, refunded %s)\n",
			FormatCurrency(r.CreditPool), FormatCurrency(r.TotalCreditConsumed), FormatCurrency(r.TotalCreditRefund))
	}
	fmt.Fprintf(buf, "Tax After Credit:      %s (%s effective)\n", FormatCurrency(r.TaxAfterCredit), FormatPercentage(r.EffectiveRateAfter))
	fmt.Fprintf(buf, "Withholding Paid:      %s\n", FormatCurrency(r.WithholdingPaid))
	if r.IsRefund {
		fmt.Fprintf(buf, "REFUND DUE:            %s\n", FormatCurrency(r.RefundAmount))
	} else {
		fmt.Fprintf(buf, "TAX PAYABLE:           %s\n", FormatCurrency(r.TaxPayable))
	}
	fmt.Fprintln(buf)
}
