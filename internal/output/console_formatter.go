package output

import (
	"bytes"
	"fmt"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "THAI PERSONAL INCOME TAX SUMMARY")
	fmt.Fprintln(&buf, "================================")

	for i := range report.Results {
		r := &report.Results[i]
		fmt.Fprintf(&buf, "%d %s: NetTaxable=%s Tax=%s EffectiveRate=%s -> %s\n",
			r.TaxYear, r.Strategy(),
			FormatCurrency(r.NetTaxableIncome),
			FormatCurrency(r.TaxAfterCredit),
			FormatPercentage(r.EffectiveRateAfter),
			describeOutcome(r),
		)
	}

	recs, total := AnalyzeComparisons(report.Comparisons)
	for i, rec := range recs {
		sc := &report.Comparisons[i]
		fmt.Fprintf(&buf, "%d: %s %s | %s %s\n", sc.TaxYear,
			sc.WithCredit.Strategy(), describeOutcome(&sc.WithCredit),
			sc.WithoutCredit.Strategy(), describeOutcome(&sc.WithoutCredit))
		fmt.Fprintf(&buf, "  Recommended: %s (saves %s)\n", rec.Choice, FormatCurrency(rec.Savings))
	}
	if len(recs) > 1 {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Total savings across %d years: %s\n", len(recs), FormatCurrency(total))
	}

	for _, row := range report.Schedule {
		fmt.Fprintf(&buf, "%-22s %7s  cumulative %s\n", row.Range.Label(), FormatPercentage(row.Rate), FormatCurrency(row.CumulativeTax))
	}
	return buf.Bytes(), nil
}
