package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/stockdash/taxengine/internal/domain"
)

// CSVSummarizer implements the summary CSV output (one row per computed strategy).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if len(report.Schedule) > 0 && len(report.Results) == 0 && len(report.Comparisons) == 0 {
		if err := writeScheduleCSV(w, report.Schedule); err != nil {
			return nil, err
		}
		w.Flush()
		return buf.Bytes(), w.Error()
	}

	header := []string{"TaxYear", "Strategy", "TotalIncome", "GrossedUpDividend", "TotalDeductions", "NetTaxableIncome", "TaxBeforeCredit", "CreditPool", "CreditConsumed", "CreditRefund", "TaxAfterCredit", "WithholdingPaid", "TaxPayable", "RefundAmount", "EffectiveRateBefore", "EffectiveRateAfter", "Recommended"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := range report.Results {
		if err := w.Write(summaryRow(&report.Results[i], "")); err != nil {
			return nil, err
		}
	}
	for i := range report.Comparisons {
		sc := &report.Comparisons[i]
		for _, r := range []*domain.TaxResult{&sc.WithCredit, &sc.WithoutCredit} {
			if err := w.Write(summaryRow(r, strconv.FormatBool(r.Strategy() == sc.BestChoice))); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func summaryRow(r *domain.TaxResult, recommended string) []string {
	return []string{
		strconv.Itoa(r.TaxYear),
		string(r.Strategy()),
		FormatAmount(r.TotalIncome),
		FormatAmount(r.GrossedUpDividend),
		FormatAmount(r.TotalDeductions),
		FormatAmount(r.NetTaxableIncome),
		FormatAmount(r.TaxBeforeCredit),
		FormatAmount(r.CreditPool),
		FormatAmount(r.TotalCreditConsumed),
		FormatAmount(r.TotalCreditRefund),
		FormatAmount(r.TaxAfterCredit),
		FormatAmount(r.WithholdingPaid),
		FormatAmount(r.TaxPayable),
		FormatAmount(r.RefundAmount),
		r.EffectiveRateBefore.StringFixed(4),
		r.EffectiveRateAfter.StringFixed(4),
		recommended,
	}
}

func writeScheduleCSV(w *csv.Writer, rows []domain.BracketScheduleRow) error {
	if err := w.Write([]string{"Min", "Max", "Rate", "MaxTax", "CumulativeTax"}); err != nil {
		return err
	}
	for _, row := range rows {
		upper := FormatAmount(row.Range.Max)
		if row.Range.Unbounded {
			upper = ""
		}
		rec := []string{FormatAmount(row.Range.Min), upper, row.Rate.StringFixed(4), FormatAmount(row.MaxTax), FormatAmount(row.CumulativeTax)}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
