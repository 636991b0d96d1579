package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/stockdash/taxengine/internal/domain"
)

// CSVDetailedExporter provides one row per populated bracket line per computed strategy.
type CSVDetailedExporter struct{}

func (c CSVDetailedExporter) Name() string { return "detailed-csv" }

func (c CSVDetailedExporter) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"TaxYear", "Strategy", "BracketMin", "BracketMax", "Rate", "TaxableAmount", "Tax", "CreditConsumed", "CreditCarriedOver"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	results := make([]*domain.TaxResult, 0, len(report.Results)+2*len(report.Comparisons))
	for i := range report.Results {
		results = append(results, &report.Results[i])
	}
	for i := range report.Comparisons {
		results = append(results, &report.Comparisons[i].WithCredit, &report.Comparisons[i].WithoutCredit)
	}

	for _, r := range results {
		for _, line := range r.Brackets {
			upper := FormatAmount(line.Range.Max)
			if line.Range.Unbounded {
				upper = ""
			}
			row := []string{
				strconv.Itoa(r.TaxYear),
				string(r.Strategy()),
				FormatAmount(line.Range.Min),
				upper,
				line.Rate.StringFixed(4),
				FormatAmount(line.TaxableAmount),
				FormatAmount(line.Tax),
				FormatAmount(line.CreditConsumed),
				FormatAmount(line.CreditCarriedOver),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
