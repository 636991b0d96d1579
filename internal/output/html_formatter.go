package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/stockdash/taxengine/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
}).Parse(htmlTemplateSource))

type htmlEntry struct {
	Comparison     *domain.StrategyComparison
	Recommendation Recommendation
}

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	entries := make([]htmlEntry, 0, len(report.Comparisons))
	for i := range report.Comparisons {
		sc := &report.Comparisons[i]
		entries = append(entries, htmlEntry{Comparison: sc, Recommendation: AnalyzeComparison(sc)})
	}

	data := struct {
		*Report
		Entries []htmlEntry
	}{report, entries}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
