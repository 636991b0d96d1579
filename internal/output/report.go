package output

import (
	"fmt"
	"io"

	"github.com/stockdash/taxengine/internal/domain"
)

// Report is the payload every formatter renders. Commands populate only the
// sections they produce.
type Report struct {
	Comparisons []domain.StrategyComparison `yaml:"comparisons,omitempty" json:"comparisons,omitempty"`
	Results     []domain.TaxResult          `yaml:"results,omitempty" json:"results,omitempty"`
	Schedule    []domain.BracketScheduleRow `yaml:"schedule,omitempty" json:"schedule,omitempty"`
	Assumptions []string                    `yaml:"assumptions,omitempty" json:"assumptions,omitempty"`
}

// NewComparisonReport wraps strategy comparisons for rendering.
func NewComparisonReport(comparisons ...domain.StrategyComparison) *Report {
	return &Report{Comparisons: comparisons}
}

// NewResultReport wraps single-strategy results for rendering.
func NewResultReport(results ...domain.TaxResult) *Report {
	return &Report{Results: results}
}

// NewScheduleReport wraps a bracket schedule for rendering.
func NewScheduleReport(rows []domain.BracketScheduleRow) *Report {
	return &Report{Schedule: rows}
}

// WithAssumptions attaches the rule summary shown by the detailed formatters.
func (r *Report) WithAssumptions(assumptions []string) *Report {
	r.Assumptions = assumptions
	return r
}

// IsEmpty reports whether the report has nothing to render.
func (r *Report) IsEmpty() bool {
	return r == nil || (len(r.Comparisons) == 0 && len(r.Results) == 0 && len(r.Schedule) == 0)
}

// GenerateReport renders the report in the named format. Output goes to stdout when
// outputPath is empty, otherwise to the file (or timestamped file inside the directory)
// at outputPath, whose name is returned.
func GenerateReport(report *Report, format, outputPath string, stdout io.Writer) (string, error) {
	f, err := LookupFormatter(format)
	if err != nil {
		return "", err
	}
	if report.IsEmpty() {
		return "", fmt.Errorf("nothing to report")
	}
	if outputPath == "" {
		return "", WriteFormatted(stdout, f, report)
	}
	return WriteFormattedFile(f, report, outputPath)
}
