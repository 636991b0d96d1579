package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdash/taxengine/internal/calculation"
	"github.com/stockdash/taxengine/internal/config"
	"github.com/stockdash/taxengine/internal/output"
)

func comparisonReport(t *testing.T) *output.Report {
	t.Helper()
	parser := config.NewInputParser()
	decls, err := parser.LoadDeclarations("../testdata/declarations.yaml")
	require.NoError(t, err)

	engine := calculation.NewTaxEngine()
	comparisons, err := engine.CompareAll(context.Background(), decls)
	require.NoError(t, err)
	return output.NewComparisonReport(comparisons...).WithAssumptions(output.GenerateAssumptions(engine.Rules))
}

func TestOutputGeneration(t *testing.T) {
	report := comparisonReport(t)
	dir := t.TempDir()

	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "report-"+name+"."+output.Extension(name))
			written, err := output.GenerateReport(report, name, path, nil)
			require.NoError(t, err)
			assert.Equal(t, path, written)

			fi, err := os.Stat(written)
			require.NoError(t, err)
			assert.Positive(t, fi.Size())
		})
	}
}

func TestConsoleReportMentionsEveryYear(t *testing.T) {
	var buf strings.Builder
	_, err := output.GenerateReport(comparisonReport(t), "console", "", &buf)
	require.NoError(t, err)
	for _, year := range []string{"2021", "2022", "2023", "2024"} {
		assert.Contains(t, buf.String(), "TAX YEAR "+year)
	}
	assert.Contains(t, buf.String(), "RECOMMENDATION: FINAL_TAX")
}
