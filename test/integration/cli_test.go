package integration

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdash/taxengine/internal/calculation"
	"github.com/stockdash/taxengine/internal/config"
)

func TestExampleDeclarationMatchesTestdata(t *testing.T) {
	parser := config.NewInputParser()
	example := parser.CreateExampleDeclaration()

	fromFile, err := parser.LoadFromFile("../testdata/example_declaration.yaml")
	require.NoError(t, err)

	assert.Equal(t, example.TaxYear, fromFile.TaxYear)
	assert.True(t, example.BaseIncome().Equal(fromFile.BaseIncome()))
	assert.True(t, example.Deductions.Total().Equal(fromFile.Deductions.Total()))
	assert.True(t, example.CreditFactorValue().Equal(fromFile.CreditFactorValue()))

	engine := calculation.NewTaxEngine()
	want, err := engine.Calculate(*example)
	require.NoError(t, err)
	got, err := engine.Calculate(*fromFile)
	require.NoError(t, err)
	assert.True(t, want.NetCashOutcome().Equal(got.NetCashOutcome()))
}

func TestSaveDeclaration_RoundTrip(t *testing.T) {
	parser := config.NewInputParser()
	decls, err := parser.LoadDeclarations("../testdata/declarations.yaml")
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "decl.yaml")
	require.NoError(t, parser.SaveDeclaration(&decls[3], out))

	loaded, err := parser.LoadFromFile(out)
	require.NoError(t, err)
	assert.True(t, loaded.CreditFactorValue().Equal(decls[3].CreditFactorValue()))
	assert.True(t, loaded.Salary.Equal(decls[3].Salary))
}
