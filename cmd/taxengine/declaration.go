package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/stockdash/taxengine/internal/domain"
	"github.com/stockdash/taxengine/pkg/dateutil"
	moneydec "github.com/stockdash/taxengine/pkg/decimal"
)

// declarationInput collects a declaration from --file or from individual flags.
type declarationInput struct {
	file         string
	taxYear      int
	salary       float64
	bonus        float64
	otherIncome  float64
	dividend     float64
	withholding  float64
	withCredit   bool
	creditFactor string
	deductions   map[string]*float64
}

var incomeFlags = []string{"tax-year", "salary", "bonus", "other-income", "dividend", "withholding"}

func (in *declarationInput) register(cmd *cobra.Command, withCreditFlag bool) {
	f := cmd.Flags()
	f.StringVar(&in.file, "file", "", "declaration file (YAML or JSON); may hold a declarations list")
	f.IntVar(&in.taxYear, "tax-year", dateutil.TaxYearFor(time.Now()), "tax year (calendar year of the income)")
	f.Float64Var(&in.salary, "salary", 0, "annual salary")
	f.Float64Var(&in.bonus, "bonus", 0, "annual bonus")
	f.Float64Var(&in.otherIncome, "other-income", 0, "other assessable income")
	f.Float64Var(&in.dividend, "dividend", 0, "gross dividends received")
	f.Float64Var(&in.withholding, "withholding", 0, "tax already withheld on salary and other income")
	f.StringVar(&in.creditFactor, "credit-factor", "", "dividend credit factor: decimal, ratio such as 3/7, or preset (statutory, 30, 20, 10)")
	if withCreditFlag {
		f.BoolVar(&in.withCredit, "with-credit", false, "file dividends with the gross-up and tax credit")
	}

	in.deductions = make(map[string]*float64)
	for _, field := range (domain.Deductions{}).Fields() {
		v := new(float64)
		in.deductions[field.Name] = v
		f.Float64Var(v, flagName(field.Name), 0, "deduction claimed: "+strings.ReplaceAll(field.Name, "_", " "))
	}
}

func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

// load returns the declarations to compute. Flags given alongside --file override the
// credit election and factor of every declaration in the file.
func (in *declarationInput) load(cmd *cobra.Command, a *app) ([]domain.TaxDeclaration, error) {
	flags := cmd.Flags()

	var decls []domain.TaxDeclaration
	if in.file != "" {
		for _, name := range incomeFlags {
			if flags.Changed(name) {
				return nil, fmt.Errorf("--%s cannot be combined with --file", name)
			}
		}
		for name := range in.deductions {
			if flags.Changed(flagName(name)) {
				return nil, fmt.Errorf("--%s cannot be combined with --file", flagName(name))
			}
		}
		loaded, err := a.parser.LoadDeclarations(in.file)
		if err != nil {
			return nil, err
		}
		decls = loaded
	} else {
		decl, err := in.fromFlags()
		if err != nil {
			return nil, err
		}
		decls = []domain.TaxDeclaration{decl}
	}

	factor := a.settings.CreditFactor
	override := false
	if in.creditFactor != "" {
		cf, err := domain.ParseCreditFactor(in.creditFactor)
		if err != nil {
			return nil, fmt.Errorf("--credit-factor: %w", err)
		}
		factor, override = cf, true
	}
	for i := range decls {
		if override || (!decls[i].DividendCreditFactor.IsSet() && factor.IsSet()) {
			decls[i].DividendCreditFactor = factor
		}
		if flags.Lookup("with-credit") != nil && flags.Changed("with-credit") {
			decls[i].IncludeDividendCredit = in.withCredit
		}
		if err := a.parser.ValidateDeclaration(&decls[i]); err != nil {
			return nil, err
		}
	}
	return decls, nil
}

func (in *declarationInput) fromFlags() (domain.TaxDeclaration, error) {
	decl := domain.TaxDeclaration{
		TaxYear:               in.taxYear,
		IncludeDividendCredit: in.withCredit,
	}
	amounts := []struct {
		flag  string
		value float64
		dst   *decimal.Decimal
	}{
		{"salary", in.salary, &decl.Salary},
		{"bonus", in.bonus, &decl.Bonus},
		{"other-income", in.otherIncome, &decl.OtherIncome},
		{"dividend", in.dividend, &decl.DividendAmount},
		{"withholding", in.withholding, &decl.WithholdingTaxPaid},
	}
	for _, amt := range amounts {
		d, err := moneydec.FromFloat(amt.value)
		if err != nil {
			return decl, fmt.Errorf("--%s: %w", amt.flag, err)
		}
		*amt.dst = d
	}
	for name, v := range in.deductions {
		d, err := moneydec.FromFloat(*v)
		if err != nil {
			return decl, fmt.Errorf("--%s: %w", flagName(name), err)
		}
		if err := decl.Deductions.Set(name, d); err != nil {
			return decl, err
		}
	}
	return decl, nil
}
