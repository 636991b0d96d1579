package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	moneydec "github.com/stockdash/taxengine/pkg/decimal"
	"gopkg.in/yaml.v3"
)

// TaxDeclaration is a full year's income and deduction declaration for one taxpayer.
// It is treated as immutable by the engine; variants are produced by copying.
type TaxDeclaration struct {
	TaxYear     int             `yaml:"tax_year" json:"tax_year"`
	Salary      decimal.Decimal `yaml:"salary" json:"salary"`
	Bonus       decimal.Decimal `yaml:"bonus" json:"bonus"`
	OtherIncome decimal.Decimal `yaml:"other_income" json:"other_income"`

	// Gross dividend received
	DividendAmount        decimal.Decimal `yaml:"dividend_amount" json:"dividend_amount"`
	IncludeDividendCredit bool            `yaml:"include_dividend_credit" json:"include_dividend_credit"`
	DividendCreditFactor  CreditFactor    `yaml:"dividend_credit_factor,omitempty" json:"dividend_credit_factor,omitempty"`

	// Tax already withheld at source on salary and other income (not dividends)
	WithholdingTaxPaid decimal.Decimal `yaml:"withholding_tax_paid,omitempty" json:"withholding_tax_paid,omitempty"`

	Deductions Deductions `yaml:"deductions" json:"deductions"`
}

// Deductions holds the raw, pre-cap deduction amounts claimed by the taxpayer.
// Per-dependent multiplication (children, parents, doubled education donations)
// is the caller's responsibility.
type Deductions struct {
	Personal              decimal.Decimal `yaml:"personal" json:"personal"`
	Spouse                decimal.Decimal `yaml:"spouse" json:"spouse"`
	Child                 decimal.Decimal `yaml:"child" json:"child"`
	Parent                decimal.Decimal `yaml:"parent" json:"parent"`
	SocialSecurity        decimal.Decimal `yaml:"social_security" json:"social_security"`
	ProvidentFund         decimal.Decimal `yaml:"provident_fund" json:"provident_fund"`
	RetirementMutualFund  decimal.Decimal `yaml:"rmf" json:"rmf"`
	SavingsFund           decimal.Decimal `yaml:"ssf" json:"ssf"`
	LifeInsurance         decimal.Decimal `yaml:"life_insurance" json:"life_insurance"`
	HealthInsurance       decimal.Decimal `yaml:"health_insurance" json:"health_insurance"`
	ParentHealthInsurance decimal.Decimal `yaml:"parent_health_insurance" json:"parent_health_insurance"`
	HomeLoanInterest      decimal.Decimal `yaml:"home_loan_interest" json:"home_loan_interest"`
	DonationGeneral       decimal.Decimal `yaml:"donation_general" json:"donation_general"`
	DonationEducation     decimal.Decimal `yaml:"donation_education" json:"donation_education"`
}

// DeductionField pairs a wire name with a deduction amount.
type DeductionField struct {
	Name   string
	Amount decimal.Decimal
}

// Fields lists every deduction in declaration order.
func (d Deductions) Fields() []DeductionField {
	return []DeductionField{
		{"personal", d.Personal},
		{"spouse", d.Spouse},
		{"child", d.Child},
		{"parent", d.Parent},
		{"social_security", d.SocialSecurity},
		{"provident_fund", d.ProvidentFund},
		{"rmf", d.RetirementMutualFund},
		{"ssf", d.SavingsFund},
		{"life_insurance", d.LifeInsurance},
		{"health_insurance", d.HealthInsurance},
		{"parent_health_insurance", d.ParentHealthInsurance},
		{"home_loan_interest", d.HomeLoanInterest},
		{"donation_general", d.DonationGeneral},
		{"donation_education", d.DonationEducation},
	}
}

// Total sums all deduction amounts.
func (d Deductions) Total() decimal.Decimal {
	total := decimal.Zero
	for _, f := range d.Fields() {
		total = total.Add(f.Amount)
	}
	return total
}

// Set assigns the deduction with the given wire name.
func (d *Deductions) Set(name string, amount decimal.Decimal) error {
	targets := map[string]*decimal.Decimal{
		"personal":                &d.Personal,
		"spouse":                  &d.Spouse,
		"child":                   &d.Child,
		"parent":                  &d.Parent,
		"social_security":         &d.SocialSecurity,
		"provident_fund":          &d.ProvidentFund,
		"rmf":                     &d.RetirementMutualFund,
		"ssf":                     &d.SavingsFund,
		"life_insurance":          &d.LifeInsurance,
		"health_insurance":        &d.HealthInsurance,
		"parent_health_insurance": &d.ParentHealthInsurance,
		"home_loan_interest":      &d.HomeLoanInterest,
		"donation_general":        &d.DonationGeneral,
		"donation_education":      &d.DonationEducation,
	}
	dst, ok := targets[name]
	if !ok {
		return fmt.Errorf("unknown deduction %q", name)
	}
	*dst = amount
	return nil
}

// BaseIncome is salary + bonus + other income, excluding dividends.
func (td TaxDeclaration) BaseIncome() decimal.Decimal {
	return td.Salary.Add(td.Bonus).Add(td.OtherIncome)
}

// CreditFactorValue returns the effective credit factor, defaulting to the statutory 3/7.
func (td TaxDeclaration) CreditFactorValue() decimal.Decimal {
	if !td.DividendCreditFactor.set {
		return StatutoryCreditFactor.value
	}
	return td.DividendCreditFactor.value
}

// WithDividendCredit returns a copy of the declaration with the credit election overridden.
func (td TaxDeclaration) WithDividendCredit(include bool) TaxDeclaration {
	td.IncludeDividendCredit = include
	return td
}

// MoneyFields lists the declaration's monetary inputs, used for validation.
func (td TaxDeclaration) MoneyFields() []DeductionField {
	fields := []DeductionField{
		{"salary", td.Salary},
		{"bonus", td.Bonus},
		{"other_income", td.OtherIncome},
		{"dividend_amount", td.DividendAmount},
		{"withholding_tax_paid", td.WithholdingTaxPaid},
	}
	for _, f := range td.Deductions.Fields() {
		fields = append(fields, DeductionField{Name: "deductions." + f.Name, Amount: f.Amount})
	}
	return fields
}

// CreditFactor is the dividend gross-up ratio. The zero value means "use the statutory default".
// It accepts decimals ("0.4286"), ratios ("3/7") and preset names in YAML, JSON and flags.
type CreditFactor struct {
	value decimal.Decimal
	set   bool
}

var (
	// StatutoryCreditFactor corresponds to a 30% corporate income tax rate.
	StatutoryCreditFactor = NewCreditFactor(decimal.NewFromInt(3).Div(decimal.NewFromInt(7)))
	// CreditFactor20 corresponds to a 20% corporate income tax rate.
	CreditFactor20 = NewCreditFactor(decimal.NewFromInt(20).Div(decimal.NewFromInt(80)))
	// CreditFactor10 corresponds to a 10% corporate income tax rate.
	CreditFactor10 = NewCreditFactor(decimal.NewFromInt(10).Div(decimal.NewFromInt(90)))
)

var creditFactorPresets = map[string]CreditFactor{
	"statutory": StatutoryCreditFactor,
	"default":   StatutoryCreditFactor,
	"30":        StatutoryCreditFactor,
	"20":        CreditFactor20,
	"10":        CreditFactor10,
}

// NewCreditFactor wraps an explicit factor.
func NewCreditFactor(v decimal.Decimal) CreditFactor {
	return CreditFactor{value: v, set: true}
}

// ParseCreditFactor parses a preset name, a ratio or a decimal.
func ParseCreditFactor(s string) (CreditFactor, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return CreditFactor{}, nil
	}
	if cf, ok := creditFactorPresets[key]; ok {
		return cf, nil
	}
	v, err := moneydec.ParseRatio(key)
	if err != nil {
		return CreditFactor{}, fmt.Errorf("invalid dividend credit factor %q: %w", s, err)
	}
	return NewCreditFactor(v), nil
}

// Decimal returns the factor value; zero when unset.
func (cf CreditFactor) Decimal() decimal.Decimal { return cf.value }

// IsSet reports whether an explicit factor was supplied.
func (cf CreditFactor) IsSet() bool { return cf.set }

func (cf CreditFactor) String() string {
	if !cf.set {
		return ""
	}
	return cf.value.String()
}

// UnmarshalYAML accepts scalars such as 0.4286, "3/7" or "statutory".
func (cf *CreditFactor) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseCreditFactor(raw)
	if err != nil {
		return err
	}
	*cf = parsed
	return nil
}

// MarshalYAML renders the factor as a decimal string.
func (cf CreditFactor) MarshalYAML() (interface{}, error) {
	if !cf.set {
		return nil, nil
	}
	return cf.value.String(), nil
}

// IsZero lets omitempty drop unset factors.
func (cf CreditFactor) IsZero() bool { return !cf.set }

// UnmarshalJSON accepts numbers and strings.
func (cf *CreditFactor) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*cf = CreditFactor{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		// plain JSON number
		raw = string(b)
	}
	parsed, err := ParseCreditFactor(raw)
	if err != nil {
		return err
	}
	*cf = parsed
	return nil
}

// MarshalJSON renders the factor as a quoted decimal, matching decimal.Decimal.
func (cf CreditFactor) MarshalJSON() ([]byte, error) {
	if !cf.set {
		return []byte("null"), nil
	}
	return json.Marshal(cf.value.String())
}
