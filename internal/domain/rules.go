package domain

import "github.com/shopspring/decimal"

// TaxRulesConfig holds the statutory tables used by the engine. Any section left out
// falls back to the built-in defaults for the current Thai personal income tax code.
type TaxRulesConfig struct {
	Brackets                []BracketConfig     `yaml:"brackets" json:"brackets"`
	DeductionCaps           DeductionCapsConfig `yaml:"deduction_caps" json:"deduction_caps"`
	DividendWithholdingRate *decimal.Decimal    `yaml:"dividend_withholding_rate,omitempty" json:"dividend_withholding_rate,omitempty"`
}

// BracketConfig is one progressive bracket. A zero Max marks the unbounded top bracket.
type BracketConfig struct {
	Min  decimal.Decimal `yaml:"min" json:"min"`
	Max  decimal.Decimal `yaml:"max,omitempty" json:"max,omitempty"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// DeductionCapsConfig holds deduction ceilings. Nil entries keep the default ceiling;
// an explicit zero disallows the deduction.
type DeductionCapsConfig struct {
	Personal              *decimal.Decimal `yaml:"personal,omitempty" json:"personal,omitempty"`
	Spouse                *decimal.Decimal `yaml:"spouse,omitempty" json:"spouse,omitempty"`
	SocialSecurity        *decimal.Decimal `yaml:"social_security,omitempty" json:"social_security,omitempty"`
	ProvidentFund         *decimal.Decimal `yaml:"provident_fund,omitempty" json:"provident_fund,omitempty"`
	RMFIncomeRate         *decimal.Decimal `yaml:"rmf_income_rate,omitempty" json:"rmf_income_rate,omitempty"`
	RMFMax                *decimal.Decimal `yaml:"rmf_max,omitempty" json:"rmf_max,omitempty"`
	SSFIncomeRate         *decimal.Decimal `yaml:"ssf_income_rate,omitempty" json:"ssf_income_rate,omitempty"`
	SSFMax                *decimal.Decimal `yaml:"ssf_max,omitempty" json:"ssf_max,omitempty"`
	LifeInsurance         *decimal.Decimal `yaml:"life_insurance,omitempty" json:"life_insurance,omitempty"`
	ParentHealthInsurance *decimal.Decimal `yaml:"parent_health_insurance,omitempty" json:"parent_health_insurance,omitempty"`
	HomeLoanInterest      *decimal.Decimal `yaml:"home_loan_interest,omitempty" json:"home_loan_interest,omitempty"`
	DonationGeneralRate   *decimal.Decimal `yaml:"donation_general_rate,omitempty" json:"donation_general_rate,omitempty"`
}
