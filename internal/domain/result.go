package domain

import (
	"github.com/shopspring/decimal"
	moneydec "github.com/stockdash/taxengine/pkg/decimal"
)

// BracketRange is the income interval a bracket applies to. Unbounded ranges have no upper limit.
type BracketRange struct {
	Min       decimal.Decimal `yaml:"min" json:"min"`
	Max       decimal.Decimal `yaml:"max,omitempty" json:"max,omitempty"`
	Unbounded bool            `yaml:"unbounded,omitempty" json:"unbounded,omitempty"`
}

// Label renders the range as "150,000-300,000" or "5,000,000+".
func (r BracketRange) Label() string {
	if r.Unbounded {
		return moneydec.FormatWhole(r.Min) + "+"
	}
	return moneydec.FormatWhole(r.Min) + "-" + moneydec.FormatWhole(r.Max)
}

// BracketLine is the allocation of net taxable income to a single bracket.
type BracketLine struct {
	Range             BracketRange    `yaml:"range" json:"range"`
	Rate              decimal.Decimal `yaml:"rate" json:"rate"`
	TaxableAmount     decimal.Decimal `yaml:"taxable_amount" json:"taxable_amount"`
	Tax               decimal.Decimal `yaml:"tax" json:"tax"`
	CreditConsumed    decimal.Decimal `yaml:"credit_consumed" json:"credit_consumed"`
	CreditCarriedOver decimal.Decimal `yaml:"credit_carried_over" json:"credit_carried_over"`
}

// TaxResult is the full outcome of one tax computation.
type TaxResult struct {
	TaxYear               int  `yaml:"tax_year" json:"tax_year"`
	IncludeDividendCredit bool `yaml:"include_dividend_credit" json:"include_dividend_credit"`

	TotalIncome       decimal.Decimal `yaml:"total_income" json:"total_income"`
	GrossedUpDividend decimal.Decimal `yaml:"grossed_up_dividend" json:"grossed_up_dividend"`
	CappedDeductions  Deductions      `yaml:"capped_deductions" json:"capped_deductions"`
	TotalDeductions   decimal.Decimal `yaml:"total_deductions" json:"total_deductions"`
	NetTaxableIncome  decimal.Decimal `yaml:"net_taxable_income" json:"net_taxable_income"`

	Brackets []BracketLine `yaml:"brackets" json:"brackets"`

	TaxBeforeCredit     decimal.Decimal `yaml:"tax_before_credit" json:"tax_before_credit"`
	CreditPool          decimal.Decimal `yaml:"credit_pool" json:"credit_pool"`
	TotalCreditConsumed decimal.Decimal `yaml:"total_credit_consumed" json:"total_credit_consumed"`
	TotalCreditRefund   decimal.Decimal `yaml:"total_credit_refund" json:"total_credit_refund"`
	TaxAfterCredit      decimal.Decimal `yaml:"tax_after_credit" json:"tax_after_credit"`

	// Dividend withholding (credit filing only) plus WithholdingTaxPaid
	WithholdingPaid decimal.Decimal `yaml:"withholding_paid" json:"withholding_paid"`
	TaxPayable      decimal.Decimal `yaml:"tax_payable" json:"tax_payable"`
	IsRefund        bool            `yaml:"is_refund" json:"is_refund"`
	RefundAmount    decimal.Decimal `yaml:"refund_amount" json:"refund_amount"`

	EffectiveRateBefore decimal.Decimal `yaml:"effective_rate_before" json:"effective_rate_before"`
	EffectiveRateAfter  decimal.Decimal `yaml:"effective_rate_after" json:"effective_rate_after"`
}

// NetCashOutcome is the amount still owed, negative when money comes back.
func (r *TaxResult) NetCashOutcome() decimal.Decimal {
	if r.IsRefund {
		return r.RefundAmount.Neg()
	}
	return r.TaxPayable
}

// Strategy names the filing strategy this result was computed under.
func (r *TaxResult) Strategy() Choice {
	if r.IncludeDividendCredit {
		return ChoiceWithCredit
	}
	return ChoiceFinalTax
}

// Choice names a filing strategy.
type Choice string

const (
	// ChoiceWithCredit files dividends with the gross-up and tax credit.
	ChoiceWithCredit Choice = "WITH_CREDIT"
	// ChoiceFinalTax leaves dividends at the flat withholding rate.
	ChoiceFinalTax Choice = "FINAL_TAX"
)

// StrategyComparison holds both filing variants of one declaration and the cheaper one.
type StrategyComparison struct {
	TaxYear       int             `yaml:"tax_year" json:"tax_year"`
	WithCredit    TaxResult       `yaml:"with_credit" json:"with_credit"`
	WithoutCredit TaxResult       `yaml:"without_credit" json:"without_credit"`
	BestChoice    Choice          `yaml:"best_choice" json:"best_choice"`
	Savings       decimal.Decimal `yaml:"savings" json:"savings"`
}

// Best returns the result of the recommended strategy.
func (sc *StrategyComparison) Best() *TaxResult {
	if sc.BestChoice == ChoiceFinalTax {
		return &sc.WithoutCredit
	}
	return &sc.WithCredit
}

// BracketScheduleRow describes one bracket of the rate table together with the most tax it
// can produce and the tax accumulated up to its upper bound.
type BracketScheduleRow struct {
	Range         BracketRange    `yaml:"range" json:"range"`
	Rate          decimal.Decimal `yaml:"rate" json:"rate"`
	MaxTax        decimal.Decimal `yaml:"max_tax,omitempty" json:"max_tax,omitempty"`
	CumulativeTax decimal.Decimal `yaml:"cumulative_tax" json:"cumulative_tax"`
}
