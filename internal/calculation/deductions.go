package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stockdash/taxengine/internal/domain"
)

// DeductionCaps holds statutory ceilings for capped deductions.
// Proportional caps are expressed as a share of total income.
type DeductionCaps struct {
	Personal              decimal.Decimal
	Spouse                decimal.Decimal
	SocialSecurity        decimal.Decimal
	ProvidentFund         decimal.Decimal
	RMFIncomeRate         decimal.Decimal
	RMFMax                decimal.Decimal
	SSFIncomeRate         decimal.Decimal
	SSFMax                decimal.Decimal
	LifeInsurance         decimal.Decimal
	ParentHealthInsurance decimal.Decimal
	HomeLoanInterest      decimal.Decimal
	DonationGeneralRate   decimal.Decimal
}

// DefaultDeductionCaps returns the canonical deduction ceilings.
func DefaultDeductionCaps() DeductionCaps {
	return DeductionCaps{
		Personal:              decimal.NewFromInt(60000),
		Spouse:                decimal.NewFromInt(60000),
		SocialSecurity:        decimal.NewFromInt(9000),
		ProvidentFund:         decimal.NewFromInt(10000),
		RMFIncomeRate:         decimal.NewFromFloat(0.30),
		RMFMax:                decimal.NewFromInt(500000),
		SSFIncomeRate:         decimal.NewFromFloat(0.30),
		SSFMax:                decimal.NewFromInt(200000),
		LifeInsurance:         decimal.NewFromInt(100000),
		ParentHealthInsurance: decimal.NewFromInt(25000),
		HomeLoanInterest:      decimal.NewFromInt(100000),
		DonationGeneralRate:   decimal.NewFromFloat(0.10),
	}
}

// NewDeductionCaps overlays configured ceilings on the defaults. Unset entries keep the
// default; a configured zero disallows the deduction. Negative ceilings are rejected.
func NewDeductionCaps(cfg domain.DeductionCapsConfig) (DeductionCaps, error) {
	caps := DefaultDeductionCaps()
	overrides := []struct {
		name string
		dst  *decimal.Decimal
		v    *decimal.Decimal
	}{
		{"personal", &caps.Personal, cfg.Personal},
		{"spouse", &caps.Spouse, cfg.Spouse},
		{"social_security", &caps.SocialSecurity, cfg.SocialSecurity},
		{"provident_fund", &caps.ProvidentFund, cfg.ProvidentFund},
		{"rmf_income_rate", &caps.RMFIncomeRate, cfg.RMFIncomeRate},
		{"rmf_max", &caps.RMFMax, cfg.RMFMax},
		{"ssf_income_rate", &caps.SSFIncomeRate, cfg.SSFIncomeRate},
		{"ssf_max", &caps.SSFMax, cfg.SSFMax},
		{"life_insurance", &caps.LifeInsurance, cfg.LifeInsurance},
		{"parent_health_insurance", &caps.ParentHealthInsurance, cfg.ParentHealthInsurance},
		{"home_loan_interest", &caps.HomeLoanInterest, cfg.HomeLoanInterest},
		{"donation_general_rate", &caps.DonationGeneralRate, cfg.DonationGeneralRate},
	}
	for _, o := range overrides {
		if o.v == nil {
			continue
		}
		if o.v.IsNegative() {
			return DeductionCaps{}, fmt.Errorf("deduction cap %s cannot be negative (got %s)", o.name, o.v)
		}
		*o.dst = *o.v
	}
	return caps, nil
}

// CapDeductions clamps each deduction to its ceiling and returns the capped set with its sum.
// Amounts above a ceiling are clamped silently rather than rejected. Child, parent,
// health insurance and education donations pass through uncapped; the caller has
// already applied per-dependent multipliers to them.
func CapDeductions(raw domain.Deductions, totalIncome decimal.Decimal, caps DeductionCaps) (domain.Deductions, decimal.Decimal) {
	rmfCap := decimal.Min(totalIncome.Mul(caps.RMFIncomeRate), caps.RMFMax)
	ssfCap := decimal.Min(totalIncome.Mul(caps.SSFIncomeRate), caps.SSFMax)
	donationCap := totalIncome.Mul(caps.DonationGeneralRate)

	capped := domain.Deductions{
		Personal:              decimal.Min(raw.Personal, caps.Personal),
		Spouse:                decimal.Min(raw.Spouse, caps.Spouse),
		Child:                 raw.Child,
		Parent:                raw.Parent,
		SocialSecurity:        decimal.Min(raw.SocialSecurity, caps.SocialSecurity),
		ProvidentFund:         decimal.Min(raw.ProvidentFund, caps.ProvidentFund),
		RetirementMutualFund:  decimal.Min(raw.RetirementMutualFund, rmfCap),
		SavingsFund:           decimal.Min(raw.SavingsFund, ssfCap),
		LifeInsurance:         decimal.Min(raw.LifeInsurance, caps.LifeInsurance),
		HealthInsurance:       raw.HealthInsurance,
		ParentHealthInsurance: decimal.Min(raw.ParentHealthInsurance, caps.ParentHealthInsurance),
		HomeLoanInterest:      decimal.Min(raw.HomeLoanInterest, caps.HomeLoanInterest),
		DonationGeneral:       decimal.Min(raw.DonationGeneral, donationCap),
		DonationEducation:     raw.DonationEducation,
	}
	return capped, capped.Total()
}
