package calculation

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stockdash/taxengine/internal/domain"
	moneydec "github.com/stockdash/taxengine/pkg/decimal"
)

// DefaultDividendWithholdingRate is the flat withholding tax deducted from dividends at source.
var DefaultDividendWithholdingRate = decimal.NewFromFloat(0.10)

// maxConcurrentComparisons limits CompareAll fan-out.
const maxConcurrentComparisons = 8

// TaxRules are the statutory tables a TaxEngine computes against.
type TaxRules struct {
	Brackets                []TaxBracket
	Caps                    DeductionCaps
	DividendWithholdingRate decimal.Decimal
}

// DefaultTaxRules returns the built-in rules.
func DefaultTaxRules() TaxRules {
	return TaxRules{
		Brackets:                DefaultBrackets(),
		Caps:                    DefaultDeductionCaps(),
		DividendWithholdingRate: DefaultDividendWithholdingRate,
	}
}

// NewTaxRules builds rules from configuration, keeping defaults for anything not supplied.
func NewTaxRules(cfg domain.TaxRulesConfig) (TaxRules, error) {
	brackets, err := NewBrackets(cfg.Brackets)
	if err != nil {
		return TaxRules{}, fmt.Errorf("invalid bracket table: %w", err)
	}
	caps, err := NewDeductionCaps(cfg.DeductionCaps)
	if err != nil {
		return TaxRules{}, err
	}
	rate := DefaultDividendWithholdingRate
	if cfg.DividendWithholdingRate != nil {
		rate = *cfg.DividendWithholdingRate
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return TaxRules{}, fmt.Errorf("dividend withholding rate %s must be between 0 and 1", rate)
	}
	return TaxRules{
		Brackets:                brackets,
		Caps:                    caps,
		DividendWithholdingRate: rate,
	}, nil
}

// TaxEngine computes personal income tax for a declaration. It holds no mutable
// state after construction and is safe for concurrent use.
type TaxEngine struct {
	Rules  TaxRules
	Debug  bool // Log the calculation breakdown through Logger.Debugf
	Logger Logger
}

// NewTaxEngine creates an engine using the default rules.
func NewTaxEngine() *TaxEngine {
	return &TaxEngine{
		Rules:  DefaultTaxRules(),
		Logger: NopLogger{},
	}
}

// NewTaxEngineWithConfig creates an engine with configurable rules.
func NewTaxEngineWithConfig(cfg domain.TaxRulesConfig) (*TaxEngine, error) {
	rules, err := NewTaxRules(cfg)
	if err != nil {
		return nil, err
	}
	return &TaxEngine{Rules: rules, Logger: NopLogger{}}, nil
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op logger is used.
func (te *TaxEngine) SetLogger(l Logger) {
	if l == nil {
		te.Logger = NopLogger{}
		return
	}
	te.Logger = l
}

func (te *TaxEngine) logger() Logger {
	if te.Logger == nil {
		return NopLogger{}
	}
	return te.Logger
}

// Calculate computes the tax for one declaration as filed, honouring its
// IncludeDividendCredit election. Invalid input yields an error wrapping ErrInvalidInput
// and no result.
func (te *TaxEngine) Calculate(decl domain.TaxDeclaration) (*domain.TaxResult, error) {
	if err := ValidateDeclaration(decl); err != nil {
		return nil, err
	}

	withholding := decl.WithholdingTaxPaid
	grossedUp := decimal.Zero
	creditPool := decimal.Zero
	if decl.IncludeDividendCredit {
		creditPool = decl.DividendAmount.Mul(decl.CreditFactorValue())
		grossedUp = decl.DividendAmount.Add(creditPool)
		withholding = withholding.Add(decl.DividendAmount.Mul(te.Rules.DividendWithholdingRate))
	}

	totalIncome := decl.BaseIncome().Add(grossedUp)
	capped, totalDeductions := CapDeductions(decl.Deductions, totalIncome, te.Rules.Caps)
	netTaxable := moneydec.NewMoneyFromDecimal(totalIncome.Sub(totalDeductions)).FloorZero().Decimal

	alloc := AllocateBrackets(netTaxable, creditPool, te.Rules.Brackets)

	// Unused credit and withholding both come back to the taxpayer.
	balance := alloc.TaxAfterCredit.Sub(alloc.CreditRefund).Sub(withholding)

	result := &domain.TaxResult{
		TaxYear:               decl.TaxYear,
		IncludeDividendCredit: decl.IncludeDividendCredit,
		TotalIncome:           totalIncome,
		GrossedUpDividend:     grossedUp,
		CappedDeductions:      capped,
		TotalDeductions:       totalDeductions,
		NetTaxableIncome:      netTaxable,
		Brackets:              alloc.Lines,
		TaxBeforeCredit:       alloc.TaxBeforeCredit,
		CreditPool:            creditPool,
		TotalCreditConsumed:   alloc.CreditConsumed,
		TotalCreditRefund:     alloc.CreditRefund,
		TaxAfterCredit:        alloc.TaxAfterCredit,
		WithholdingPaid:       withholding,
		TaxPayable:            decimal.Zero,
		RefundAmount:          decimal.Zero,
		EffectiveRateBefore:   decimal.Zero,
		EffectiveRateAfter:    decimal.Zero,
	}
	if balance.IsNegative() {
		result.IsRefund = true
		result.RefundAmount = balance.Neg()
	} else {
		result.TaxPayable = balance
	}
	if totalIncome.IsPositive() {
		result.EffectiveRateBefore = alloc.TaxBeforeCredit.Div(totalIncome)
		result.EffectiveRateAfter = alloc.TaxAfterCredit.Div(totalIncome)
	}

	if te.Debug {
		te.logBreakdown(result)
	}
	return result, nil
}

// Compare computes the declaration under both dividend strategies and recommends the one
// with the smaller net cash outcome (refunds count as negative cost). The declaration's own
// IncludeDividendCredit election is ignored. Ties resolve to WITH_CREDIT.
func (te *TaxEngine) Compare(decl domain.TaxDeclaration) (*domain.StrategyComparison, error) {
	withCredit, err := te.Calculate(decl.WithDividendCredit(true))
	if err != nil {
		return nil, err
	}
	withoutCredit, err := te.Calculate(decl.WithDividendCredit(false))
	if err != nil {
		return nil, err
	}

	costWith := withCredit.NetCashOutcome()
	costWithout := withoutCredit.NetCashOutcome()

	comparison := &domain.StrategyComparison{
		TaxYear:       decl.TaxYear,
		WithCredit:    *withCredit,
		WithoutCredit: *withoutCredit,
		BestChoice:    domain.ChoiceWithCredit,
		Savings:       costWith.Sub(costWithout).Abs(),
	}
	if costWithout.LessThan(costWith) {
		comparison.BestChoice = domain.ChoiceFinalTax
	}

	te.logger().Infof("tax year %d: best=%s with_credit=%s final_tax=%s savings=%s",
		decl.TaxYear, comparison.BestChoice,
		moneydec.FormatBaht(costWith), moneydec.FormatBaht(costWithout), moneydec.FormatBaht(comparison.Savings))
	return comparison, nil
}

// CompareAll runs Compare for each declaration concurrently and returns the comparisons in
// input order. The first failure cancels the remaining work and is returned together with
// the index of the declaration that caused it.
func (te *TaxEngine) CompareAll(ctx context.Context, decls []domain.TaxDeclaration) ([]domain.StrategyComparison, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]domain.StrategyComparison, len(decls))
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	semaphore := make(chan struct{}, maxConcurrentComparisons)

	for i := range decls {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			select {
			case semaphore <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-semaphore }()
			if ctx.Err() != nil {
				return
			}

			comparison, err := te.Compare(decls[idx])
			if err != nil {
				once.Do(func() {
					firstErr = fmt.Errorf("declaration %d (tax year %d): %w", idx, decls[idx].TaxYear, err)
					cancel()
				})
				return
			}
			results[idx] = *comparison
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (te *TaxEngine) logBreakdown(r *domain.TaxResult) {
	log := te.logger()
	log.Debugf("TAX CALCULATION BREAKDOWN (year %d, dividend credit: %t)", r.TaxYear, r.IncludeDividendCredit)
	log.Debugf("=========================================")
	log.Debugf("Total Income:           %s", moneydec.FormatBaht(r.TotalIncome))
	log.Debugf("  Grossed-up Dividend:  %s", moneydec.FormatBaht(r.GrossedUpDividend))
	log.Debugf("Total Deductions:       %s", moneydec.FormatBaht(r.TotalDeductions))
	log.Debugf("Net Taxable Income:     %s", moneydec.FormatBaht(r.NetTaxableIncome))
	for _, line := range r.Brackets {
		log.Debugf("  %-22s @ %5s%%  taxable %s  tax %s  credit %s",
			line.Range.Label(), line.Rate.Shift(2).String(),
			moneydec.FormatBaht(line.TaxableAmount), moneydec.FormatBaht(line.Tax), moneydec.FormatBaht(line.CreditConsumed))
	}
	log.Debugf("Tax Before Credit:      %s", moneydec.FormatBaht(r.TaxBeforeCredit))
	log.Debugf("Credit Consumed:        %s", moneydec.FormatBaht(r.TotalCreditConsumed))
	log.Debugf("Credit Refunded:        %s", moneydec.FormatBaht(r.TotalCreditRefund))
	log.Debugf("Withholding Paid:       %s", moneydec.FormatBaht(r.WithholdingPaid))
	if r.IsRefund {
		log.Debugf("REFUND DUE:             %s", moneydec.FormatBaht(r.RefundAmount))
	} else {
		log.Debugf("TAX PAYABLE:            %s", moneydec.FormatBaht(r.TaxPayable))
	}
}
