package calculation

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stockdash/taxengine/internal/domain"
)

// ErrInvalidInput is wrapped by every declaration validation failure.
var ErrInvalidInput = errors.New("invalid tax declaration")

// MaxAmount is the largest money value a declaration may carry (one quadrillion baht).
// It keeps every derived amount, grossed-up dividends included, within the satang range
// the currency formatter can represent.
var MaxAmount = decimal.New(1, 15)

// ValidationError describes the offending field of a rejected declaration.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ValidateDeclaration rejects declarations the engine must not compute: a missing tax year,
// negative money or money above MaxAmount, or a credit factor outside [0,1]. Deductions above their ceiling are not
// errors; they are clamped by CapDeductions.
func ValidateDeclaration(decl domain.TaxDeclaration) error {
	if decl.TaxYear <= 0 {
		return &ValidationError{Field: "tax_year", Reason: "is required"}
	}
	for _, f := range decl.MoneyFields() {
		if f.Amount.IsNegative() {
			return &ValidationError{Field: f.Name, Reason: fmt.Sprintf("cannot be negative (got %s)", f.Amount)}
		}
		if f.Amount.GreaterThan(MaxAmount) {
			return &ValidationError{Field: f.Name, Reason: fmt.Sprintf("exceeds the maximum of %s (got %s)", MaxAmount, f.Amount)}
		}
	}
	if decl.DividendCreditFactor.IsSet() {
		cf := decl.DividendCreditFactor.Decimal()
		if cf.IsNegative() || cf.GreaterThan(decimal.NewFromInt(1)) {
			return &ValidationError{Field: "dividend_credit_factor", Reason: fmt.Sprintf("must be between 0 and 1 (got %s)", cf)}
		}
	}
	return nil
}
