package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/stockdash/taxengine/internal/calculation"
	"github.com/stockdash/taxengine/internal/domain"
	"gopkg.in/yaml.v3"
)

// InputParser handles parsing of declaration and rules files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// declarationFile is the on-disk shape: either a single declaration or a
// `declarations:` list for several tax years.
type declarationFile struct {
	domain.TaxDeclaration `yaml:",inline"`
	Declarations          []domain.TaxDeclaration `yaml:"declarations"`
}

// LoadFromFile loads a single declaration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.TaxDeclaration, error) {
	decls, err := ip.LoadDeclarations(filename)
	if err != nil {
		return nil, err
	}
	if len(decls) != 1 {
		return nil, fmt.Errorf("file %s holds %d declarations, expected exactly one", filename, len(decls))
	}
	return &decls[0], nil
}

// LoadDeclarations loads one or more declarations from a YAML or JSON file
func (ip *InputParser) LoadDeclarations(filename string) ([]domain.TaxDeclaration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseDeclarations(data)
}

// ParseDeclarations decodes and validates declaration data
func (ip *InputParser) ParseDeclarations(data []byte) ([]domain.TaxDeclaration, error) {
	var file declarationFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	decls := file.Declarations
	if len(decls) == 0 {
		decls = []domain.TaxDeclaration{file.TaxDeclaration}
	} else if file.TaxYear != 0 {
		return nil, fmt.Errorf("failed to parse YAML: top-level tax_year cannot be combined with a declarations list")
	}

	for i := range decls {
		if err := ip.ValidateDeclaration(&decls[i]); err != nil {
			return nil, fmt.Errorf("declaration %d validation failed: %w", i, err)
		}
	}
	return decls, nil
}

// ValidateDeclaration validates a loaded declaration
func (ip *InputParser) ValidateDeclaration(decl *domain.TaxDeclaration) error {
	return calculation.ValidateDeclaration(*decl)
}

// LoadRules loads a tax rules file. An empty filename yields the default rules.
func (ip *InputParser) LoadRules(filename string) (*domain.TaxRulesConfig, error) {
	if filename == "" {
		return &domain.TaxRulesConfig{}, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}

	var rules domain.TaxRulesConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rules); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}
	if _, err := calculation.NewTaxRules(rules); err != nil {
		return nil, fmt.Errorf("rules validation failed: %w", err)
	}
	return &rules, nil
}

// CreateExampleDeclaration creates an example declaration for a salaried investor
func (ip *InputParser) CreateExampleDeclaration() *domain.TaxDeclaration {
	return &domain.TaxDeclaration{
		TaxYear:               2024,
		Salary:                decimal.NewFromInt(1200000),
		Bonus:                 decimal.NewFromInt(200000),
		OtherIncome:           decimal.NewFromInt(30000),
		DividendAmount:        decimal.NewFromInt(150000),
		IncludeDividendCredit: true,
		DividendCreditFactor:  domain.StatutoryCreditFactor,
		WithholdingTaxPaid:    decimal.NewFromInt(90000),
		Deductions: domain.Deductions{
			Personal:             decimal.NewFromInt(60000),
			Spouse:               decimal.NewFromInt(60000),
			Child:                decimal.NewFromInt(30000),
			SocialSecurity:       decimal.NewFromInt(9000),
			ProvidentFund:        decimal.NewFromInt(10000),
			RetirementMutualFund: decimal.NewFromInt(100000),
			SavingsFund:          decimal.NewFromInt(50000),
			LifeInsurance:        decimal.NewFromInt(25000),
			HealthInsurance:      decimal.NewFromInt(15000),
			HomeLoanInterest:     decimal.NewFromInt(80000),
			DonationGeneral:      decimal.NewFromInt(5000),
		},
	}
}

// SaveDeclaration writes a declaration as YAML
func (ip *InputParser) SaveDeclaration(decl *domain.TaxDeclaration, filename string) error {
	b, err := yaml.Marshal(decl)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
