package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockdash/taxengine/internal/calculation"
	"github.com/stockdash/taxengine/internal/config"
	"github.com/stockdash/taxengine/internal/domain"
	"github.com/stockdash/taxengine/internal/output"
	"github.com/stockdash/taxengine/pkg/dateutil"
)

// app carries the state shared by all subcommands.
type app struct {
	stdout io.Writer
	stderr io.Writer
	parser *config.InputParser

	settings   config.Settings
	format     string
	outputPath string
	rulesFile  string
	envFile    string
	debug      bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr, parser: config.NewInputParser()}

	root := &cobra.Command{
		Use:   "taxengine",
		Short: "Thai personal income tax calculator with dividend tax credit comparison",
		Long: "taxengine computes Thai personal income tax from a declaration, allocating income\n" +
			"across the progressive brackets and applying the dividend tax credit bracket by bracket.\n" +
			"It compares filing dividends with the credit against leaving them as final withholding tax.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadSettings,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.format, "format", "f", "", fmt.Sprintf("output format: %v (default from %s, else console)", output.AvailableFormatterNames(), config.EnvFormat))
	pf.StringVarP(&a.outputPath, "output", "o", "", "write to this file, or a timestamped file in this directory, instead of stdout")
	pf.StringVar(&a.rulesFile, "rules", "", fmt.Sprintf("YAML rules file overriding brackets, deduction caps and withholding rate (default from %s)", config.EnvRulesFile))
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file holding TAXENGINE_* defaults")
	pf.BoolVar(&a.debug, "debug", false, "log the calculation breakdown to stderr")

	root.AddCommand(
		newCalculateCmd(a),
		newCompareCmd(a),
		newBracketsCmd(a),
		newExampleCmd(a),
	)
	return root
}

// loadSettings fills unset flags from the environment and the dotenv file.
func (a *app) loadSettings(cmd *cobra.Command, _ []string) error {
	settings, err := config.LoadSettings(a.envFile)
	if err != nil {
		return err
	}
	a.settings = settings
	if !cmd.Flags().Changed("format") {
		a.format = settings.Format
	}
	if !cmd.Flags().Changed("rules") {
		a.rulesFile = settings.RulesFile
	}
	if !cmd.Flags().Changed("debug") {
		a.debug = settings.Debug
	}
	return nil
}

func (a *app) newEngine() (*calculation.TaxEngine, error) {
	rules, err := a.parser.LoadRules(a.rulesFile)
	if err != nil {
		return nil, err
	}
	engine, err := calculation.NewTaxEngineWithConfig(*rules)
	if err != nil {
		return nil, err
	}
	engine.Debug = a.debug
	engine.SetLogger(newLogger(a.stderr, a.debug))
	return engine, nil
}

// noteDeadlines logs declarations whose filing deadline has already passed.
func (a *app) noteDeadlines(engine *calculation.TaxEngine, decls []domain.TaxDeclaration) {
	now := time.Now()
	for _, decl := range decls {
		if dateutil.IsPastDeadline(decl.TaxYear, now) {
			engine.Logger.Warnf("tax year %d: filing deadline %s has passed",
				decl.TaxYear, dateutil.FilingDeadline(decl.TaxYear).Format("2 January 2006"))
		}
	}
}

func (a *app) render(engine *calculation.TaxEngine, report *output.Report) error {
	report.WithAssumptions(output.GenerateAssumptions(engine.Rules))
	name, err := output.GenerateReport(report, a.format, a.outputPath, a.stdout)
	if err != nil {
		return err
	}
	if name != "" {
		fmt.Fprintf(a.stderr, "Report written to %s\n", name)
	}
	return nil
}
