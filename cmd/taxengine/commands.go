package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stockdash/taxengine/internal/calculation"
	"github.com/stockdash/taxengine/internal/domain"
	"github.com/stockdash/taxengine/internal/output"
)

func newCalculateCmd(a *app) *cobra.Command {
	in := &declarationInput{}
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute tax for a declaration as filed",
		Example: "  taxengine calculate --file declaration.yaml\n" +
			"  taxengine calculate --salary 1200000 --dividend 150000 --with-credit --personal 60000",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			decls, err := in.load(cmd, a)
			if err != nil {
				return err
			}
			engine, err := a.newEngine()
			if err != nil {
				return err
			}
			a.noteDeadlines(engine, decls)
			results := make([]domain.TaxResult, 0, len(decls))
			for i, decl := range decls {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				result, err := engine.Calculate(decl)
				if err != nil {
					return fmt.Errorf("declaration %d (tax year %d): %w", i, decl.TaxYear, err)
				}
				results = append(results, *result)
			}
			return a.render(engine, output.NewResultReport(results...))
		},
	}
	in.register(cmd, true)
	return cmd
}

func newCompareCmd(a *app) *cobra.Command {
	in := &declarationInput{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare filing dividends with the tax credit against final withholding tax",
		Example: "  taxengine compare --file declarations.yaml --format csv\n" +
			"  taxengine compare --salary 6000000 --dividend 800000 --credit-factor 20/80",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			decls, err := in.load(cmd, a)
			if err != nil {
				return err
			}
			engine, err := a.newEngine()
			if err != nil {
				return err
			}
			a.noteDeadlines(engine, decls)
			comparisons, err := engine.CompareAll(cmd.Context(), decls)
			if err != nil {
				return err
			}
			return a.render(engine, output.NewComparisonReport(comparisons...))
		},
	}
	in.register(cmd, false)
	return cmd
}

func newBracketsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "brackets",
		Short: "Print the progressive tax bracket schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.newEngine()
			if err != nil {
				return err
			}
			return a.render(engine, output.NewScheduleReport(calculation.Schedule(engine.Rules.Brackets)))
		},
	}
}

func newExampleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Write an example declaration (YAML, or JSON with --format json)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			decl := a.parser.CreateExampleDeclaration()
			if output.NormalizeFormatName(a.format) != "json" && a.outputPath != "" {
				if err := a.parser.SaveDeclaration(decl, a.outputPath); err != nil {
					return err
				}
				fmt.Fprintf(a.stderr, "Example declaration written to %s\n", a.outputPath)
				return nil
			}

			marshal := yaml.Marshal
			if output.NormalizeFormatName(a.format) == "json" {
				marshal = func(v any) ([]byte, error) {
					b, err := json.MarshalIndent(v, "", "  ")
					return append(b, '\n'), err
				}
			}
			data, err := marshal(decl)
			if err != nil {
				return err
			}
			if a.outputPath != "" {
				if err := os.WriteFile(a.outputPath, data, 0644); err != nil {
					return err
				}
				fmt.Fprintf(a.stderr, "Example declaration written to %s\n", a.outputPath)
				return nil
			}
			_, err = a.stdout.Write(data)
			return err
		},
	}
}
