package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/dcaplan/internal/compare"
	"github.com/rgehrsitz/dcaplan/internal/transform"
)

var compareCmd = &cobra.Command{
	Use:   "compare [plan-file]",
	Short: "Compare a scenario against templates or other scenarios",
	Long: `Compare a base scenario against built-in templates, transform specs or
other scenarios of the plan.

Examples:
  dcaplan compare plan.yaml --base Baseline --with weekly,rate_plus_1
  dcaplan compare plan.yaml --with set_rate:rate=8,extend_years:years=5 --format csv
  dcaplan compare plan.yaml --base Baseline --scenarios Volatile,Aggressive
  dcaplan compare --list-templates`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	if list, _ := cmd.Flags().GetBool("list-templates"); list {
		fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
		return nil
	}
	if len(args) == 0 {
		return fmt.Errorf("plan file required for comparison (use --list-templates to see available templates)")
	}

	plan, err := loadPlan(args[0])
	if err != nil {
		return err
	}

	baseName, _ := cmd.Flags().GetString("base")
	templates, _ := cmd.Flags().GetString("with")
	scenarios, _ := cmd.Flags().GetString("scenarios")
	format, _ := cmd.Flags().GetString("format")

	if templates == "" && scenarios == "" {
		return fmt.Errorf("--with or --scenarios is required (or use --list-templates)")
	}
	baseName = defaultScenario(plan, baseName)

	engine := compare.NewCompareEngine(newEngine())
	var compSet *compare.ComparisonSet
	if scenarios != "" {
		compSet, err = engine.CompareScenarios(cmd.Context(), plan, baseName, transform.ParseTemplateList(scenarios))
	} else {
		names := transform.ParseTemplateList(templates)
		if len(names) == 0 {
			return fmt.Errorf("no valid templates specified in --with")
		}
		compSet, err = engine.Compare(cmd.Context(), plan, compare.CompareOptions{
			BaseScenarioName: baseName,
			Templates:        names,
		})
	}
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	compSet.ConfigPath = args[0]

	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "csv":
		text, err := (&compare.CSVFormatter{}).Format(compSet)
		if err != nil {
			return fmt.Errorf("failed to format CSV: %w", err)
		}
		fmt.Fprint(out, text)
	case "json":
		text, err := (&compare.JSONFormatter{Pretty: true}).Format(compSet)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprint(out, text)
	case "table", "console", "":
		fmt.Fprint(out, (&compare.TableFormatter{}).Format(compSet))
	default:
		return fmt.Errorf("unknown output format: %s (valid: table, csv, json)", format)
	}
	return nil
}

func init() {
	compareCmd.Flags().String("base", "", "Base scenario name (default: first scenario)")
	compareCmd.Flags().String("with", "", "Comma-separated templates or transform specs")
	compareCmd.Flags().String("scenarios", "", "Comma-separated scenario names to compare against the base")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	compareCmd.Flags().Bool("list-templates", false, "List all available templates")

	rootCmd.AddCommand(compareCmd)
}
