package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/output"
)

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [plan-file]",
	Short: "Sweep plan parameters and measure their effect on the future value",
	Long: `Sweep one or more parameters of a scenario across a range and report how the
future value, withdrawals and final balance respond.

Parameters: rate, contribution, years, withdrawal_rate, compounding.

Examples:
  dcaplan sensitivity plan.yaml --parameter rate
  dcaplan sensitivity plan.yaml --parameter contribution --min 250 --max 2000 --steps 8
  dcaplan sensitivity plan.yaml --all --format csv`,
	Args: cobra.ExactArgs(1),
	RunE: runSensitivity,
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	names, _ := flags.GetStringSlice("parameter")
	all, _ := flags.GetBool("all")
	scenario, _ := flags.GetString("scenario")
	seed, _ := flags.GetInt64("seed")
	format, _ := flags.GetString("format")
	outputFile, _ := flags.GetString("output-file")

	var params []domain.SensitivityParameter
	switch {
	case all:
		params = domain.GetCommonParameters()
	case len(names) == 0:
		return fmt.Errorf("specify --parameter or --all")
	default:
		for _, name := range names {
			p, ok := domain.LookupSensitivityParameter(strings.TrimSpace(name))
			if !ok {
				return fmt.Errorf("unknown parameter %q", name)
			}
			params = append(params, p)
		}
	}

	if len(params) == 1 {
		if err := applyRangeFlags(cmd, &params[0]); err != nil {
			return err
		}
	} else if flags.Changed("min") || flags.Changed("max") || flags.Changed("steps") {
		return fmt.Errorf("--min, --max and --steps apply to a single parameter")
	}

	scenario = defaultScenario(plan, scenario)
	analyzer := calculation.NewSensitivityAnalyzer(newEngine())
	analyses, err := analyzer.AnalyzeMultipleParameters(cmd.Context(), plan, params, scenario, seedFor(seed, plan, scenario))
	if err != nil {
		return err
	}

	var data []byte
	switch strings.ToLower(format) {
	case "table", "console", "":
		var sb strings.Builder
		for i, analysis := range analyses {
			if i > 0 {
				sb.WriteString("\n")
			}
			text, err := output.FormatSensitivityConsole(analysis)
			if err != nil {
				return err
			}
			sb.WriteString(text)
		}
		data = []byte(sb.String())
	case "csv":
		data, err = output.FormatSensitivityCSV(analyses...)
	case "json":
		data, err = json.MarshalIndent(analyses, "", "  ")
	default:
		return fmt.Errorf("unknown output format: %s (valid: table, csv, json)", format)
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd, data, outputFile)
}

// applyRangeFlags overrides the sweep range of a built-in parameter
func applyRangeFlags(cmd *cobra.Command, p *domain.SensitivityParameter) error {
	flags := cmd.Flags()
	if flags.Changed("min") {
		v, _ := flags.GetFloat64("min")
		p.MinValue = decimal.NewFromFloat(v)
	}
	if flags.Changed("max") {
		v, _ := flags.GetFloat64("max")
		p.MaxValue = decimal.NewFromFloat(v)
	}
	if flags.Changed("steps") {
		steps, _ := flags.GetInt("steps")
		if steps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		p.Steps = steps
	}
	if p.MinValue.IsNegative() {
		return fmt.Errorf("--min cannot be negative")
	}
	if p.MinValue.GreaterThan(p.MaxValue) {
		return fmt.Errorf("--min (%s) is greater than --max (%s)", p.MinValue, p.MaxValue)
	}
	return nil
}

func init() {
	sensitivityCmd.Flags().StringSliceP("parameter", "p", nil, "Parameter(s) to sweep")
	sensitivityCmd.Flags().Bool("all", false, "Sweep every built-in parameter")
	sensitivityCmd.Flags().Float64("min", 0, "Lowest value of the sweep")
	sensitivityCmd.Flags().Float64("max", 0, "Highest value of the sweep")
	sensitivityCmd.Flags().Int("steps", 0, "Number of sweep points")
	sensitivityCmd.Flags().StringP("scenario", "s", "", "Scenario to sweep (default: first scenario)")
	sensitivityCmd.Flags().Int64("seed", 0, "Seed shared by every sweep point")
	sensitivityCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	sensitivityCmd.Flags().StringP("output-file", "o", "", "Write the report to a file instead of stdout")

	rootCmd.AddCommand(sensitivityCmd)
}
