package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/dcaplan/internal/breakeven"
)

var breakEvenCmd = &cobra.Command{
	Use:   "break-even [plan-file]",
	Short: "Solve for the parameter value that reaches a goal",
	Long: `Search for the parameter value that meets a goal while the rest of the plan
stays fixed.

Targets:
  contribution      smallest contribution reaching --target-fv
  years             fewest accumulation years reaching --target-fv
  withdrawal_rate   withdrawal rate paying --target-monthly in the first withdrawal year
  sustainable_rate  highest withdrawal rate that keeps the final balance at the future value

Without --target every target the goals allow is solved.

Examples:
  dcaplan break-even plan.yaml --target contribution --target-fv 500000
  dcaplan break-even plan.yaml --target sustainable_rate
  dcaplan break-even plan.yaml --target-fv 500000 --target-monthly 2500 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runBreakEven,
}

func runBreakEven(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	targetName, _ := flags.GetString("target")
	scenario, _ := flags.GetString("scenario")
	seed, _ := flags.GetInt64("seed")
	format, _ := flags.GetString("format")
	outputFile, _ := flags.GetString("output-file")

	format = strings.ToLower(format)
	if format != "table" && format != "json" {
		return fmt.Errorf("unknown output format: %s (valid: table, json)", format)
	}

	scenario = defaultScenario(plan, scenario)
	base, err := plan.ResolveScenario(scenario)
	if err != nil {
		return err
	}
	seed = seedFor(seed, plan, scenario)

	targetFV := optionalDecimal(cmd, "target-fv")
	targetMonthly := optionalDecimal(cmd, "target-monthly")
	solver := breakeven.NewDefaultSolver(newEngine())

	var text string
	if targetName == "" {
		if flags.Changed("min") || flags.Changed("max") {
			return fmt.Errorf("--min and --max need --target")
		}
		result, err := solver.SolveAll(cmd.Context(), base, scenario, seed, targetFV, targetMonthly)
		if err != nil {
			return err
		}
		if format == "json" {
			text, err = (&breakeven.JSONFormatter{Pretty: true}).FormatMulti(result)
		} else {
			text = (&breakeven.TableFormatter{}).FormatMulti(result)
		}
		if err != nil {
			return err
		}
	} else {
		target, err := breakeven.ParseTarget(targetName)
		if err != nil {
			return err
		}
		result, err := solver.Solve(cmd.Context(), breakeven.SolveRequest{
			Base:         base,
			ScenarioName: scenario,
			Seed:         seed,
			Target:       target,
			Constraints: breakeven.Constraints{
				MinValue:                optionalDecimal(cmd, "min"),
				MaxValue:                optionalDecimal(cmd, "max"),
				TargetFutureValue:       targetFV,
				TargetMonthlyWithdrawal: targetMonthly,
			},
		})
		if err != nil {
			return err
		}
		if format == "json" {
			text, err = (&breakeven.JSONFormatter{Pretty: true}).Format(result)
		} else {
			text = (&breakeven.TableFormatter{}).Format(result)
		}
		if err != nil {
			return err
		}
	}

	return writeOutput(cmd, []byte(text), outputFile)
}

// optionalDecimal returns the flag value, or nil when the flag was not given
func optionalDecimal(cmd *cobra.Command, name string) *decimal.Decimal {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	d := decimal.NewFromFloat(v)
	return &d
}

func init() {
	breakEvenCmd.Flags().StringP("target", "t", "", "Target to solve (contribution, years, withdrawal_rate, sustainable_rate)")
	breakEvenCmd.Flags().Float64("target-fv", 0, "Goal future value at the end of accumulation")
	breakEvenCmd.Flags().Float64("target-monthly", 0, "Goal monthly withdrawal in the first withdrawal year")
	breakEvenCmd.Flags().Float64("min", 0, "Lower search bound for the solved parameter")
	breakEvenCmd.Flags().Float64("max", 0, "Upper search bound for the solved parameter")
	breakEvenCmd.Flags().StringP("scenario", "s", "", "Scenario to solve (default: first scenario)")
	breakEvenCmd.Flags().Int64("seed", 0, "Seed for randomized rate series")
	breakEvenCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")
	breakEvenCmd.Flags().StringP("output-file", "o", "", "Write the result to a file instead of stdout")

	rootCmd.AddCommand(breakEvenCmd)
}
