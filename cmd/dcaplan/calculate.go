package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/config"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/output"
)

var calculateCmd = &cobra.Command{
	Use:   "calculate [plan-file]",
	Short: "Project every scenario of a plan",
	Long: `Project every scenario of a plan and render a report.

Formats: console, console-lite, csv, detailed-csv, json, html.
Use --format all to write the console and detailed CSV reports to timestamped files.`,
	Args: cobra.ExactArgs(1),
	RunE: runCalculate,
}

func runCalculate(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "" {
		format = settings.Display.DefaultFormat
	}
	outputFile, _ := cmd.Flags().GetString("output-file")
	scenario, _ := cmd.Flags().GetString("scenario")
	record, _ := cmd.Flags().GetBool("record")

	engine := newEngine()
	var results *domain.ScenarioComparison
	if scenario != "" {
		summary, err := engine.RunScenarioByName(cmd.Context(), plan, scenario)
		if err != nil {
			return err
		}
		results = &domain.ScenarioComparison{
			Scenarios:   []domain.ScenarioSummary{*summary},
			Assumptions: calculation.ScenarioAssumptions(plan),
		}
	} else {
		results, err = engine.RunScenarios(cmd.Context(), plan)
		if err != nil {
			return err
		}
	}

	if record {
		if err := recordResults(cmd, results); err != nil {
			return err
		}
	}

	return renderResults(cmd, results, format, outputFile)
}

func recordResults(cmd *cobra.Command, results *domain.ScenarioComparison) error {
	recorder, err := openRecorder(true)
	if err != nil {
		return err
	}
	defer recorder.Close()

	for i := range results.Scenarios {
		run, err := recorder.RecordRun(&results.Scenarios[i])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Recorded %s as run %s\n", run.Scenario, run.ID)
	}
	return nil
}

func renderResults(cmd *cobra.Command, results *domain.ScenarioComparison, format, outputFile string) error {
	if output.NormalizeFormatName(format) == "all" {
		files, err := output.GenerateReport(results, format)
		for _, f := range files {
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", f)
		}
		return err
	}

	data, err := output.Render(results, format)
	if err != nil {
		return err
	}
	return writeOutput(cmd, data, outputFile)
}

var quickCmd = &cobra.Command{
	Use:   "quick",
	Short: "Project a single plan given entirely by flags",
	Long: `Project a single plan without a plan file.

Example:
  dcaplan quick --principal 10000 --rate 6 --compounds 12 --contribution 1000 --years 20 --withdraw 4`,
	Args: cobra.NoArgs,
	RunE: runQuick,
}

func runQuick(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	principal, _ := flags.GetFloat64("principal")
	rate, _ := flags.GetFloat64("rate")
	deviation, _ := flags.GetFloat64("deviation")
	randomized, _ := flags.GetBool("randomized")
	compounds, _ := flags.GetInt("compounds")
	contribution, _ := flags.GetFloat64("contribution")
	periodName, _ := flags.GetString("period")
	years, _ := flags.GetFloat64("years")
	withdraw, _ := flags.GetFloat64("withdraw")
	seed, _ := flags.GetInt64("seed")
	format, _ := flags.GetString("format")
	outputFile, _ := flags.GetString("output-file")
	record, _ := flags.GetBool("record")

	period, err := config.ParsePeriod(periodName)
	if err != nil {
		return err
	}
	mode := domain.RateModeFixed
	if randomized {
		mode = domain.RateModeRandomized
	}

	params := domain.Parameters{
		Principal:             principal,
		Rate:                  domain.RateSpec{Mode: mode, AnnualRatePercent: rate, DeviationPercent: deviation},
		CompoundsPerYear:      compounds,
		ContributionAmount:    contribution,
		ContributionPeriod:    period,
		AccumulationYears:     years,
		WithdrawalRatePercent: withdraw,
	}
	if err := config.ValidateParameters("quick", params); err != nil {
		return err
	}
	if seed == 0 {
		seed = calculation.NextSeed()
	}
	if format == "" {
		format = settings.Display.DefaultFormat
	}

	summary, err := newEngine().RunParameters(cmd.Context(), "Quick", params, seed)
	if err != nil {
		return err
	}
	results := &domain.ScenarioComparison{
		Scenarios:   []domain.ScenarioSummary{*summary},
		Assumptions: calculation.ScenarioAssumptions(&domain.Configuration{Base: summary.Parameters}),
	}

	if record {
		if err := recordResults(cmd, results); err != nil {
			return err
		}
	}
	return renderResults(cmd, results, format, outputFile)
}

var validateCmd = &cobra.Command{
	Use:   "validate [plan-file]",
	Short: "Validate a plan file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Plan file %s is valid (%d scenario(s): %v)\n",
			args[0], len(plan.EffectiveScenarios()), plan.ScenarioNames())
		return nil
	},
}

func init() {
	calculateCmd.Flags().StringP("format", "f", "", "Output format (default from settings)")
	calculateCmd.Flags().StringP("output-file", "o", "", "Write the report to a file instead of stdout")
	calculateCmd.Flags().StringP("scenario", "s", "", "Project only the named scenario")
	calculateCmd.Flags().Bool("record", false, "Record the runs in the history database")

	quickCmd.Flags().Float64("principal", 0, "Initial deposit")
	quickCmd.Flags().Float64("rate", 0, "Annual rate of return in percent")
	quickCmd.Flags().Float64("deviation", 0, "Deviation of randomized rates, in percent of the rate")
	quickCmd.Flags().Bool("randomized", false, "Draw a new rate every year")
	quickCmd.Flags().Int("compounds", domain.DefaultCompoundsPerYear, "Compounding events per year")
	quickCmd.Flags().Float64("contribution", 0, "Deposit per period")
	quickCmd.Flags().String("period", string(domain.PeriodMonthly), "Contribution period (monthly, weekly)")
	quickCmd.Flags().Float64("years", domain.DefaultAccumulationYears, "Accumulation years")
	quickCmd.Flags().Float64("withdraw", 0, "Yearly withdrawal rate in percent (0 disables withdrawals)")
	quickCmd.Flags().Int64("seed", 0, "Seed for randomized rates (default: time based)")
	quickCmd.Flags().StringP("format", "f", "", "Output format (default from settings)")
	quickCmd.Flags().StringP("output-file", "o", "", "Write the report to a file instead of stdout")
	quickCmd.Flags().Bool("record", false, "Record the run in the history database")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(validateCmd)
}
