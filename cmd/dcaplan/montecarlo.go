package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/output"
)

var monteCarloCmd = &cobra.Command{
	Use:   "monte-carlo [plan-file]",
	Short: "Run a scenario many times with randomized rates",
	Long: `Run a scenario many times, each with its own random rate series, and report
percentile bands of the future value, total withdrawn and final balance.

Fixed-rate scenarios are randomized with --deviation (default from settings).`,
	Args: cobra.ExactArgs(1),
	RunE: runMonteCarlo,
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	plan, err := loadPlan(args[0])
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	scenario, _ := flags.GetString("scenario")
	simulations, _ := flags.GetInt("simulations")
	deviation, _ := flags.GetFloat64("deviation")
	seed, _ := flags.GetInt64("seed")
	workers, _ := flags.GetInt("workers")
	format, _ := flags.GetString("format")
	outputFile, _ := flags.GetString("output-file")

	if simulations <= 0 {
		simulations = settings.Simulation.Runs
	}
	if deviation <= 0 {
		deviation = settings.Simulation.DeviationPercent
	}

	scenario = defaultScenario(plan, scenario)
	params, err := plan.ResolveScenario(scenario)
	if err != nil {
		return err
	}

	simulator := calculation.NewMonteCarloSimulator(newEngine(), calculation.MonteCarloConfig{
		NumSimulations:   simulations,
		Seed:             seedFor(seed, plan, scenario),
		DeviationPercent: deviation,
		Concurrency:      workers,
	})
	logger.Info().Str("scenario", scenario).Int("simulations", simulations).Msg("running monte carlo")

	result, err := simulator.Run(cmd.Context(), params)
	if err != nil {
		return fmt.Errorf("monte carlo failed: %w", err)
	}

	var data []byte
	switch strings.ToLower(format) {
	case "console", "table", "":
		data = []byte(output.FormatMonteCarloConsole(result))
	case "csv":
		data, err = output.FormatMonteCarloCSV(result)
	case "json":
		data, err = json.MarshalIndent(result, "", "  ")
	default:
		return fmt.Errorf("unknown output format: %s (valid: console, csv, json)", format)
	}
	if err != nil {
		return err
	}
	return writeOutput(cmd, data, outputFile)
}

func init() {
	monteCarloCmd.Flags().StringP("scenario", "s", "", "Scenario to simulate (default: first scenario)")
	monteCarloCmd.Flags().IntP("simulations", "n", 0, "Number of simulations (default from settings)")
	monteCarloCmd.Flags().Float64("deviation", 0, "Deviation for fixed-rate scenarios, in percent of the rate")
	monteCarloCmd.Flags().Int64("seed", 0, "Seed of the first simulation (default: scenario seed or time based)")
	monteCarloCmd.Flags().Int("workers", 0, "Concurrent simulations (default 10)")
	monteCarloCmd.Flags().StringP("format", "f", "console", "Output format (console, csv, json)")
	monteCarloCmd.Flags().StringP("output-file", "o", "", "Write the report to a file instead of stdout")

	rootCmd.AddCommand(monteCarloCmd)
}
