package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/config"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/history"
	"github.com/rgehrsitz/dcaplan/internal/logging"
	"github.com/rgehrsitz/dcaplan/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagDebug        bool
	flagLogJSON      bool
	flagSettingsPath string

	settings = config.DefaultSettings()
	logger   = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "dcaplan",
	Short: "Savings and withdrawal projection calculator",
	Long: `Project a dollar-cost-averaging savings plan and a 50-year withdrawal phase.

A plan file holds base parameters and named scenarios:

  base:
    principal: 10000
    rate: {mode: fixed, annual_rate_percent: 6}
    compounds_per_year: 12
    contribution_amount: 1000
    contribution_period: monthly
    accumulation_years: 20
    withdrawal_rate_percent: 4
  scenarios:
    - name: Baseline
    - name: Volatile
      overrides: {rate_mode: randomized, deviation_percent: 20}
      seed: 42`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dcaplan %s (commit %s, built %s)\n", version, commit, date)
			if flagDebug {
				if info := buildInfo(); info != "" {
					fmt.Fprintln(cmd.OutOrStdout(), info)
				}
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// setup loads user settings and builds the logger before any command runs
func setup(cmd *cobra.Command, _ []string) error {
	logger = logging.New(logging.Options{Debug: flagDebug, JSON: flagLogJSON, Out: cmd.ErrOrStderr()})

	path := flagSettingsPath
	if path == "" {
		path = config.SettingsPath()
	}
	loaded, err := config.LoadSettingsFrom(path)
	if err != nil {
		return err
	}
	settings = loaded
	if settings.Display.CurrencySymbol != "" {
		output.SetCurrencySymbol(settings.Display.CurrencySymbol)
	}
	logger.Debug().Str("settings", path).Msg("settings loaded")
	return nil
}

// newEngine returns a projection engine that logs through zerolog in debug mode
func newEngine() *calculation.ProjectionEngine {
	engine := calculation.NewProjectionEngine()
	if flagDebug {
		engine.SetLogger(logging.NewEngineLogger(logger))
	}
	return engine
}

func loadPlan(path string) (*domain.Configuration, error) {
	plan, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("plan", path).Strs("scenarios", plan.ScenarioNames()).Msg("plan loaded")
	return plan, nil
}

// openRecorder opens the history database when history is enabled in the
// settings or force is set, and a no-op recorder otherwise.
func openRecorder(force bool) (history.Recorder, error) {
	if !force && !settings.History.Enabled {
		return history.NewNoopRecorder(), nil
	}
	return history.NewSQLiteRecorder(settings.HistoryPath(), logger)
}

// seedFor returns the explicit seed, the scenario's pinned seed or a fresh one
func seedFor(explicit int64, plan *domain.Configuration, scenario string) int64 {
	if explicit != 0 {
		return explicit
	}
	if sc, err := plan.FindScenario(scenario); err == nil && sc.Seed != nil {
		return *sc.Seed
	}
	return calculation.NextSeed()
}

// defaultScenario is the first scenario of the plan
func defaultScenario(plan *domain.Configuration, name string) string {
	if name != "" {
		return name
	}
	return plan.EffectiveScenarios()[0].Name
}

func writeOutput(cmd *cobra.Command, data []byte, path string) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging of calculations")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "Write logs as JSON instead of console text")
	rootCmd.PersistentFlags().StringVar(&flagSettingsPath, "settings", "", "Path to settings.toml (default: XDG config dir)")

	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
