package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/config"
	"github.com/rgehrsitz/dcaplan/internal/domain"
)

const defaultWizardOutput = "dcaplan_plan.yaml"

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Create a plan file interactively",
	Long: `Ask for each plan parameter in turn and save the answers as a plan file.

Blank answers read as 0. A compounding frequency of 0 becomes 1 and an
accumulation length of 0 becomes 10 years.`,
	Args: cobra.NoArgs,
	RunE: runWizard,
}

// wizardValues holds the raw answers of the wizard form
type wizardValues struct {
	Principal    string
	Rate         string
	Mode         string
	Deviation    string
	Compounds    string
	Contribution string
	Period       string
	Years        string
	Withdrawal   string
	Project      bool
}

func defaultWizardValues() wizardValues {
	return wizardValues{
		Principal:    "10000",
		Rate:         "6",
		Mode:         string(domain.RateModeFixed),
		Deviation:    "20",
		Compounds:    "12",
		Contribution: "1000",
		Period:       string(domain.PeriodMonthly),
		Years:        strconv.Itoa(domain.DefaultAccumulationYears),
		Withdrawal:   "4",
		Project:      true,
	}
}

// Parameters converts the answers the same way the plan editor reads its fields
func (v wizardValues) Parameters() (domain.Parameters, error) {
	period, err := config.ParsePeriod(v.Period)
	if err != nil {
		return domain.Parameters{}, err
	}
	mode, err := config.ParseRateMode(v.Mode)
	if err != nil {
		return domain.Parameters{}, err
	}
	p := domain.Parameters{
		Principal: config.ParseNonNegative(v.Principal),
		Rate: domain.RateSpec{
			Mode:              mode,
			AnnualRatePercent: config.ParseNonNegative(v.Rate),
		},
		CompoundsPerYear:      config.ParseCompounds(v.Compounds),
		ContributionAmount:    config.ParseNonNegative(v.Contribution),
		ContributionPeriod:    period,
		AccumulationYears:     config.ParseYears(v.Years),
		WithdrawalRatePercent: config.ParseNonNegative(v.Withdrawal),
	}
	if mode == domain.RateModeRandomized {
		p.Rate.DeviationPercent = config.ParseNonNegative(v.Deviation)
	}
	return p, config.ValidateParameters("wizard", p)
}

// numberField validates a non-negative number, optionally bounded above
func numberField(maxValue float64) func(string) error {
	return func(s string) error {
		v, err := config.ParseNonNegativeStrict(s)
		if err != nil {
			return err
		}
		if maxValue > 0 && v > maxValue {
			return fmt.Errorf("must be at most %g", maxValue)
		}
		return nil
	}
}

func newWizardForm(v *wizardValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Initial principal").Value(&v.Principal).Validate(numberField(config.MaxAmount)),
			huh.NewInput().Title("Contribution per period").Value(&v.Contribution).Validate(numberField(config.MaxAmount)),
			huh.NewSelect[string]().Title("Contribution period").
				Options(
					huh.NewOption("Monthly", string(domain.PeriodMonthly)),
					huh.NewOption("Weekly", string(domain.PeriodWeekly)),
				).
				Value(&v.Period),
			huh.NewInput().Title("Accumulation years").Value(&v.Years).Validate(numberField(config.MaxAccumulationYears)),
		).Title("Savings"),
		huh.NewGroup(
			huh.NewInput().Title("Annual rate (%)").Value(&v.Rate).Validate(numberField(config.MaxAnnualRatePercent)),
			huh.NewSelect[string]().Title("Rate mode").
				Options(
					huh.NewOption("Fixed", string(domain.RateModeFixed)),
					huh.NewOption("Randomized every year", string(domain.RateModeRandomized)),
				).
				Value(&v.Mode),
			huh.NewInput().Title("Deviation (% of the rate)").
				Description("Used only for randomized rates").
				Value(&v.Deviation).Validate(numberField(config.MaxDeviationPercent)),
			huh.NewInput().Title("Compounds per year").Value(&v.Compounds).Validate(numberField(config.MaxCompoundsPerYear)),
		).Title("Growth"),
		huh.NewGroup(
			huh.NewInput().Title("Withdrawal rate (% per year)").
				Description("0 disables the withdrawal phase").
				Value(&v.Withdrawal).Validate(numberField(config.MaxWithdrawalRatePercent)),
			huh.NewConfirm().Title("Show a projection after saving?").Value(&v.Project),
		).Title("Withdrawals"),
	)
}

func runWizard(cmd *cobra.Command, _ []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	accessible, _ := cmd.Flags().GetBool("accessible")

	values := defaultWizardValues()
	form := newWizardForm(&values).
		WithAccessible(accessible).
		WithInput(cmd.InOrStdin()).
		WithOutput(cmd.OutOrStdout())
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Wizard cancelled, nothing saved")
			return nil
		}
		return err
	}

	params, err := values.Parameters()
	if err != nil {
		return err
	}

	plan := &domain.Configuration{Base: params}
	if err := config.NewInputParser().SaveToFile(plan, outputPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved plan to %s\n", outputPath)

	if !values.Project {
		return nil
	}
	summary, err := newEngine().RunParameters(cmd.Context(), domain.BaseScenarioName, params, calculation.NextSeed())
	if err != nil {
		return err
	}
	results := &domain.ScenarioComparison{
		Scenarios:   []domain.ScenarioSummary{*summary},
		Assumptions: calculation.ScenarioAssumptions(plan),
	}
	return renderResults(cmd, results, "console", "")
}

func init() {
	wizardCmd.Flags().StringP("output", "o", defaultWizardOutput, "Plan file to write")
	wizardCmd.Flags().Bool("accessible", false, "Prompt line by line instead of drawing a form")
	rootCmd.AddCommand(wizardCmd)
}
