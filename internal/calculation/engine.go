package calculation

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// ProjectionEngine orchestrates rate generation and the two simulation phases.
// It holds no per-projection state, so one engine may serve concurrent callers
// as long as each call gets its own random source.
type ProjectionEngine struct {
	Logger Logger
	Debug  bool // Enable debug output for detailed calculations
}

// NewProjectionEngine creates a new projection engine
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{Logger: NopLogger{}}
}

// SetLogger replaces the engine logger. nil restores the no-op logger.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

func (pe *ProjectionEngine) logger() Logger {
	if pe.Logger == nil {
		return NopLogger{}
	}
	return pe.Logger
}

// Project normalizes params, builds the yearly rate series for the whole
// horizon from src and runs both phases.
func (pe *ProjectionEngine) Project(params domain.Parameters, src UniformSource) domain.ProjectionResult {
	p := params.Normalized()
	rates := NewRateProvider(p.Rate, src).YearlyRates(p.HorizonYears())
	return pe.ProjectWithRates(p, rates)
}

// ProjectWithRates runs both phases against an explicit rate series.
func (pe *ProjectionEngine) ProjectWithRates(params domain.Parameters, rates []float64) domain.ProjectionResult {
	p := params.Normalized()
	log := pe.logger()

	acc := SimulateAccumulation(p, rates)
	if pe.Debug {
		log.Debugf("accumulation: periods=%d rows=%d balance=%.2f contributed=%.2f",
			p.TotalPeriods(), len(acc.Schedule), acc.Balance, acc.TotalContribution)
	}

	wd := SimulateWithdrawal(acc.Balance, p.AccumulationRateYears(), rates, p.CompoundsPerYear, p.WithdrawalRatePercent)
	if pe.Debug {
		log.Debugf("decumulation: rows=%d withdrawn=%.2f final=%.2f", len(wd.Schedule), wd.TotalWithdrawn, wd.Balance)
	}
	if wd.Balance < 0 {
		log.Warnf("balance turns negative during decumulation (final %.2f)", wd.Balance)
	}

	return domain.ProjectionResult{
		FutureValue:       acc.Balance,
		TotalContribution: acc.TotalContribution,
		InterestEarned:    acc.InterestEarned(),
		Schedule:          acc.Schedule,
		WithdrawSchedule:  wd.Schedule,
		TotalWithdrawn:    wd.TotalWithdrawn,
		FinalBalance:      wd.Balance,
		YearlyRates:       rates,
	}
}

// Project is a convenience wrapper around a silent engine.
func Project(params domain.Parameters, src UniformSource) domain.ProjectionResult {
	return NewProjectionEngine().Project(params, src)
}

// RunParameters projects a single parameter set seeded with seed and wraps it in a summary.
func (pe *ProjectionEngine) RunParameters(ctx context.Context, name string, params domain.Parameters, seed int64) (*domain.ScenarioSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := params.Normalized()
	pe.logger().Infof("projecting %s: %s", name, p.Describe())

	result := pe.Project(p, rand.New(rand.NewSource(seed)))
	summary := domain.NewScenarioSummary(name, p, seed, result)
	return &summary, nil
}

// RunScenario calculates one scenario of a plan.
func (pe *ProjectionEngine) RunScenario(ctx context.Context, config *domain.Configuration, scenario *domain.Scenario) (*domain.ScenarioSummary, error) {
	if config == nil || scenario == nil {
		return nil, fmt.Errorf("configuration and scenario are required")
	}

	seed := seedFunc()
	if scenario.Seed != nil {
		seed = *scenario.Seed
	}

	params := scenario.Overrides.Apply(config.Base)
	summary, err := pe.RunParameters(ctx, scenario.Name, params, seed)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}
	summary.Description = scenario.Description
	return summary, nil
}

// RunScenarioByName calculates the named scenario of a plan.
func (pe *ProjectionEngine) RunScenarioByName(ctx context.Context, config *domain.Configuration, name string) (*domain.ScenarioSummary, error) {
	scenario, err := config.FindScenario(name)
	if err != nil {
		return nil, err
	}
	return pe.RunScenario(ctx, config, scenario)
}

// RunScenarios calculates every scenario of a plan in file order.
func (pe *ProjectionEngine) RunScenarios(ctx context.Context, config *domain.Configuration) (*domain.ScenarioComparison, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	scenarios := config.EffectiveScenarios()
	comparison := &domain.ScenarioComparison{
		Scenarios:   make([]domain.ScenarioSummary, 0, len(scenarios)),
		Assumptions: ScenarioAssumptions(config),
	}

	for i := range scenarios {
		summary, err := pe.RunScenario(ctx, config, &scenarios[i])
		if err != nil {
			return nil, err
		}
		comparison.Scenarios = append(comparison.Scenarios, *summary)
	}

	return comparison, nil
}

// ScenarioAssumptions lists the modeling assumptions that apply to a plan.
func ScenarioAssumptions(config *domain.Configuration) []string {
	assumptions := []string{
		"Contributions are deposited at the end of each period, after that period's growth",
		fmt.Sprintf("Decumulation lasts %d years; each year grows in full before the withdrawal", domain.DecumulationYears),
		"Withdrawals are a fixed percentage of the grown balance; the balance may go negative",
		"Rates are nominal; taxes, fees and inflation are not modeled",
	}

	randomized := false
	for _, sc := range config.EffectiveScenarios() {
		if sc.Overrides.Apply(config.Base).Normalized().Rate.IsRandomized() {
			randomized = true
			break
		}
	}
	if randomized {
		assumptions = append(assumptions,
			"Randomized scenarios draw each year's rate uniformly from base ± deviation, floored at 0%, for both phases")
	}
	return assumptions
}
