package calculation

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/shopspring/decimal"
)

// SensitivityAnalyzer performs parameter sweep analysis
type SensitivityAnalyzer struct {
	engine *ProjectionEngine
}

// NewSensitivityAnalyzer creates a new sensitivity analyzer
func NewSensitivityAnalyzer(engine *ProjectionEngine) *SensitivityAnalyzer {
	if engine == nil {
		engine = NewProjectionEngine()
	}
	return &SensitivityAnalyzer{engine: engine}
}

// ParameterValue reads the current value of a sweepable parameter.
func ParameterValue(p domain.Parameters, name string) (decimal.Decimal, error) {
	switch name {
	case "rate":
		return decimal.NewFromFloat(p.Rate.AnnualRatePercent), nil
	case "contribution":
		return decimal.NewFromFloat(p.ContributionAmount), nil
	case "years":
		return decimal.NewFromFloat(p.AccumulationYears), nil
	case "withdrawal_rate":
		return decimal.NewFromFloat(p.WithdrawalRatePercent), nil
	case "compounding":
		return decimal.NewFromInt(int64(p.CompoundsPerYear)), nil
	}
	return decimal.Zero, fmt.Errorf("unknown sensitivity parameter %q", name)
}

// WithParameterValue returns a copy of p with the named parameter set to value.
func WithParameterValue(p domain.Parameters, name string, value decimal.Decimal) (domain.Parameters, error) {
	switch name {
	case "rate":
		p.Rate.AnnualRatePercent = value.InexactFloat64()
	case "contribution":
		p.ContributionAmount = value.InexactFloat64()
	case "years":
		p.AccumulationYears = value.InexactFloat64()
	case "withdrawal_rate":
		p.WithdrawalRatePercent = value.InexactFloat64()
	case "compounding":
		p.CompoundsPerYear = int(value.Round(0).IntPart())
	default:
		return p, fmt.Errorf("unknown sensitivity parameter %q", name)
	}
	return p, nil
}

// AnalyzeSingleParameter sweeps one parameter of the named scenario. Every
// sweep point shares the same seed so randomized plans see the same draws.
func (sa *SensitivityAnalyzer) AnalyzeSingleParameter(
	ctx context.Context,
	config *domain.Configuration,
	parameter domain.SensitivityParameter,
	scenarioName string,
	seed int64,
) (*domain.ParameterSensitivityAnalysis, error) {
	base, err := config.ResolveScenario(scenarioName)
	if err != nil {
		return nil, fmt.Errorf("failed to get base scenario: %w", err)
	}

	// The sweep is centred on the scenario's own value.
	parameter.BaseValue, err = ParameterValue(base, parameter.Name)
	if err != nil {
		return nil, err
	}

	baseResult := sa.engine.Project(base, rand.New(rand.NewSource(seed)))
	baseFV := decimal.NewFromFloat(baseResult.FutureValue)

	values := GenerateParameterValues(parameter)
	results := make([]domain.SensitivityResult, 0, len(values))

	for _, value := range values {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		modified, err := WithParameterValue(base, parameter.Name, value)
		if err != nil {
			return nil, err
		}

		r := sa.engine.Project(modified, rand.New(rand.NewSource(seed)))
		metrics := domain.SensitivityMetrics{
			FutureValue:                domain.Money(r.FutureValue),
			TotalContribution:          domain.Money(r.TotalContribution),
			InterestEarned:             domain.Money(r.InterestEarned),
			TotalWithdrawn:             domain.Money(r.TotalWithdrawn),
			FirstYearMonthlyWithdrawal: domain.Money(r.FirstYearMonthlyWithdrawal()),
			FinalBalance:               domain.Money(r.FinalBalance),
		}
		if !baseFV.IsZero() {
			metrics.FutureValueChangePct = decimal.NewFromFloat(r.FutureValue).Sub(baseFV).
				Div(baseFV).Mul(decimal.NewFromInt(100)).Round(2)
		}

		results = append(results, domain.SensitivityResult{
			ParameterValue: value,
			ScenarioName:   fmt.Sprintf("%s_%s_%s", scenarioName, parameter.Name, value.StringFixed(2)),
			KeyMetrics:     metrics,
		})
	}

	summary := calculateSensitivitySummary(results, parameter)
	sa.engine.logger().Infof("sensitivity %s: %d points, elasticity %s (%s)",
		parameter.Name, len(results), summary.Elasticity.StringFixed(2), summary.RiskLevel)

	return &domain.ParameterSensitivityAnalysis{
		BaseScenarioName: scenarioName,
		Parameter:        parameter,
		Results:          results,
		Summary:          summary,
	}, nil
}

// AnalyzeMultipleParameters runs one independent sweep per parameter.
func (sa *SensitivityAnalyzer) AnalyzeMultipleParameters(
	ctx context.Context,
	config *domain.Configuration,
	parameters []domain.SensitivityParameter,
	scenarioName string,
	seed int64,
) ([]*domain.ParameterSensitivityAnalysis, error) {
	analyses := make([]*domain.ParameterSensitivityAnalysis, 0, len(parameters))
	for _, param := range parameters {
		analysis, err := sa.AnalyzeSingleParameter(ctx, config, param, scenarioName, seed)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze parameter %s: %w", param.Name, err)
		}
		analyses = append(analyses, analysis)
	}
	return analyses, nil
}

// GenerateParameterValues generates evenly spaced values for a parameter sweep
func GenerateParameterValues(param domain.SensitivityParameter) []decimal.Decimal {
	if param.Steps <= 1 {
		return []decimal.Decimal{param.BaseValue}
	}

	values := make([]decimal.Decimal, 0, param.Steps)
	stepSize := param.MaxValue.Sub(param.MinValue).Div(decimal.NewFromInt(int64(param.Steps - 1)))
	for i := 0; i < param.Steps; i++ {
		values = append(values, param.MinValue.Add(stepSize.Mul(decimal.NewFromInt(int64(i)))))
	}
	return values
}

// calculateSensitivitySummary finds the largest elasticity of the future value
// with respect to the parameter across the sweep.
func calculateSensitivitySummary(results []domain.SensitivityResult, parameter domain.SensitivityParameter) domain.SensitivitySummary {
	summary := domain.SensitivitySummary{Elasticity: decimal.Zero}
	if parameter.BaseValue.IsZero() {
		summary.RiskLevel = summary.DetermineRiskLevel()
		summary.Recommendations = summary.GenerateRecommendations(parameter.Name)
		return summary
	}

	hundred := decimal.NewFromInt(100)
	for _, result := range results {
		paramChange := result.ParameterValue.Sub(parameter.BaseValue).Div(parameter.BaseValue).Mul(hundred)
		if paramChange.IsZero() {
			continue
		}
		elasticity := result.KeyMetrics.FutureValueChangePct.Abs().Div(paramChange.Abs())
		if elasticity.GreaterThan(summary.Elasticity) {
			summary.Elasticity = elasticity
		}
	}

	summary.Elasticity = summary.Elasticity.Round(4)
	summary.RiskLevel = summary.DetermineRiskLevel()
	summary.Recommendations = summary.GenerateRecommendations(parameter.Name)
	return summary
}
