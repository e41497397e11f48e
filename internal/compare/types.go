package compare

import (
	"fmt"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/output"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string                  `json:"scenarioName"`
	Description  string                  `json:"description"`
	Summary      *domain.ScenarioSummary `json:"-"`

	// Key Metrics
	FutureValue                decimal.Decimal `json:"futureValue"`
	TotalContribution          decimal.Decimal `json:"totalContribution"`
	InterestEarned             decimal.Decimal `json:"interestEarned"`
	FirstYearMonthlyWithdrawal decimal.Decimal `json:"firstYearMonthlyWithdrawal"`
	TotalWithdrawn             decimal.Decimal `json:"totalWithdrawn"`
	FinalBalance               decimal.Decimal `json:"finalBalance"`
	DepletionYear              int             `json:"depletionYear"` // 0 when the balance never runs out

	// Comparison to Base
	FutureValueDiffFromBase    decimal.Decimal `json:"futureValueDiffFromBase"`
	FutureValuePctFromBase     decimal.Decimal `json:"futureValuePctFromBase"`
	MonthlyIncomeDiffFromBase  decimal.Decimal `json:"monthlyIncomeDiffFromBase"`
	TotalWithdrawnDiffFromBase decimal.Decimal `json:"totalWithdrawnDiffFromBase"`
	FinalBalanceDiffFromBase   decimal.Decimal `json:"finalBalanceDiffFromBase"`

	// Scenario Specifics (extracted from parameters for display)
	Rate               string  `json:"rate"`
	ContributionPeriod string  `json:"contributionPeriod"`
	AccumulationYears  float64 `json:"accumulationYears"`
	WithdrawalRate     string  `json:"withdrawalRate"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	Assumptions        []string           `json:"assumptions,omitempty"`
	ConfigPath         string             `json:"configPath"`
}

// ToScenarioComparison converts a ComparisonSet to a domain.ScenarioComparison
// so the report formatters can render it.
func (cs *ComparisonSet) ToScenarioComparison() *domain.ScenarioComparison {
	scenarios := make([]domain.ScenarioSummary, 0, len(cs.AlternativeResults)+1)

	if cs.BaseResult != nil && cs.BaseResult.Summary != nil {
		scenarios = append(scenarios, *cs.BaseResult.Summary)
	}
	for _, result := range cs.AlternativeResults {
		if result.Summary != nil {
			scenarios = append(scenarios, *result.Summary)
		}
	}

	return &domain.ScenarioComparison{
		Scenarios:   scenarios,
		Assumptions: cs.Assumptions,
	}
}

// MetricsCalculator extracts key metrics from scenario summaries
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a scenario summary
func (mc *MetricsCalculator) CalculateMetrics(summary *domain.ScenarioSummary) ComparisonResult {
	p := summary.Parameters
	rate := output.FormatRate(p.Rate.AnnualRatePercent)
	if p.Rate.IsRandomized() {
		rate = fmt.Sprintf("%s ±%.0f%%", rate, p.Rate.DeviationPercent)
	}

	return ComparisonResult{
		ScenarioName:               summary.Name,
		Description:                summary.Description,
		Summary:                    summary,
		FutureValue:                summary.FutureValue,
		TotalContribution:          summary.TotalContribution,
		InterestEarned:             summary.InterestEarned,
		FirstYearMonthlyWithdrawal: summary.FirstYearMonthlyWithdrawal,
		TotalWithdrawn:             summary.TotalWithdrawn,
		FinalBalance:               summary.FinalBalance,
		DepletionYear:              summary.DepletionYear,
		Rate:                       rate,
		ContributionPeriod:         string(p.ContributionPeriod),
		AccumulationYears:          p.AccumulationYears,
		WithdrawalRate:             output.FormatRate(p.WithdrawalRatePercent),
	}
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.FutureValueDiffFromBase = scenario.FutureValue.Sub(base.FutureValue)

	if !base.FutureValue.IsZero() {
		scenario.FutureValuePctFromBase = scenario.FutureValueDiffFromBase.
			Div(base.FutureValue).
			Mul(decimal.NewFromInt(100))
	}

	scenario.MonthlyIncomeDiffFromBase = scenario.FirstYearMonthlyWithdrawal.Sub(base.FirstYearMonthlyWithdrawal)
	scenario.TotalWithdrawnDiffFromBase = scenario.TotalWithdrawn.Sub(base.TotalWithdrawn)
	scenario.FinalBalanceDiffFromBase = scenario.FinalBalance.Sub(base.FinalBalance)

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if compSet.BaseResult == nil || len(compSet.AlternativeResults) == 0 {
		return recommendations
	}
	base := compSet.BaseResult

	bestValue := base
	for i := range compSet.AlternativeResults {
		if alt := &compSet.AlternativeResults[i]; alt.FutureValue.GreaterThan(bestValue.FutureValue) {
			bestValue = alt
		}
	}
	if bestValue != base {
		recommendations = append(recommendations,
			"Highest Future Value: "+bestValue.ScenarioName+" accumulates "+
				output.FormatCurrency(bestValue.FutureValue.Sub(base.FutureValue))+" more than the base")
	}

	bestIncome := base
	for i := range compSet.AlternativeResults {
		if alt := &compSet.AlternativeResults[i]; alt.FirstYearMonthlyWithdrawal.GreaterThan(bestIncome.FirstYearMonthlyWithdrawal) {
			bestIncome = alt
		}
	}
	if bestIncome != base {
		recommendations = append(recommendations,
			"Best Income: "+bestIncome.ScenarioName+" pays "+
				output.FormatCurrency(bestIncome.FirstYearMonthlyWithdrawal.Sub(base.FirstYearMonthlyWithdrawal))+
				" more per month in the first withdrawal year")
	}

	bestLegacy := base
	for i := range compSet.AlternativeResults {
		if alt := &compSet.AlternativeResults[i]; alt.FinalBalance.GreaterThan(bestLegacy.FinalBalance) {
			bestLegacy = alt
		}
	}
	if bestLegacy != base {
		recommendations = append(recommendations,
			"Largest Final Balance: "+bestLegacy.ScenarioName+" ends with "+
				output.FormatCurrency(bestLegacy.FinalBalance)+
				fmt.Sprintf(" after %d years of withdrawals", domain.DecumulationYears))
	}

	for _, alt := range compSet.AlternativeResults {
		if alt.DepletionYear > 0 {
			recommendations = append(recommendations,
				fmt.Sprintf("Warning: %s runs out of money in year %d", alt.ScenarioName, alt.DepletionYear))
		}
	}

	return recommendations
}
