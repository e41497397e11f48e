package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/output"
	"github.com/shopspring/decimal"
)

// SolveAll runs every target the goals allow: contribution and years need a
// target future value, withdrawal_rate needs a target monthly withdrawal and
// sustainable_rate always runs. Bounds are left at each target's default.
func (s *Solver) SolveAll(
	ctx context.Context,
	base domain.Parameters,
	scenarioName string,
	seed int64,
	targetFutureValue *decimal.Decimal,
	targetMonthlyWithdrawal *decimal.Decimal,
) (*MultiTargetResult, error) {
	var targets []SolveTarget
	if targetFutureValue != nil {
		targets = append(targets, TargetContribution, TargetYears)
	}
	if targetMonthlyWithdrawal != nil {
		targets = append(targets, TargetWithdrawalRate)
	}
	targets = append(targets, TargetSustainableRate)

	multi := &MultiTargetResult{}
	for _, target := range targets {
		req := SolveRequest{
			Base:         base,
			ScenarioName: scenarioName,
			Seed:         seed,
			Target:       target,
			Constraints: Constraints{
				TargetFutureValue:       targetFutureValue,
				TargetMonthlyWithdrawal: targetMonthlyWithdrawal,
			},
			MaxIterations: s.Options.MaxIterations,
			Tolerance:     s.Options.Tolerance,
		}

		result, err := s.Solve(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			// keep going with the other targets
			multi.Failures = append(multi.Failures, fmt.Sprintf("%s: %v", target, err))
			continue
		}
		multi.Results = append(multi.Results, *result)
	}

	if len(multi.Results) == 0 {
		return nil, &BreakEvenError{
			Operation: "solve_all",
			Message:   "no target could be solved",
		}
	}

	multi.Recommendations = generateRecommendations(multi)
	return multi, nil
}

// generateRecommendations turns solved values into advice relative to the base plan
func generateRecommendations(result *MultiTargetResult) []string {
	var recommendations []string

	for _, r := range result.Results {
		switch r.Request.Target {
		case TargetContribution:
			diff := r.OptimalValue.Sub(r.BaseValue)
			if diff.IsPositive() {
				recommendations = append(recommendations, fmt.Sprintf(
					"Raise the contribution by %s per %s to reach %s",
					output.FormatCurrency(diff), periodNoun(r.Parameters), output.FormatCurrency(*r.Request.Constraints.TargetFutureValue)))
			} else {
				recommendations = append(recommendations, "The current contribution already reaches the target future value")
			}
		case TargetYears:
			diff := r.OptimalValue.Sub(r.BaseValue)
			if diff.IsPositive() {
				recommendations = append(recommendations, fmt.Sprintf(
					"Keep contributing for %s years (%s more) to reach the target", r.OptimalValue.String(), diff.String()))
			} else {
				recommendations = append(recommendations, fmt.Sprintf(
					"The target is reached after %s years of accumulation", r.OptimalValue.String()))
			}
		case TargetWithdrawalRate:
			recommendations = append(recommendations, fmt.Sprintf(
				"Withdraw %s%% per year for %s per month in the first withdrawal year",
				r.OptimalValue.StringFixed(2), output.FormatCurrency(r.FirstYearMonthlyWithdrawal)))
		case TargetSustainableRate:
			recommendations = append(recommendations, fmt.Sprintf(
				"Withdrawals up to %s%% per year preserve capital for %d years",
				r.OptimalValue.StringFixed(2), domain.DecumulationYears))
			if r.BaseValue.GreaterThan(r.OptimalValue) {
				recommendations = append(recommendations, fmt.Sprintf(
					"The current withdrawal rate of %s%% draws down capital", r.BaseValue.StringFixed(2)))
			}
		}
	}

	return recommendations
}

func periodNoun(p domain.Parameters) string {
	if p.ContributionPeriod == domain.PeriodWeekly {
		return "week"
	}
	return "month"
}
