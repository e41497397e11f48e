package breakeven

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/transform"
	"github.com/shopspring/decimal"
)

// DefaultMaxYears bounds the years search when no max_value is given.
const DefaultMaxYears = 100

// Solver searches one plan parameter for a goal by re-running the projection.
type Solver struct {
	Engine  *calculation.ProjectionEngine
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(engine *calculation.ProjectionEngine, options SolverOptions) *Solver {
	if engine == nil {
		engine = calculation.NewProjectionEngine()
	}
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.ProjectionEngine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// Solve routes the request to the search for its target
func (s *Solver) Solve(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	if err := req.Constraints.Validate(req.Target); err != nil {
		return nil, err
	}

	if req.MaxIterations <= 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if !req.Tolerance.IsPositive() {
		req.Tolerance = s.Options.Tolerance
	}
	if !req.Tolerance.IsPositive() {
		req.Tolerance = DefaultSolverOptions().Tolerance
	}
	if req.ScenarioName == "" {
		req.ScenarioName = domain.BaseScenarioName
	}
	req.Base = req.Base.Normalized()

	switch req.Target {
	case TargetContribution:
		return s.solveContribution(ctx, req)
	case TargetYears:
		return s.solveYears(ctx, req)
	case TargetWithdrawalRate:
		return s.solveWithdrawalRate(ctx, req)
	case TargetSustainableRate:
		return s.solveSustainableRate(ctx, req)
	default:
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported target: %s", req.Target),
		}
	}
}

// project runs params with the request's seed. It skips RunParameters so
// that a search does not log one line per evaluation.
func (s *Solver) project(ctx context.Context, req SolveRequest, params domain.Parameters) (*domain.ScenarioSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p := params.Normalized()
	result := s.Engine.Project(p, rand.New(rand.NewSource(req.Seed)))
	summary := domain.NewScenarioSummary(req.ScenarioName, p, req.Seed, result)
	return &summary, nil
}

// with applies a single transform to the request's base parameters
func (s *Solver) with(op string, req SolveRequest, t transform.ParameterTransform) (domain.Parameters, error) {
	p, err := transform.ApplyTransforms(&req.Base, []transform.ParameterTransform{t})
	if err != nil {
		return domain.Parameters{}, &BreakEvenError{Operation: op, Message: "failed to apply transform", Cause: err}
	}
	return *p, nil
}

func bounds(c Constraints, lo, hi float64) (float64, float64, bool) {
	fixedHi := false
	if c.MinValue != nil {
		lo = c.MinValue.InexactFloat64()
	}
	if c.MaxValue != nil {
		hi = c.MaxValue.InexactFloat64()
		fixedHi = true
	}
	return lo, hi, fixedHi
}

// solveContribution finds the smallest contribution per period whose future
// value reaches the target. Future value grows with the contribution, so a
// bisection over [lo, hi] converges; without a max_value, hi is doubled until
// it reaches the target.
func (s *Solver) solveContribution(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	const op = "solve_contribution"
	target := req.Constraints.TargetFutureValue.InexactFloat64()
	tol := req.Tolerance.InexactFloat64()
	iterations := 0

	eval := func(amount float64) (*domain.ScenarioSummary, error) {
		iterations++
		p, err := s.with(op, req, &transform.SetContribution{Amount: amount})
		if err != nil {
			return nil, err
		}
		return s.project(ctx, req, p)
	}
	reaches := func(sum *domain.ScenarioSummary) bool { return sum.Result.FutureValue >= target }

	lo, hi, fixedHi := bounds(req.Constraints, 0, math.Max(req.Base.ContributionAmount, 1))
	if !fixedHi && hi <= lo {
		hi = math.Max(lo*2, 1)
	}

	low, err := eval(lo)
	if err != nil {
		return nil, err
	}
	if reaches(low) {
		return s.finish(ctx, req, lo, iterations, "target reached at the lower bound")
	}

	for {
		high, err := eval(hi)
		if err != nil {
			return nil, err
		}
		if reaches(high) {
			break
		}
		if fixedHi || hi >= domain.MaxAmount || iterations >= req.MaxIterations {
			return nil, &BreakEvenError{
				Operation: op,
				Message:   fmt.Sprintf("target future value is out of reach with contributions up to %.2f", hi),
			}
		}
		lo, hi = hi, math.Min(hi*2, domain.MaxAmount)
	}

	for hi-lo > tol && iterations < req.MaxIterations {
		mid := (lo + hi) / 2
		sum, err := eval(mid)
		if err != nil {
			return nil, err
		}
		if reaches(sum) {
			hi = mid
		} else {
			lo = mid
		}
	}

	// round up to whole cents so the reported amount still reaches the target
	amount := math.Ceil(hi*100) / 100
	return s.finish(ctx, req, amount, iterations, s.convergence(hi-lo, tol, iterations, req.MaxIterations))
}

// solveYears walks whole years upwards until the future value reaches the target.
func (s *Solver) solveYears(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	const op = "solve_years"
	target := req.Constraints.TargetFutureValue.InexactFloat64()

	lo, hi, _ := bounds(req.Constraints, 1, DefaultMaxYears)
	first := int(math.Max(1, math.Ceil(lo)))
	last := int(math.Floor(hi))

	iterations := 0
	for years := first; years <= last && iterations < req.MaxIterations; years++ {
		iterations++
		p, err := s.with(op, req, &transform.SetYears{Years: float64(years)})
		if err != nil {
			return nil, err
		}
		sum, err := s.project(ctx, req, p)
		if err != nil {
			return nil, err
		}
		if sum.Result.FutureValue >= target {
			return s.finish(ctx, req, float64(years), iterations, fmt.Sprintf("Evaluated %d accumulation lengths", iterations))
		}
	}

	return nil, &BreakEvenError{
		Operation: op,
		Message:   fmt.Sprintf("target future value not reached within %d years", last),
	}
}

// solveWithdrawalRate finds the lowest withdrawal rate whose first-year
// monthly withdrawal reaches the target.
func (s *Solver) solveWithdrawalRate(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	const op = "solve_withdrawal_rate"
	target := req.Constraints.TargetMonthlyWithdrawal.InexactFloat64()
	tol := req.Tolerance.InexactFloat64()
	iterations := 0

	eval := func(rate float64) (*domain.ScenarioSummary, error) {
		iterations++
		p, err := s.with(op, req, &transform.SetWithdrawalRate{RatePercent: rate})
		if err != nil {
			return nil, err
		}
		return s.project(ctx, req, p)
	}

	lo, hi, _ := bounds(req.Constraints, 0, 100)
	high, err := eval(hi)
	if err != nil {
		return nil, err
	}
	if high.Result.FirstYearMonthlyWithdrawal() < target {
		return nil, &BreakEvenError{
			Operation: op,
			Message:   fmt.Sprintf("target monthly withdrawal is out of reach at a %.2f%% withdrawal rate", hi),
		}
	}

	for hi-lo > tol && iterations < req.MaxIterations {
		mid := (lo + hi) / 2
		sum, err := eval(mid)
		if err != nil {
			return nil, err
		}
		if sum.Result.FirstYearMonthlyWithdrawal() >= target {
			hi = mid
		} else {
			lo = mid
		}
	}

	return s.finish(ctx, req, hi, iterations, s.convergence(hi-lo, tol, iterations, req.MaxIterations))
}

// solveSustainableRate finds the highest withdrawal rate whose final balance
// is still at least the future value the withdrawal phase started with.
func (s *Solver) solveSustainableRate(ctx context.Context, req SolveRequest) (*SolveResult, error) {
	const op = "solve_sustainable_rate"
	tol := req.Tolerance.InexactFloat64()
	iterations := 0

	preserved := func(rate float64) (bool, error) {
		iterations++
		p, err := s.with(op, req, &transform.SetWithdrawalRate{RatePercent: rate})
		if err != nil {
			return false, err
		}
		sum, err := s.project(ctx, req, p)
		if err != nil {
			return false, err
		}
		return sum.Result.CapitalPreserved(), nil
	}

	lo, hi, _ := bounds(req.Constraints, 0, 100)

	ok, err := preserved(lo)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &BreakEvenError{
			Operation: op,
			Message:   fmt.Sprintf("capital is not preserved even at a %.2f%% withdrawal rate", lo),
		}
	}
	if ok, err = preserved(hi); err != nil {
		return nil, err
	} else if ok {
		return s.finish(ctx, req, hi, iterations, "capital preserved at the upper bound")
	}

	for hi-lo > tol && iterations < req.MaxIterations {
		mid := (lo + hi) / 2
		ok, err := preserved(mid)
		if err != nil {
			return nil, err
		}
		if ok {
			lo = mid
		} else {
			hi = mid
		}
	}

	return s.finish(ctx, req, lo, iterations, s.convergence(hi-lo, tol, iterations, req.MaxIterations))
}

func (s *Solver) convergence(width, tol float64, iterations, maxIterations int) string {
	if width > tol && iterations >= maxIterations {
		return fmt.Sprintf("Max iterations (%d) reached", maxIterations)
	}
	return fmt.Sprintf("Bisection converged in %d iterations", iterations)
}

// finish projects the plan at the solved value and fills in the comparison to the base plan
func (s *Solver) finish(ctx context.Context, req SolveRequest, value float64, iterations int, info string) (*SolveResult, error) {
	var t transform.ParameterTransform
	switch req.Target {
	case TargetContribution:
		t = &transform.SetContribution{Amount: value}
	case TargetYears:
		t = &transform.SetYears{Years: value}
	default:
		t = &transform.SetWithdrawalRate{RatePercent: value}
	}
	params, err := s.with("finish", req, t)
	if err != nil {
		return nil, err
	}

	summary, err := s.project(ctx, req, params)
	if err != nil {
		return nil, err
	}
	base, err := s.project(ctx, req, req.Base)
	if err != nil {
		return nil, err
	}

	baseValue, _ := calculation.ParameterValue(req.Base, baseParameterName(req.Target))

	places := int32(4)
	if req.Target == TargetContribution {
		places = 2
	}

	return &SolveResult{
		Request:                       req,
		Success:                       true,
		Iterations:                    iterations,
		ConvergenceInfo:               info,
		OptimalValue:                  decimal.NewFromFloat(value).Round(places),
		Unit:                          req.Target.Unit(),
		Parameters:                    summary.Parameters,
		ScenarioSummary:               summary,
		FutureValue:                   summary.FutureValue,
		FirstYearMonthlyWithdrawal:    summary.FirstYearMonthlyWithdrawal,
		FinalBalance:                  summary.FinalBalance,
		BaseScenarioSummary:           base,
		BaseValue:                     baseValue,
		FutureValueDiffFromBase:       summary.FutureValue.Sub(base.FutureValue),
		MonthlyWithdrawalDiffFromBase: summary.FirstYearMonthlyWithdrawal.Sub(base.FirstYearMonthlyWithdrawal),
	}, nil
}

func baseParameterName(t SolveTarget) string {
	switch t {
	case TargetContribution:
		return "contribution"
	case TargetYears:
		return "years"
	default:
		return "withdrawal_rate"
	}
}
