package calculation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultMonteCarloDeviation is applied to fixed-rate plans so that a Monte
// Carlo run has something to vary.
const DefaultMonteCarloDeviation = 20.0

// MonteCarloConfig holds configuration for Monte Carlo simulations
type MonteCarloConfig struct {
	NumSimulations   int
	Seed             int64   // run i uses Seed+i
	DeviationPercent float64 // used when the plan itself is not randomized
	Concurrency      int
}

// MonteCarloResult represents the aggregate of many randomized projections.
type MonteCarloResult struct {
	Parameters      domain.Parameters `json:"parameters"`
	NumSimulations  int               `json:"num_simulations"`
	Seed            int64             `json:"seed"`
	FutureValue     PercentileRanges  `json:"future_value"`
	TotalWithdrawn  PercentileRanges  `json:"total_withdrawn"`
	FinalBalance    PercentileRanges  `json:"final_balance"`
	MeanFutureValue decimal.Decimal   `json:"mean_future_value"`
	// CapitalPreservedRate is the percentage of runs whose final balance is
	// at least their future value.
	CapitalPreservedRate decimal.Decimal `json:"capital_preserved_rate"`
	// DepletionRate is the percentage of runs whose balance reaches zero during decumulation.
	DepletionRate decimal.Decimal `json:"depletion_rate"`
	// Notes lists assumptions the run made that the plan did not state.
	Notes       []string            `json:"notes,omitempty"`
	Simulations []SimulationOutcome `json:"simulations,omitempty"`
}

// SimulationOutcome represents a single Monte Carlo run
type SimulationOutcome struct {
	Seed           int64   `json:"seed"`
	FutureValue    float64 `json:"future_value"`
	TotalWithdrawn float64 `json:"total_withdrawn"`
	FinalBalance   float64 `json:"final_balance"`
	DepletionYear  int     `json:"depletion_year"`
}

// PercentileRanges represents percentile ranges for Monte Carlo results
type PercentileRanges struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}

// MonteCarloSimulator runs a plan many times with independent rate series.
type MonteCarloSimulator struct {
	Engine *ProjectionEngine
	Config MonteCarloConfig
}

// NewMonteCarloSimulator creates a new Monte Carlo simulator
func NewMonteCarloSimulator(engine *ProjectionEngine, config MonteCarloConfig) *MonteCarloSimulator {
	if engine == nil {
		engine = NewProjectionEngine()
	}
	if config.Seed == 0 {
		config.Seed = seedFunc()
	}
	if config.NumSimulations <= 0 {
		config.NumSimulations = 1000
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 10
	}
	if config.DeviationPercent <= 0 {
		config.DeviationPercent = DefaultMonteCarloDeviation
	}
	return &MonteCarloSimulator{Engine: engine, Config: config}
}

// Run executes the simulation for params.
func (mcs *MonteCarloSimulator) Run(ctx context.Context, params domain.Parameters) (*MonteCarloResult, error) {
	p := params.Normalized()
	var notes []string
	if !p.Rate.IsRandomized() {
		deviation := math.Min(mcs.Config.DeviationPercent, domain.MaxDeviationPercent)
		notes = append(notes, fixedRateNote(p.Rate, deviation))
		mcs.Engine.logger().Infof("monte carlo: plan rate has no deviation, simulating with ±%g%%", deviation)

		p.Rate.Mode = domain.RateModeRandomized
		p.Rate.DeviationPercent = deviation
	}

	n := mcs.Config.NumSimulations
	results := make([]SimulationOutcome, n)
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, mcs.Config.Concurrency) // Limit concurrent simulations

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(simIndex int) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire semaphore
			defer func() { <-semaphore }() // Release semaphore

			if ctx.Err() != nil {
				return
			}
			seed := mcs.Config.Seed + int64(simIndex)
			r := mcs.Engine.Project(p, rand.New(rand.NewSource(seed)))
			results[simIndex] = SimulationOutcome{
				Seed:           seed,
				FutureValue:    r.FutureValue,
				TotalWithdrawn: r.TotalWithdrawn,
				FinalBalance:   r.FinalBalance,
				DepletionYear:  r.DepletionYear(),
			}
		}(i)
	}

	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("monte carlo cancelled: %w", err)
	}

	fv := make([]float64, n)
	withdrawn := make([]float64, n)
	final := make([]float64, n)
	var sum float64
	preserved, depleted := 0, 0
	for i, o := range results {
		fv[i] = o.FutureValue
		withdrawn[i] = o.TotalWithdrawn
		final[i] = o.FinalBalance
		sum += o.FutureValue
		if o.FinalBalance >= o.FutureValue {
			preserved++
		}
		if o.DepletionYear > 0 {
			depleted++
		}
	}

	mcs.Engine.logger().Infof("monte carlo: %d runs, seed %d", n, mcs.Config.Seed)

	return &MonteCarloResult{
		Parameters:           p,
		NumSimulations:       n,
		Seed:                 mcs.Config.Seed,
		FutureValue:          calculatePercentileRanges(fv),
		TotalWithdrawn:       calculatePercentileRanges(withdrawn),
		FinalBalance:         calculatePercentileRanges(final),
		MeanFutureValue:      domain.Money(sum / float64(n)),
		CapitalPreservedRate: ratePercent(preserved, n),
		DepletionRate:        ratePercent(depleted, n),
		Notes:                notes,
		Simulations:          results,
	}, nil
}

func fixedRateNote(rate domain.RateSpec, deviation float64) string {
	source := fmt.Sprintf("a fixed %g%% rate", rate.AnnualRatePercent)
	if rate.Mode == domain.RateModeRandomized {
		source = fmt.Sprintf("a randomized %g%% rate with zero deviation", rate.AnnualRatePercent)
	}
	return fmt.Sprintf("plan uses %s; simulated with ±%g%% deviation of the base rate", source, deviation)
}

func calculatePercentileRanges(values []float64) PercentileRanges {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return PercentileRanges{
		P10: domain.Money(Percentile(sorted, 0.10)),
		P25: domain.Money(Percentile(sorted, 0.25)),
		P50: domain.Money(Percentile(sorted, 0.50)),
		P75: domain.Money(Percentile(sorted, 0.75)),
		P90: domain.Money(Percentile(sorted, 0.90)),
	}
}

// Percentile returns the q-quantile (0..1) of sorted values using linear
// interpolation between closest ranks.
func Percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func ratePercent(count, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(count)).Div(decimal.NewFromInt(int64(total))).Mul(decimal.NewFromInt(100)).Round(2)
}
