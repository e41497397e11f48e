package output

import "github.com/rgehrsitz/dcaplan/internal/domain"

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs
// when a comparison carries none of its own.
var DefaultAssumptions = []string{
	"Contributions are deposited at the end of each period, after that period's growth",
	"Decumulation lasts 50 years; each year grows in full before the withdrawal",
	"Rates are nominal; taxes, fees and inflation are not modeled",
}

func assumptionsFor(results *domain.ScenarioComparison) []string {
	if len(results.Assumptions) > 0 {
		return results.Assumptions
	}
	return DefaultAssumptions
}
