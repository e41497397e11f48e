package domain

import (
	"fmt"
	"strings"
)

// BaseScenarioName names the implicit scenario of a plan without scenarios.
const BaseScenarioName = "Base"

// Configuration is a plan file: shared base parameters plus named variations.
type Configuration struct {
	Base      Parameters `yaml:"base" json:"base"`
	Scenarios []Scenario `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
}

// Scenario is a named variation of the base parameters.
type Scenario struct {
	Name        string             `yaml:"name" json:"name"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Overrides   ParameterOverrides `yaml:"overrides,omitempty" json:"overrides,omitempty"`
	// Seed pins the random source of randomized scenarios.
	Seed *int64 `yaml:"seed,omitempty" json:"seed,omitempty"`
}

// ParameterOverrides replaces individual base parameters. Nil fields inherit.
type ParameterOverrides struct {
	Principal             *float64            `yaml:"principal,omitempty" json:"principal,omitempty"`
	RateMode              *RateMode           `yaml:"rate_mode,omitempty" json:"rateMode,omitempty"`
	AnnualRatePercent     *float64            `yaml:"annual_rate_percent,omitempty" json:"annualRatePercent,omitempty"`
	DeviationPercent      *float64            `yaml:"deviation_percent,omitempty" json:"deviationPercent,omitempty"`
	CompoundsPerYear      *int                `yaml:"compounds_per_year,omitempty" json:"compoundsPerYear,omitempty"`
	ContributionAmount    *float64            `yaml:"contribution_amount,omitempty" json:"contributionAmount,omitempty"`
	ContributionPeriod    *ContributionPeriod `yaml:"contribution_period,omitempty" json:"contributionPeriod,omitempty"`
	AccumulationYears     *float64            `yaml:"accumulation_years,omitempty" json:"accumulationYears,omitempty"`
	WithdrawalRatePercent *float64            `yaml:"withdrawal_rate_percent,omitempty" json:"withdrawalRatePercent,omitempty"`
}

// Apply returns base with every non-nil override substituted.
func (o ParameterOverrides) Apply(base Parameters) Parameters {
	p := base
	if o.Principal != nil {
		p.Principal = *o.Principal
	}
	if o.RateMode != nil {
		p.Rate.Mode = *o.RateMode
	}
	if o.AnnualRatePercent != nil {
		p.Rate.AnnualRatePercent = *o.AnnualRatePercent
	}
	if o.DeviationPercent != nil {
		p.Rate.DeviationPercent = *o.DeviationPercent
	}
	if o.CompoundsPerYear != nil {
		p.CompoundsPerYear = *o.CompoundsPerYear
	}
	if o.ContributionAmount != nil {
		p.ContributionAmount = *o.ContributionAmount
	}
	if o.ContributionPeriod != nil {
		p.ContributionPeriod = *o.ContributionPeriod
	}
	if o.AccumulationYears != nil {
		p.AccumulationYears = *o.AccumulationYears
	}
	if o.WithdrawalRatePercent != nil {
		p.WithdrawalRatePercent = *o.WithdrawalRatePercent
	}
	return p
}

// EffectiveScenarios returns the configured scenarios, or a single implicit
// base scenario when none are configured.
func (c *Configuration) EffectiveScenarios() []Scenario {
	if len(c.Scenarios) == 0 {
		return []Scenario{{Name: BaseScenarioName}}
	}
	return c.Scenarios
}

// FindScenario looks a scenario up by name, case-insensitively.
func (c *Configuration) FindScenario(name string) (*Scenario, error) {
	scenarios := c.EffectiveScenarios()
	for i := range scenarios {
		if strings.EqualFold(scenarios[i].Name, name) {
			return &scenarios[i], nil
		}
	}
	return nil, fmt.Errorf("scenario %q not found", name)
}

// ResolveScenario returns the normalized parameters of the named scenario.
func (c *Configuration) ResolveScenario(name string) (Parameters, error) {
	sc, err := c.FindScenario(name)
	if err != nil {
		return Parameters{}, err
	}
	return sc.Overrides.Apply(c.Base).Normalized(), nil
}

// ScenarioNames lists the effective scenario names in file order.
func (c *Configuration) ScenarioNames() []string {
	scenarios := c.EffectiveScenarios()
	names := make([]string, 0, len(scenarios))
	for _, sc := range scenarios {
		names = append(names, sc.Name)
	}
	return names
}
