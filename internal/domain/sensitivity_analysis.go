package domain

import (
	"github.com/shopspring/decimal"
)

// SensitivityParameter describes a parameter sweep.
type SensitivityParameter struct {
	Name        string          `yaml:"name" json:"name"`
	MinValue    decimal.Decimal `yaml:"min_value" json:"minValue"`
	MaxValue    decimal.Decimal `yaml:"max_value" json:"maxValue"`
	Steps       int             `yaml:"steps" json:"steps"`
	BaseValue   decimal.Decimal `yaml:"base_value" json:"baseValue"`
	Unit        string          `yaml:"unit" json:"unit"` // "percent", "amount", "years", "count"
	Description string          `yaml:"description" json:"description"`
}

// ParameterSensitivityAnalysis is the outcome of one parameter sweep.
type ParameterSensitivityAnalysis struct {
	BaseScenarioName string               `json:"baseScenarioName"`
	Parameter        SensitivityParameter `json:"parameter"`
	Results          []SensitivityResult  `json:"results"`
	Summary          SensitivitySummary   `json:"summary"`
}

// SensitivityResult holds the metrics at one sweep point.
type SensitivityResult struct {
	ParameterValue decimal.Decimal    `json:"parameterValue"`
	ScenarioName   string             `json:"scenarioName"`
	KeyMetrics     SensitivityMetrics `json:"keyMetrics"`
}

// SensitivityMetrics are the projection outputs tracked across a sweep.
type SensitivityMetrics struct {
	FutureValue                decimal.Decimal `json:"futureValue"`
	TotalContribution          decimal.Decimal `json:"totalContribution"`
	InterestEarned             decimal.Decimal `json:"interestEarned"`
	TotalWithdrawn             decimal.Decimal `json:"totalWithdrawn"`
	FirstYearMonthlyWithdrawal decimal.Decimal `json:"firstYearMonthlyWithdrawal"`
	FinalBalance               decimal.Decimal `json:"finalBalance"`
	FutureValueChangePct       decimal.Decimal `json:"futureValueChangePct"`
}

// SensitivitySummary condenses a sweep into an elasticity and a risk level.
type SensitivitySummary struct {
	// Elasticity is the largest |%Δ future value| / |%Δ parameter| seen in the sweep.
	Elasticity      decimal.Decimal `json:"elasticity"`
	RiskLevel       string          `json:"riskLevel"` // "LOW", "MEDIUM", "HIGH", "CRITICAL"
	Recommendations []string        `json:"recommendations"`
}

// Common sensitivity parameters
var (
	AnnualRateParam = SensitivityParameter{
		Name:        "rate",
		MinValue:    decimal.NewFromInt(2),
		MaxValue:    decimal.NewFromInt(10),
		Steps:       5,
		BaseValue:   decimal.NewFromInt(6),
		Unit:        "percent",
		Description: "Annual rate of return",
	}

	ContributionParam = SensitivityParameter{
		Name:        "contribution",
		MinValue:    decimal.NewFromInt(500),
		MaxValue:    decimal.NewFromInt(2500),
		Steps:       5,
		BaseValue:   decimal.NewFromInt(1000),
		Unit:        "amount",
		Description: "Contribution per period",
	}

	YearsParam = SensitivityParameter{
		Name:        "years",
		MinValue:    decimal.NewFromInt(5),
		MaxValue:    decimal.NewFromInt(35),
		Steps:       7,
		BaseValue:   decimal.NewFromInt(20),
		Unit:        "years",
		Description: "Length of the accumulation phase",
	}

	WithdrawalRateParam = SensitivityParameter{
		Name:        "withdrawal_rate",
		MinValue:    decimal.NewFromInt(2),
		MaxValue:    decimal.NewFromInt(8),
		Steps:       7,
		BaseValue:   decimal.NewFromInt(4),
		Unit:        "percent",
		Description: "Share of the balance withdrawn each decumulation year",
	}

	CompoundingParam = SensitivityParameter{
		Name:        "compounding",
		MinValue:    decimal.NewFromInt(1),
		MaxValue:    decimal.NewFromInt(365),
		Steps:       2,
		BaseValue:   decimal.NewFromInt(12),
		Unit:        "count",
		Description: "Compounding events per year",
	}
)

// GetCommonParameters returns the built-in sweep definitions.
func GetCommonParameters() []SensitivityParameter {
	return []SensitivityParameter{
		AnnualRateParam,
		ContributionParam,
		YearsParam,
		WithdrawalRateParam,
		CompoundingParam,
	}
}

// LookupSensitivityParameter returns the built-in sweep with the given name.
func LookupSensitivityParameter(name string) (SensitivityParameter, bool) {
	for _, p := range GetCommonParameters() {
		if p.Name == name {
			return p, true
		}
	}
	return SensitivityParameter{}, false
}

// DetermineRiskLevel buckets the elasticity.
func (ss *SensitivitySummary) DetermineRiskLevel() string {
	switch {
	case ss.Elasticity.LessThan(decimal.NewFromFloat(0.5)):
		return "LOW"
	case ss.Elasticity.LessThan(decimal.NewFromFloat(1.5)):
		return "MEDIUM"
	case ss.Elasticity.LessThan(decimal.NewFromFloat(3.0)):
		return "HIGH"
	default:
		return "CRITICAL"
	}
}

// GenerateRecommendations returns advice matching the risk level.
func (ss *SensitivitySummary) GenerateRecommendations(parameter string) []string {
	recommendations := []string{}

	switch ss.DetermineRiskLevel() {
	case "LOW":
		recommendations = append(recommendations, "Plan is robust to changes in "+parameter)
	case "MEDIUM":
		recommendations = append(recommendations, "Monitor "+parameter+" regularly")
	case "HIGH":
		recommendations = append(recommendations, "Future value is sensitive to "+parameter)
		recommendations = append(recommendations, "Stress test the plan with conservative values")
	case "CRITICAL":
		recommendations = append(recommendations, "Future value is highly sensitive to "+parameter)
		recommendations = append(recommendations, "Use conservative assumptions for "+parameter)
	}

	switch parameter {
	case "rate":
		recommendations = append(recommendations, "Try a randomized rate to see the spread of outcomes")
	case "withdrawal_rate":
		recommendations = append(recommendations, "Use break-even sustainable_rate to find a rate that preserves capital")
	}

	return recommendations
}
