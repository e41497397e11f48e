package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"gopkg.in/yaml.v3"
)

// Upper bounds accepted in plan files.
const (
	MaxAmount                = domain.MaxAmount
	MaxAnnualRatePercent     = domain.MaxAnnualRatePercent
	MaxDeviationPercent      = domain.MaxDeviationPercent
	MaxWithdrawalRatePercent = domain.MaxWithdrawalRatePercent
	MaxCompoundsPerYear      = domain.MaxCompoundsPerYear
	MaxAccumulationYears     = domain.MaxAccumulationYears
)

// ValidationError reports a single invalid field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InputParser handles parsing of plan files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML (or JSON) file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.LoadFromBytes(data)
}

// LoadFromBytes parses, validates and normalizes a plan document.
func (ip *InputParser) LoadFromBytes(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	config.Base = config.Base.Normalized()
	return &config, nil
}

// SaveToFile writes a plan as YAML.
func (ip *InputParser) SaveToFile(config *domain.Configuration, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config == nil {
		return &ValidationError{Field: "plan", Reason: "is empty"}
	}
	if err := ValidateParameters("base", config.Base); err != nil {
		return err
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i, scenario := range config.Scenarios {
		name := strings.TrimSpace(scenario.Name)
		if name == "" {
			return &ValidationError{Field: fmt.Sprintf("scenarios[%d].name", i), Reason: "is required"}
		}
		key := strings.ToLower(name)
		if seen[key] {
			return &ValidationError{Field: fmt.Sprintf("scenarios[%d].name", i), Reason: fmt.Sprintf("duplicate scenario %q", name)}
		}
		seen[key] = true

		if err := ValidateParameters(fmt.Sprintf("scenarios[%d]", i), scenario.Overrides.Apply(config.Base)); err != nil {
			return fmt.Errorf("scenario %s: %w", name, err)
		}
	}

	return nil
}

// ValidateParameters rejects values outside the parameter domain. Normalized
// would clamp them silently, so callers validate first.
func ValidateParameters(prefix string, p domain.Parameters) error {
	field := func(name string) string { return prefix + "." + name }

	if !p.ContributionPeriod.Valid() {
		return &ValidationError{Field: field("contribution_period"), Reason: fmt.Sprintf("must be 'monthly' or 'weekly', got %q", p.ContributionPeriod)}
	}
	if !p.Rate.Mode.Valid() {
		return &ValidationError{Field: field("rate.mode"), Reason: fmt.Sprintf("must be 'fixed' or 'randomized', got %q", p.Rate.Mode)}
	}
	if p.Principal > MaxAmount {
		return &ValidationError{Field: field("principal"), Reason: fmt.Sprintf("must be at most %d", MaxAmount)}
	}
	if p.ContributionAmount > MaxAmount {
		return &ValidationError{Field: field("contribution_amount"), Reason: fmt.Sprintf("must be at most %d", MaxAmount)}
	}
	if p.Rate.AnnualRatePercent > MaxAnnualRatePercent {
		return &ValidationError{Field: field("rate.annual_rate_percent"), Reason: fmt.Sprintf("must be at most %d", MaxAnnualRatePercent)}
	}
	if p.Rate.DeviationPercent > MaxDeviationPercent {
		return &ValidationError{Field: field("rate.deviation_percent"), Reason: fmt.Sprintf("must be at most %d", MaxDeviationPercent)}
	}
	if p.WithdrawalRatePercent > MaxWithdrawalRatePercent {
		return &ValidationError{Field: field("withdrawal_rate_percent"), Reason: fmt.Sprintf("must be at most %d", MaxWithdrawalRatePercent)}
	}
	if p.CompoundsPerYear > MaxCompoundsPerYear {
		return &ValidationError{Field: field("compounds_per_year"), Reason: fmt.Sprintf("must be at most %d", MaxCompoundsPerYear)}
	}
	if p.AccumulationYears > MaxAccumulationYears {
		return &ValidationError{Field: field("accumulation_years"), Reason: fmt.Sprintf("must be at most %d", MaxAccumulationYears)}
	}
	return nil
}
