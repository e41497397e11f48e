package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// TemplateRegistry manages built-in plan variations
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Category    string
	Transforms  []ParameterTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

const (
	categoryRate         = "Rate of Return"
	categoryContribution = "Contributions"
	categoryWithdrawal   = "Withdrawals"
	categoryCompounding  = "Compounding"
)

// CreateBuiltInTemplates creates a template registry with the common plan variations
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	registry.Register(Template{
		Name:        "weekly",
		Description: "Contribute weekly instead of monthly (same amount per period)",
		Category:    categoryContribution,
		Transforms:  []ParameterTransform{&SetPeriod{Period: domain.PeriodWeekly}},
	})
	registry.Register(Template{
		Name:        "contribution_x2",
		Description: "Double the contribution per period",
		Category:    categoryContribution,
		Transforms:  []ParameterTransform{&ScaleContribution{Factor: 2}},
	})
	registry.Register(Template{
		Name:        "extend_5yr",
		Description: "Keep contributing 5 years longer",
		Category:    categoryContribution,
		Transforms:  []ParameterTransform{&ExtendYears{Years: 5}},
	})

	registry.Register(Template{
		Name:        "randomized_20",
		Description: "Randomize yearly rates within ±20% of the base rate",
		Category:    categoryRate,
		Transforms:  []ParameterTransform{&Randomize{DeviationPercent: 20}},
	})
	registry.Register(Template{
		Name:        "rate_plus_1",
		Description: "Annual rate one point higher",
		Category:    categoryRate,
		Transforms:  []ParameterTransform{&AdjustRate{DeltaPercent: 1}},
	})
	registry.Register(Template{
		Name:        "rate_minus_1",
		Description: "Annual rate one point lower",
		Category:    categoryRate,
		Transforms:  []ParameterTransform{&AdjustRate{DeltaPercent: -1}},
	})

	registry.Register(Template{
		Name:        "withdraw_3pct",
		Description: "Withdraw 3% of the balance each year",
		Category:    categoryWithdrawal,
		Transforms:  []ParameterTransform{&SetWithdrawalRate{RatePercent: 3}},
	})
	registry.Register(Template{
		Name:        "withdraw_5pct",
		Description: "Withdraw 5% of the balance each year",
		Category:    categoryWithdrawal,
		Transforms:  []ParameterTransform{&SetWithdrawalRate{RatePercent: 5}},
	})

	registry.Register(Template{
		Name:        "daily_compounding",
		Description: "Compound 365 times per year",
		Category:    categoryCompounding,
		Transforms:  []ParameterTransform{&SetCompounding{PerYear: 365}},
	})

	return registry
}

// ApplyTemplate applies a template to base parameters
func ApplyTemplate(base *domain.Parameters, template Template) (*domain.Parameters, error) {
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	categories := map[string][]Template{}
	for _, name := range registry.List() {
		t := registry.templates[name]
		categories[t.Category] = append(categories[t.Category], t)
	}

	for _, category := range []string{categoryContribution, categoryRate, categoryWithdrawal, categoryCompounding, ""} {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		heading := category
		if heading == "" {
			heading = "Other"
		}
		sb.WriteString(fmt.Sprintf("%s:\n", heading))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-20s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  dcaplan compare plan.yaml --with weekly,rate_plus_1\n")
	sb.WriteString("  dcaplan compare plan.yaml --with withdraw_3pct,withdraw_5pct\n")

	return sb.String()
}
