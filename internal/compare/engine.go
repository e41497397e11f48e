package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/transform"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.ProjectionEngine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.ProjectionEngine) *CompareEngine {
	if calcEngine == nil {
		calcEngine = calculation.NewProjectionEngine()
	}
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	BaseScenarioName string   // Name of the base scenario to compare against
	Templates        []string // Template names, or transform specs of the form name:key=value
}

// Compare runs the base scenario and one variation per template. Every
// variation reuses the base scenario's seed, so randomized plans differ only
// by the template's change.
func (ce *CompareEngine) Compare(
	ctx context.Context,
	config *domain.Configuration,
	options CompareOptions,
) (*ComparisonSet, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	baseName := options.BaseScenarioName
	if baseName == "" {
		baseName = config.EffectiveScenarios()[0].Name
	}
	baseScenario, err := config.FindScenario(baseName)
	if err != nil {
		return nil, fmt.Errorf("base scenario %s not found in configuration", baseName)
	}

	baseSummary, err := ce.CalcEngine.RunScenario(ctx, config, baseScenario)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}

	baseResult := ce.MetricsCalculator.CalculateMetrics(baseSummary)
	baseParams := baseSummary.Parameters

	alternatives := []ComparisonResult{}
	for _, name := range options.Templates {
		template, err := ce.resolveTemplate(name)
		if err != nil {
			return nil, err
		}

		modified, err := transform.ApplyTemplate(&baseParams, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", name, err)
		}

		altSummary, err := ce.CalcEngine.RunParameters(ctx, baseScenario.Name+"_"+template.Name, *modified, baseSummary.Seed)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", name, err)
		}
		altSummary.Description = template.Description

		altResult := ce.MetricsCalculator.CalculateMetrics(altSummary)
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)
		alternatives = append(alternatives, altResult)
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseScenario.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		Assumptions:        calculation.ScenarioAssumptions(config),
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// resolveTemplate looks a name up in the template registry and falls back to
// a single-transform template parsed from a transform spec.
func (ce *CompareEngine) resolveTemplate(name string) (transform.Template, error) {
	if t, ok := ce.TemplateRegistry.Get(name); ok {
		return t, nil
	}
	tr, err := ce.TransformRegistry.ParseTransformSpec(name)
	if err != nil {
		return transform.Template{}, fmt.Errorf("template %s not found: %w", name, err)
	}
	return transform.Template{Name: tr.Name(), Description: tr.Description(), Transforms: []transform.ParameterTransform{tr}}, nil
}

// CompareScenarios compares explicit scenarios of a plan (not using templates)
func (ce *CompareEngine) CompareScenarios(
	ctx context.Context,
	config *domain.Configuration,
	baseScenarioName string,
	alternativeScenarioNames []string,
) (*ComparisonSet, error) {
	if config == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	baseSummary, err := ce.CalcEngine.RunScenarioByName(ctx, config, baseScenarioName)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base scenario: %w", err)
	}
	baseResult := ce.MetricsCalculator.CalculateMetrics(baseSummary)

	if len(alternativeScenarioNames) == 0 {
		for _, name := range config.ScenarioNames() {
			if name != baseSummary.Name {
				alternativeScenarioNames = append(alternativeScenarioNames, name)
			}
		}
	}

	alternatives := []ComparisonResult{}
	for _, altName := range alternativeScenarioNames {
		altSummary, err := ce.CalcEngine.RunScenarioByName(ctx, config, altName)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", altName, err)
		}

		altResult := ce.MetricsCalculator.CalculateMetrics(altSummary)
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)
		alternatives = append(alternatives, altResult)
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseSummary.Name,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		Assumptions:        calculation.ScenarioAssumptions(config),
	}
	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}
