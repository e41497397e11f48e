package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rgehrsitz/dcaplan/internal/config"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ParameterTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("set_rate", createSetRate)
	registry.Register("adjust_rate", createAdjustRate)
	registry.Register("randomize", createRandomize)
	registry.Register("set_contribution", createSetContribution)
	registry.Register("scale_contribution", createScaleContribution)
	registry.Register("set_period", createSetPeriod)
	registry.Register("set_years", createSetYears)
	registry.Register("extend_years", createExtendYears)
	registry.Register("set_withdrawal_rate", createSetWithdrawalRate)
	registry.Register("set_compounding", createSetCompounding)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ParameterTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the sorted names of all registered transforms.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "adjust_rate:delta=1.5"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ParameterTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func floatParam(transform string, params map[string]string, key string) (float64, error) {
	s, ok := params[key]
	if !ok {
		return 0, fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func createSetRate(params map[string]string) (ParameterTransform, error) {
	rate, err := floatParam("set_rate", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetRate{RatePercent: rate}, nil
}

func createAdjustRate(params map[string]string) (ParameterTransform, error) {
	delta, err := floatParam("adjust_rate", params, "delta")
	if err != nil {
		return nil, err
	}
	return &AdjustRate{DeltaPercent: delta}, nil
}

func createRandomize(params map[string]string) (ParameterTransform, error) {
	deviation, err := floatParam("randomize", params, "deviation")
	if err != nil {
		return nil, err
	}
	return &Randomize{DeviationPercent: deviation}, nil
}

func createSetContribution(params map[string]string) (ParameterTransform, error) {
	amount, err := floatParam("set_contribution", params, "amount")
	if err != nil {
		return nil, err
	}
	return &SetContribution{Amount: amount}, nil
}

func createScaleContribution(params map[string]string) (ParameterTransform, error) {
	factor, err := floatParam("scale_contribution", params, "factor")
	if err != nil {
		return nil, err
	}
	return &ScaleContribution{Factor: factor}, nil
}

func createSetPeriod(params map[string]string) (ParameterTransform, error) {
	s, ok := params["period"]
	if !ok {
		return nil, fmt.Errorf("set_period requires 'period' parameter")
	}
	period, err := config.ParsePeriod(s)
	if err != nil {
		return nil, err
	}
	return &SetPeriod{Period: period}, nil
}

func createSetYears(params map[string]string) (ParameterTransform, error) {
	years, err := floatParam("set_years", params, "years")
	if err != nil {
		return nil, err
	}
	return &SetYears{Years: years}, nil
}

func createExtendYears(params map[string]string) (ParameterTransform, error) {
	years, err := floatParam("extend_years", params, "years")
	if err != nil {
		return nil, err
	}
	return &ExtendYears{Years: years}, nil
}

func createSetWithdrawalRate(params map[string]string) (ParameterTransform, error) {
	rate, err := floatParam("set_withdrawal_rate", params, "rate")
	if err != nil {
		return nil, err
	}
	return &SetWithdrawalRate{RatePercent: rate}, nil
}

func createSetCompounding(params map[string]string) (ParameterTransform, error) {
	s, ok := params["per_year"]
	if !ok {
		return nil, fmt.Errorf("set_compounding requires 'per_year' parameter")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid per_year value: %w", err)
	}
	return &SetCompounding{PerYear: n}, nil
}
