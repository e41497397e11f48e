package transform

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestParameters() *domain.Parameters {
	return &domain.Parameters{
		Principal:             10000,
		Rate:                  domain.RateSpec{Mode: domain.RateModeFixed, AnnualRatePercent: 6},
		CompoundsPerYear:      12,
		ContributionAmount:    1000,
		ContributionPeriod:    domain.PeriodMonthly,
		AccumulationYears:     10,
		WithdrawalRatePercent: 4,
	}
}

func TestApplyTransforms_NilBase(t *testing.T) {
	_, err := ApplyTransforms(nil, []ParameterTransform{&AdjustRate{DeltaPercent: 1}})
	if err == nil {
		t.Error("Expected error for nil base, got nil")
	}
}

func TestApplyTransforms_EmptyTransformsCopies(t *testing.T) {
	base := createTestParameters()

	result, err := ApplyTransforms(base, nil)
	if err != nil {
		t.Fatalf("Expected no error for empty transforms, got: %v", err)
	}
	if result == base {
		t.Error("Expected a copy, got the base pointer")
	}
	assert.Equal(t, *base, *result)
}

func TestApplyTransforms_Chains(t *testing.T) {
	base := createTestParameters()

	result, err := ApplyTransforms(base, []ParameterTransform{
		&AdjustRate{DeltaPercent: 1.5},
		&ScaleContribution{Factor: 2},
		&SetPeriod{Period: domain.PeriodWeekly},
		&ExtendYears{Years: 5},
		&Randomize{DeviationPercent: 20},
	})
	require.NoError(t, err)

	assert.Equal(t, 7.5, result.Rate.AnnualRatePercent)
	assert.Equal(t, 2000.0, result.ContributionAmount)
	assert.Equal(t, domain.PeriodWeekly, result.ContributionPeriod)
	assert.Equal(t, 15.0, result.AccumulationYears)
	assert.True(t, result.Rate.IsRandomized())

	// base is untouched
	assert.Equal(t, 6.0, base.Rate.AnnualRatePercent)
	assert.Equal(t, 1000.0, base.ContributionAmount)
	assert.Equal(t, domain.PeriodMonthly, base.ContributionPeriod)
}

func TestApplyTransforms_NilTransform(t *testing.T) {
	_, err := ApplyTransforms(createTestParameters(), []ParameterTransform{nil})
	assert.Error(t, err)
}

func TestApplyTransforms_ValidationError(t *testing.T) {
	_, err := ApplyTransforms(createTestParameters(), []ParameterTransform{&SetCompounding{PerYear: 0}})
	require.Error(t, err)

	var te *TransformError
	require.True(t, errors.As(err, &te), "expected a TransformError, got %T", err)
	assert.Equal(t, "set_compounding", te.TransformName)
	assert.Equal(t, "validate", te.Operation)
}

func TestAdjustRate_FloorsAtZero(t *testing.T) {
	result, err := ApplyTransforms(createTestParameters(), []ParameterTransform{&AdjustRate{DeltaPercent: -10}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Rate.AnnualRatePercent)
}

func TestRandomize_ZeroMeansFixed(t *testing.T) {
	base := createTestParameters()
	base.Rate = domain.RateSpec{Mode: domain.RateModeRandomized, AnnualRatePercent: 6, DeviationPercent: 30}

	result, err := ApplyTransforms(base, []ParameterTransform{&Randomize{}})
	require.NoError(t, err)
	assert.Equal(t, domain.RateModeFixed, result.Rate.Mode)
	assert.Equal(t, 0.0, result.Rate.DeviationPercent)
	assert.Equal(t, "Use a fixed annual rate", (&Randomize{}).Description())
}

func TestValidateRejects(t *testing.T) {
	base := createTestParameters()
	tests := []struct {
		name      string
		transform ParameterTransform
	}{
		{"negative rate", &SetRate{RatePercent: -1}},
		{"deviation over 100", &Randomize{DeviationPercent: 150}},
		{"negative contribution", &SetContribution{Amount: -5}},
		{"negative factor", &ScaleContribution{Factor: -1}},
		{"unknown period", &SetPeriod{Period: "daily"}},
		{"zero years", &SetYears{Years: 0}},
		{"shorten past zero", &ExtendYears{Years: -10}},
		{"withdrawal over 100", &SetWithdrawalRate{RatePercent: 101}},
		{"compounding over 365", &SetCompounding{PerYear: 366}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.transform.Validate(base); err == nil {
				t.Errorf("%s: expected validation error", tt.transform.Name())
			}
			if err := tt.transform.Validate(nil); err == nil {
				t.Errorf("%s: expected error for nil base", tt.transform.Name())
			}
		})
	}
}

func TestTransformError(t *testing.T) {
	inner := errors.New("boom")
	err := NewTransformError("set_rate", "apply", "failed", inner)

	assert.Equal(t, "transform set_rate (apply): failed: boom", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "transform set_rate (validate): bad", NewTransformError("set_rate", "validate", "bad", nil).Error())
}
