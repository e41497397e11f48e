package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// ParseNonNegative reads a form field. Blank, unparsable, negative and
// non-finite input all read as 0.
func ParseNonNegative(s string) float64 {
	v, err := ParseNonNegativeStrict(s)
	if err != nil {
		return 0
	}
	return v
}

// ParseNonNegativeStrict is ParseNonNegative that reports why input was rejected.
// Blank input is 0 without error.
func ParseNonNegativeStrict(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not finite", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return v, nil
}

// ParseCompounds reads a compounding frequency; anything below 1 becomes 1.
func ParseCompounds(s string) int {
	v := int(ParseNonNegative(s))
	if v <= 0 {
		return domain.DefaultCompoundsPerYear
	}
	return v
}

// ParseYears reads an accumulation length; 0 becomes the default of 10.
func ParseYears(s string) float64 {
	v := ParseNonNegative(s)
	if v <= 0 {
		return domain.DefaultAccumulationYears
	}
	return v
}

// ParsePeriod accepts monthly/weekly and their first letters.
func ParsePeriod(s string) (domain.ContributionPeriod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m", "month", "monthly":
		return domain.PeriodMonthly, nil
	case "w", "week", "weekly":
		return domain.PeriodWeekly, nil
	}
	return "", &ValidationError{Field: "contribution_period", Reason: fmt.Sprintf("unknown period %q", s)}
}

// ParseRateMode accepts fixed/randomized and the common aliases.
func ParseRateMode(s string) (domain.RateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fixed", "constant":
		return domain.RateModeFixed, nil
	case "random", "randomized", "randomised":
		return domain.RateModeRandomized, nil
	}
	return "", &ValidationError{Field: "rate.mode", Reason: fmt.Sprintf("unknown rate mode %q", s)}
}
