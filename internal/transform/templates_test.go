package transform

import (
	"strings"
	"testing"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateRegistry_RegisterAndGet(t *testing.T) {
	registry := NewTemplateRegistry()

	template := Template{
		Name:        "test_template",
		Description: "A test template",
	}
	registry.Register(template)

	retrieved, ok := registry.Get("test_template")
	if !ok {
		t.Fatal("Expected to find template")
	}
	if retrieved.Name != template.Name {
		t.Errorf("Expected name %s, got %s", template.Name, retrieved.Name)
	}

	if _, ok = registry.Get(" TEST_TEMPLATE "); !ok {
		t.Fatal("Expected case-insensitive lookup to work")
	}

	if _, ok = registry.Get("nonexistent"); ok {
		t.Error("Expected not to find nonexistent template")
	}
}

func TestCreateBuiltInTemplates(t *testing.T) {
	registry := CreateBuiltInTemplates()

	expected := []string{
		"contribution_x2",
		"daily_compounding",
		"extend_5yr",
		"randomized_20",
		"rate_minus_1",
		"rate_plus_1",
		"weekly",
		"withdraw_3pct",
		"withdraw_5pct",
	}
	assert.Equal(t, expected, registry.List())

	for _, name := range expected {
		template, _ := registry.Get(name)
		if len(template.Transforms) == 0 {
			t.Errorf("Template %s has no transforms", name)
		}
		if template.Description == "" {
			t.Errorf("Template %s has no description", name)
		}
	}
}

func TestApplyTemplate(t *testing.T) {
	registry := CreateBuiltInTemplates()
	base := createTestParameters()

	tests := []struct {
		name  string
		check func(p *domain.Parameters) bool
	}{
		{"weekly", func(p *domain.Parameters) bool { return p.PeriodsPerYear() == 52 }},
		{"contribution_x2", func(p *domain.Parameters) bool { return p.ContributionAmount == 2000 }},
		{"extend_5yr", func(p *domain.Parameters) bool { return p.AccumulationYears == 15 }},
		{"randomized_20", func(p *domain.Parameters) bool { return p.Rate.DeviationPercent == 20 && p.Rate.IsRandomized() }},
		{"rate_plus_1", func(p *domain.Parameters) bool { return p.Rate.AnnualRatePercent == 7 }},
		{"rate_minus_1", func(p *domain.Parameters) bool { return p.Rate.AnnualRatePercent == 5 }},
		{"withdraw_3pct", func(p *domain.Parameters) bool { return p.WithdrawalRatePercent == 3 }},
		{"withdraw_5pct", func(p *domain.Parameters) bool { return p.WithdrawalRatePercent == 5 }},
		{"daily_compounding", func(p *domain.Parameters) bool { return p.CompoundsPerYear == 365 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			template, ok := registry.Get(tt.name)
			require.True(t, ok)

			result, err := ApplyTemplate(base, template)
			require.NoError(t, err)
			assert.True(t, tt.check(result), "unexpected parameters %+v", *result)
		})
	}
}

func TestParseTemplateList(t *testing.T) {
	assert.Nil(t, ParseTemplateList(""))
	assert.Equal(t, []string{"weekly", "rate_plus_1"}, ParseTemplateList(" weekly, ,rate_plus_1 "))
}

func TestGetTemplateHelp(t *testing.T) {
	help := GetTemplateHelp(CreateBuiltInTemplates())

	assert.True(t, strings.HasPrefix(help, "Available Templates:"))
	for _, heading := range []string{"Contributions:", "Rate of Return:", "Withdrawals:", "Compounding:"} {
		assert.Contains(t, help, heading)
	}
	assert.Contains(t, help, "dcaplan compare")

	assert.Equal(t, "No templates registered", GetTemplateHelp(NewTemplateRegistry()))
}
