package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/tui/tuistyles"
)

// ScenarioCard summarizes one plan scenario for the scenario list
type ScenarioCard struct {
	Name        string
	Description string
	Highlights  []string
	IsSelected  bool
	Width       int
}

// NewScenarioCard builds a card from the scenario's effective parameters
func NewScenarioCard(sc domain.Scenario, base domain.Parameters) *ScenarioCard {
	p := sc.Overrides.Apply(base).Normalized()

	rate := fmt.Sprintf("%.2f%% a year", p.Rate.AnnualRatePercent)
	if p.Rate.IsRandomized() {
		rate = fmt.Sprintf("%.2f%% ±%.0f%% a year", p.Rate.AnnualRatePercent, p.Rate.DeviationPercent)
	}

	card := &ScenarioCard{
		Name:        sc.Name,
		Description: sc.Description,
		Width:       50,
		Highlights: []string{
			rate,
			fmt.Sprintf("%s %s for %g years", tuistyles.FormatCurrency(p.ContributionAmount), p.ContributionPeriod, p.AccumulationYears),
		},
	}
	if p.WithdrawalEnabled() {
		card.Highlights = append(card.Highlights, fmt.Sprintf("withdraw %.2f%% a year", p.WithdrawalRatePercent))
	} else {
		card.Highlights = append(card.Highlights, "no withdrawals")
	}
	if sc.Seed != nil {
		card.Highlights = append(card.Highlights, fmt.Sprintf("seed %d", *sc.Seed))
	}
	return card
}

// SetSelected marks the card as selected
func (s *ScenarioCard) SetSelected(selected bool) *ScenarioCard {
	s.IsSelected = selected
	return s
}

// WithWidth sets the card width
func (s *ScenarioCard) WithWidth(width int) *ScenarioCard {
	s.Width = width
	return s
}

// Render returns the bordered card
func (s *ScenarioCard) Render() string {
	var content strings.Builder

	content.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(s.Name))
	content.WriteString("\n")

	if s.Description != "" {
		content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Italic(true).Render(s.Description))
		content.WriteString("\n")
	}

	if len(s.Highlights) > 0 {
		content.WriteString("\n")
		highlightStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)
		for _, h := range s.Highlights {
			content.WriteString(highlightStyle.Render("• " + h))
			content.WriteString("\n")
		}
	}

	border := tuistyles.ColorBorder
	if s.IsSelected {
		border = tuistyles.ColorPrimary
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(s.Width).
		Render(strings.TrimRight(content.String(), "\n"))
}

// RenderCompact returns the name and first highlight on one line
func (s *ScenarioCard) RenderCompact() string {
	line := s.Name
	if len(s.Highlights) > 0 {
		line += " " + lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render("• "+s.Highlights[0])
	}
	return line
}

// ScenarioListCompact renders the selectable scenario list
func ScenarioListCompact(cards []*ScenarioCard, selectedIndex int) string {
	if len(cards) == 0 {
		return tuistyles.InfoStyle.Render("No scenarios available")
	}

	rendered := make([]string, len(cards))
	for i, card := range cards {
		prefix := "  "
		style := tuistyles.UnselectedItemStyle

		if i == selectedIndex {
			prefix = "▸ "
			style = tuistyles.SelectedItemStyle
		}

		rendered[i] = style.Render(prefix + card.RenderCompact())
	}

	return strings.Join(rendered, "\n")
}
