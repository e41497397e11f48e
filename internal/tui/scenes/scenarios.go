package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/tui/components"
	"github.com/rgehrsitz/dcaplan/internal/tui/tuimsg"
	"github.com/rgehrsitz/dcaplan/internal/tui/tuistyles"
)

// ScenariosModel represents the scenarios browsing scene
type ScenariosModel struct {
	base          domain.Parameters
	scenarios     []domain.Scenario
	selectedIndex int
	cards         []*components.ScenarioCard
	width         int
	height        int
}

// NewScenariosModel creates a new scenarios scene model
func NewScenariosModel() *ScenariosModel {
	return &ScenariosModel{}
}

// SetConfiguration loads the scenarios of a plan
func (m *ScenariosModel) SetConfiguration(cfg *domain.Configuration) {
	if cfg == nil {
		m.base = domain.Parameters{}
		m.scenarios = nil
		m.cards = nil
		m.selectedIndex = 0
		return
	}

	m.base = cfg.Base
	m.scenarios = cfg.EffectiveScenarios()
	m.cards = make([]*components.ScenarioCard, 0, len(m.scenarios))
	for _, sc := range m.scenarios {
		m.cards = append(m.cards, components.NewScenarioCard(sc, cfg.Base).WithWidth(50))
	}

	if m.selectedIndex >= len(m.scenarios) {
		m.selectedIndex = 0
	}
}

// SetSize updates the scene dimensions
func (m *ScenariosModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SelectedScenario returns the currently selected scenario name
func (m *ScenariosModel) SelectedScenario() string {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.scenarios) {
		return m.scenarios[m.selectedIndex].Name
	}
	return ""
}

// Update handles messages for the scenarios scene
func (m *ScenariosModel) Update(msg tea.Msg) (*ScenariosModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.selectedIndex > 0 {
			m.selectedIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.selectedIndex < len(m.scenarios)-1 {
			m.selectedIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("g"))):
		m.selectedIndex = 0
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("G"))):
		m.selectedIndex = max(len(m.scenarios)-1, 0)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		name := m.SelectedScenario()
		if name == "" {
			return m, nil
		}
		return m, func() tea.Msg { return tuimsg.ScenarioSelectedMsg{ScenarioName: name} }
	}

	return m, nil
}

// View renders the scenarios scene
func (m *ScenariosModel) View() string {
	if len(m.scenarios) == 0 {
		return `No plan loaded.

Start dcaplan-tui with a plan file to browse its scenarios,
or press p to edit parameters directly.`
	}

	for i, card := range m.cards {
		card.SetSelected(i == m.selectedIndex)
	}

	listStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorBorder).
		Padding(1, 2).
		Width(40)
	title := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render("Scenarios")
	left := listStyle.Render(title + "\n\n" + components.ScenarioListCompact(m.cards, m.selectedIndex))

	content := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", m.renderDetails())
	return content + "\n\n" + lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).
		Render("↑/k up • ↓/j down • enter calculate • g top • G bottom • esc back")
}

func (m *ScenariosModel) renderDetails() string {
	sc := m.scenarios[m.selectedIndex]
	p := sc.Overrides.Apply(m.base).Normalized()

	labelStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(22)
	valueStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorForeground)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(sc.Name))
	b.WriteString("\n")
	if sc.Description != "" {
		b.WriteString(tuistyles.SubtitleStyle.Render(sc.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}
	row("Principal", tuistyles.FormatCurrency(p.Principal))
	row("Annual Rate", fmt.Sprintf("%.2f%%", p.Rate.AnnualRatePercent))
	if p.Rate.IsRandomized() {
		row("Rate Deviation", fmt.Sprintf("±%.0f%% of base", p.Rate.DeviationPercent))
	}
	row("Compounds per Year", fmt.Sprintf("%d", p.CompoundsPerYear))
	row("Contribution", fmt.Sprintf("%s %s", tuistyles.FormatCurrency(p.ContributionAmount), p.ContributionPeriod))
	row("Accumulation Years", fmt.Sprintf("%g", p.AccumulationYears))
	row("Withdrawal Rate", fmt.Sprintf("%.2f%%", p.WithdrawalRatePercent))

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Italic(true).Render("Press Enter to calculate this scenario"))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(tuistyles.ColorPrimary).
		Padding(1, 2).
		Width(60).
		Render(b.String())
}
