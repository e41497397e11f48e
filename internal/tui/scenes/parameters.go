package scenes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/dcaplan/internal/config"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/tui/tuimsg"
	"github.com/rgehrsitz/dcaplan/internal/tui/tuistyles"
)

// Field keys, in display order
const (
	FieldPrincipal    = "principal"
	FieldRate         = "rate"
	FieldDeviation    = "deviation"
	FieldCompounds    = "compounds"
	FieldContribution = "contribution"
	FieldYears        = "years"
	FieldWithdrawal   = "withdrawal"
)

type paramField struct {
	key     string
	label   string
	unit    string
	max     float64 // 0 means unbounded
	input   textinput.Model
	warning string // input was coerced
	err     string // input is rejected
}

// ParametersModel is the plan editing form
type ParametersModel struct {
	fields   []*paramField
	period   domain.ContributionPeriod
	mode     domain.RateMode
	focused  int // fields first, then the period and mode toggles
	original domain.Parameters
	width    int
	height   int
	modified bool
}

const (
	toggleRows = 2
)

// NewParametersModel creates the form with default plan values
func NewParametersModel() *ParametersModel {
	m := &ParametersModel{
		fields: []*paramField{
			newParamField(FieldPrincipal, "Principal", "", config.MaxAmount),
			newParamField(FieldRate, "Annual Rate", "%", config.MaxAnnualRatePercent),
			newParamField(FieldDeviation, "Rate Deviation", "%", config.MaxDeviationPercent),
			newParamField(FieldCompounds, "Compounds per Year", "", config.MaxCompoundsPerYear),
			newParamField(FieldContribution, "Contribution", "", config.MaxAmount),
			newParamField(FieldYears, "Accumulation Years", "", config.MaxAccumulationYears),
			newParamField(FieldWithdrawal, "Withdrawal Rate", "%", config.MaxWithdrawalRatePercent),
		},
	}
	m.SetParameters(domain.Parameters{
		Rate:                  domain.RateSpec{Mode: domain.RateModeFixed, AnnualRatePercent: 6, DeviationPercent: 20},
		CompoundsPerYear:      12,
		ContributionAmount:    1000,
		AccumulationYears:     domain.DefaultAccumulationYears,
		WithdrawalRatePercent: 4,
	})
	return m
}

func newParamField(key, label, unit string, max float64) *paramField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 16
	ti.Width = 16
	return &paramField{key: key, label: label, unit: unit, max: max, input: ti}
}

// SetParameters loads p into the form and makes it the reset point
func (m *ParametersModel) SetParameters(p domain.Parameters) {
	p = p.Normalized()
	m.original = p
	m.period = p.ContributionPeriod
	m.mode = p.Rate.Mode

	values := map[string]string{
		FieldPrincipal:    formatNumber(p.Principal),
		FieldRate:         formatNumber(p.Rate.AnnualRatePercent),
		FieldDeviation:    formatNumber(p.Rate.DeviationPercent),
		FieldCompounds:    strconv.Itoa(p.CompoundsPerYear),
		FieldContribution: formatNumber(p.ContributionAmount),
		FieldYears:        formatNumber(p.AccumulationYears),
		FieldWithdrawal:   formatNumber(p.WithdrawalRatePercent),
	}
	for _, f := range m.fields {
		f.input.SetValue(values[f.key])
		f.validate()
	}

	m.modified = false
	m.focus(0)
}

// Parameters reads the form the way plan files are read: blank, negative
// and unparsable amounts become 0, and zero years or compounding fall back
// to their defaults.
func (m *ParametersModel) Parameters() domain.Parameters {
	return domain.Parameters{
		Principal: config.ParseNonNegative(m.value(FieldPrincipal)),
		Rate: domain.RateSpec{
			Mode:              m.mode,
			AnnualRatePercent: config.ParseNonNegative(m.value(FieldRate)),
			DeviationPercent:  config.ParseNonNegative(m.value(FieldDeviation)),
		},
		CompoundsPerYear:      config.ParseCompounds(m.value(FieldCompounds)),
		ContributionAmount:    config.ParseNonNegative(m.value(FieldContribution)),
		ContributionPeriod:    m.period,
		AccumulationYears:     config.ParseYears(m.value(FieldYears)),
		WithdrawalRatePercent: config.ParseNonNegative(m.value(FieldWithdrawal)),
	}.Normalized()
}

// Valid reports whether every field is within its bounds
func (m *ParametersModel) Valid() bool {
	for _, f := range m.fields {
		if f.err != "" {
			return false
		}
	}
	return true
}

// Modified reports whether the form differs from the last loaded parameters
func (m *ParametersModel) Modified() bool {
	return m.modified
}

// Focused returns the index of the focused row
func (m *ParametersModel) Focused() int {
	return m.focused
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *ParametersModel) value(key string) string {
	for _, f := range m.fields {
		if f.key == key {
			return f.input.Value()
		}
	}
	return ""
}

func (f *paramField) validate() {
	f.warning, f.err = "", ""
	v, err := config.ParseNonNegativeStrict(f.input.Value())
	if err != nil {
		f.warning = err.Error() + ", using 0"
		return
	}
	if f.max > 0 && v > f.max {
		f.err = fmt.Sprintf("must be at most %g", f.max)
	}
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "shift+tab"))):
		m.focus(m.focused - 1)
		return m, nil

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "tab"))):
		m.focus(m.focused + 1)
		return m, nil

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		if !m.Valid() {
			return m, nil
		}
		params := m.Parameters()
		return m, func() tea.Msg { return tuimsg.CalculateRequestMsg{Parameters: params} }

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("ctrl+r"))):
		m.SetParameters(m.original)
		return m, nil

	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("ctrl+s"))):
		if !m.Valid() {
			return m, nil
		}
		params := m.Parameters()
		return m, func() tea.Msg { return tuimsg.SavePlanMsg{Parameters: params} }
	}

	if m.focused >= len(m.fields) {
		if key.Matches(keyMsg, key.NewBinding(key.WithKeys(" ", "left", "right"))) {
			m.toggle()
		}
		return m, nil
	}

	f := m.fields[m.focused]
	before := f.input.Value()
	var cmd tea.Cmd
	f.input, cmd = f.input.Update(keyMsg)
	if f.input.Value() != before {
		f.validate()
		m.modified = true
	}
	return m, cmd
}

func (m *ParametersModel) toggle() {
	switch m.focused - len(m.fields) {
	case 0:
		if m.period == domain.PeriodWeekly {
			m.period = domain.PeriodMonthly
		} else {
			m.period = domain.PeriodWeekly
		}
	case 1:
		if m.mode == domain.RateModeRandomized {
			m.mode = domain.RateModeFixed
		} else {
			m.mode = domain.RateModeRandomized
		}
	}
	m.modified = true
}

func (m *ParametersModel) focus(i int) {
	rows := len(m.fields) + toggleRows
	m.focused = (i + rows) % rows
	for idx, f := range m.fields {
		if idx == m.focused {
			f.input.Focus()
		} else {
			f.input.Blur()
		}
	}
}

// View renders the form
func (m *ParametersModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary)
	cursorStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorAccent)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Plan Parameters"))
	if m.modified {
		b.WriteString(tuistyles.SubtitleStyle.Render("  (modified)"))
	}
	b.WriteString("\n\n")

	cursor := func(row int) string {
		if row == m.focused {
			return cursorStyle.Render("▸ ")
		}
		return "  "
	}

	for i, f := range m.fields {
		b.WriteString(cursor(i))
		b.WriteString(tuistyles.ParameterLabelStyle.Render(f.label))
		b.WriteString(f.input.View())
		if f.unit != "" {
			b.WriteString(tuistyles.SubtitleStyle.Render(" " + f.unit))
		}
		switch {
		case f.err != "":
			b.WriteString("  " + tuistyles.ErrorStyle.Render("✗ "+f.err))
		case f.warning != "":
			b.WriteString("  " + tuistyles.MetricNegativeStyle.Render("⚠ "+f.warning))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(cursor(len(m.fields)))
	b.WriteString(tuistyles.ParameterLabelStyle.Render("Contribution Period"))
	b.WriteString(renderChoice([]string{string(domain.PeriodMonthly), string(domain.PeriodWeekly)}, string(m.period)))
	b.WriteString("\n")
	b.WriteString(cursor(len(m.fields) + 1))
	b.WriteString(tuistyles.ParameterLabelStyle.Render("Rate Mode"))
	b.WriteString(renderChoice([]string{string(domain.RateModeFixed), string(domain.RateModeRandomized)}, string(m.mode)))
	b.WriteString("\n\n")

	help := "↑/↓ move • space toggle • enter calculate • ctrl+s save plan • ctrl+r reset • esc results"
	b.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(help))

	return tuistyles.BorderStyle.Render(b.String())
}

func renderChoice(options []string, selected string) string {
	parts := make([]string, len(options))
	for i, o := range options {
		if o == selected {
			parts[i] = tuistyles.SelectedItemStyle.Render("[" + o + "]")
		} else {
			parts[i] = tuistyles.HelpDescStyle.Render(" " + o + " ")
		}
	}
	return strings.Join(parts, " ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
