package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderApp(BorderStyle.Render("⠋ Calculating projection..."))
	}

	if m.err != nil {
		return m.renderApp(ErrorStyle.Render(fmt.Sprintf("Error: %s\n\nPress any key to continue...", m.err)))
	}

	var content string
	switch m.currentScene {
	case SceneScenarios:
		content = m.scenariosModel.View()
	case SceneParameters:
		content = m.parametersModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneHelp:
		content = renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := max(m.height-5, 1)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("DCA Plan - Savings & Withdrawal Projection")

	breadcrumb := m.currentScene.String()
	if m.summary != nil && m.currentScene == SceneResults {
		breadcrumb = fmt.Sprintf("%s / %s", breadcrumb, m.summary.Name)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(breadcrumb))
}

func (m Model) renderStatusBar() string {
	var shortcuts []string
	if m.currentScene == SceneParameters {
		shortcuts = []string{
			formatShortcut("enter", "calculate"),
			formatShortcut("ctrl+s", "save"),
			formatShortcut("esc", "back"),
			formatShortcut("ctrl+c", "quit"),
		}
	} else {
		shortcuts = []string{
			formatShortcut("s", "scenarios"),
			formatShortcut("p", "parameters"),
			formatShortcut("r", "results"),
			formatShortcut("?", "help"),
			formatShortcut("q", "quit"),
		}
	}

	statusText := strings.Join(shortcuts, " • ")
	if m.status != "" {
		note := SubtitleStyle.Render(m.status)
		spacer := strings.Repeat(" ", max(0, m.width-lipgloss.Width(statusText)-lipgloss.Width(note)-2))
		statusText += spacer + note
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func renderHelp() string {
	helpText := `DCA Plan - Savings & Withdrawal Projection

A plan grows a principal plus regular contributions for the accumulation
years, then withdraws a share of the balance every year for 50 years.

KEYBOARD SHORTCUTS:
  s        Scenarios of the loaded plan
  p        Edit parameters
  r        Last results
  ?        Show this help
  esc      Go back
  q/ctrl+c Quit

PARAMETERS:
  ↑/↓      Move between fields
  space    Toggle period or rate mode
  enter    Calculate
  ctrl+s   Save as the plan's base parameters
  ctrl+r   Reset the form

RESULTS:
  tab      Switch between accumulation and withdrawal schedules
  n        Re-run a randomized plan with new rates
`
	return BorderStyle.Render(helpText)
}
