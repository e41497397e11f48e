package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/tui/tuimsg"
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scenariosModel.SetSize(msg.Width, msg.Height)
		m.parametersModel.SetSize(msg.Width, msg.Height)
		m.resultsModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case NavigateMsg:
		if msg.Scene != m.currentScene {
			m.previousScene = m.currentScene
			m.currentScene = msg.Scene
		}
		return m, nil

	case tuimsg.ErrorMsg:
		m.loading = false
		m.err = msg.Err
		return m, nil

	case tuimsg.ConfigLoadedMsg:
		m.config = msg.Config
		m.scenariosModel.SetConfiguration(msg.Config)
		if msg.Config != nil {
			m.parametersModel.SetParameters(msg.Config.Base)
			m.status = fmt.Sprintf("Loaded %d scenario(s) from %s", len(msg.Config.EffectiveScenarios()), m.configPath)
		}
		return m, navigate(SceneScenarios)

	case tuimsg.ScenarioSelectedMsg:
		if m.config == nil {
			return m, nil
		}
		m.loading = true
		return m, scenarioCmd(m.engine, m.config, msg.ScenarioName)

	case tuimsg.CalculateRequestMsg:
		m.loading = true
		return m, calculateCmd(m.engine, CustomScenarioName, msg.Parameters, calculation.NextSeed())

	case tuimsg.RerollMsg:
		if m.summary == nil {
			return m, nil
		}
		m.loading = true
		return m, calculateCmd(m.engine, m.summary.Name, m.summary.Parameters, calculation.NextSeed())

	case tuimsg.CalculationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.previous = m.summary
		m.summary = msg.Results
		m.resultsModel.SetResults(msg.ScenarioName, m.summary, m.previous)
		m.parametersModel.SetParameters(m.summary.Parameters)
		m.status = ""
		return m, navigate(SceneResults)

	case tuimsg.SavePlanMsg:
		return m, saveCmd(m.config, msg.Parameters, m.configPath)

	case tuimsg.SaveCompleteMsg:
		if msg.Err != nil {
			m.err = msg.Err
			return m, nil
		}
		m.status = "Saved plan to " + msg.Filename
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input. While the parameters form is
// shown every key except ctrl+c and esc goes to the form.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.err != nil {
		m.err = nil
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		return m, m.back()
	}

	if m.currentScene == SceneParameters {
		return m.updateCurrentScene(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		return m, navigate(SceneHelp)
	case "s":
		return m, navigate(SceneScenarios)
	case "p":
		return m, navigate(SceneParameters)
	case "r":
		if m.summary != nil {
			return m, navigate(SceneResults)
		}
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// back returns to the previous scene, or to the form when there is nowhere to go
func (m Model) back() tea.Cmd {
	target := m.previousScene
	if target == m.currentScene || (target == SceneResults && m.summary == nil) {
		target = SceneParameters
	}
	if target == m.currentScene {
		return nil
	}
	return navigate(target)
}

func navigate(scene Scene) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Scene: scene} }
}

// updateCurrentScene delegates updates to the current scene's model
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentScene {
	case SceneScenarios:
		m.scenariosModel, cmd = m.scenariosModel.Update(msg)
	case SceneParameters:
		m.parametersModel, cmd = m.parametersModel.Update(msg)
	case SceneResults:
		m.resultsModel, cmd = m.resultsModel.Update(msg)
	}
	return m, cmd
}
