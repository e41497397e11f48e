package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/config"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/tui/scenes"
	"github.com/rgehrsitz/dcaplan/internal/tui/tuimsg"
)

// DefaultPlanFile is where edited parameters are saved when no plan file was given
const DefaultPlanFile = "dcaplan_plan.yaml"

// CustomScenarioName labels projections of parameters edited in the form
const CustomScenarioName = "Custom"

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Plan file
	configPath string
	config     *domain.Configuration

	engine *calculation.ProjectionEngine

	// summary is the projection on screen, previous the one before it
	summary  *domain.ScenarioSummary
	previous *domain.ScenarioSummary

	scenariosModel  *scenes.ScenariosModel
	parametersModel *scenes.ParametersModel
	resultsModel    *scenes.ResultsModel

	err     error
	loading bool
	status  string
}

// NewModel creates a new application model. configPath may be empty, in
// which case the app starts on the parameters form.
func NewModel(configPath string, engine *calculation.ProjectionEngine) Model {
	if engine == nil {
		engine = calculation.NewProjectionEngine()
	}
	start := SceneParameters
	if configPath != "" {
		start = SceneScenarios
	}
	return Model{
		currentScene:    start,
		previousScene:   start,
		configPath:      configPath,
		engine:          engine,
		scenariosModel:  scenes.NewScenariosModel(),
		parametersModel: scenes.NewParametersModel(),
		resultsModel:    scenes.NewResultsModel(),
		width:           80,
		height:          24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	if m.configPath == "" {
		return nil
	}
	return loadConfigCmd(m.configPath)
}

// loadConfigCmd returns a command that loads the plan file
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		return tuimsg.ConfigLoadedMsg{Config: cfg}
	}
}

// scenarioCmd projects a scenario of the loaded plan, honoring its pinned seed
func scenarioCmd(engine *calculation.ProjectionEngine, cfg *domain.Configuration, name string) tea.Cmd {
	return func() tea.Msg {
		summary, err := engine.RunScenarioByName(context.Background(), cfg, name)
		return tuimsg.CalculationCompleteMsg{ScenarioName: name, Results: summary, Err: err}
	}
}

// calculateCmd projects a parameter set with the given seed
func calculateCmd(engine *calculation.ProjectionEngine, name string, params domain.Parameters, seed int64) tea.Cmd {
	return func() tea.Msg {
		summary, err := engine.RunParameters(context.Background(), name, params, seed)
		return tuimsg.CalculationCompleteMsg{ScenarioName: name, Results: summary, Err: err}
	}
}

// saveCmd writes params as the base of the plan, keeping its scenarios
func saveCmd(cfg *domain.Configuration, params domain.Parameters, path string) tea.Cmd {
	plan := &domain.Configuration{Base: params}
	if cfg != nil {
		plan.Scenarios = cfg.Scenarios
	}
	if path == "" {
		path = DefaultPlanFile
	}
	return func() tea.Msg {
		err := config.NewInputParser().SaveToFile(plan, path)
		return tuimsg.SaveCompleteMsg{Filename: path, Err: err}
	}
}
