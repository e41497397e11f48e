package tuimsg

import (
	"github.com/rgehrsitz/dcaplan/internal/domain"
)

// ScenarioSelectedMsg signals a scenario has been picked from the plan
type ScenarioSelectedMsg struct {
	ScenarioName string
}

// ConfigLoadedMsg signals a plan file has been loaded
type ConfigLoadedMsg struct {
	Config *domain.Configuration
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// CalculateRequestMsg asks for a projection of the edited parameters
type CalculateRequestMsg struct {
	Parameters domain.Parameters
}

// RerollMsg asks for the current parameters to be projected again with a new seed
type RerollMsg struct{}

// CalculationCompleteMsg signals a projection has finished
type CalculationCompleteMsg struct {
	ScenarioName string
	Results      *domain.ScenarioSummary
	Err          error
}

// SavePlanMsg asks for the edited parameters to be written as the plan's base
type SavePlanMsg struct {
	Parameters domain.Parameters
}

// SaveCompleteMsg signals a save operation has finished
type SaveCompleteMsg struct {
	Filename string
	Err      error
}
