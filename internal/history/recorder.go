package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Run is one recorded projection.
type Run struct {
	ID                string            `json:"id"`
	RecordedAt        time.Time         `json:"recordedAt"`
	Scenario          string            `json:"scenario"`
	Parameters        domain.Parameters `json:"parameters"`
	Seed              int64             `json:"seed"`
	FutureValue       decimal.Decimal   `json:"futureValue"`
	TotalContribution decimal.Decimal   `json:"totalContribution"`
	TotalWithdrawn    decimal.Decimal   `json:"totalWithdrawn"`
	FinalBalance      decimal.Decimal   `json:"finalBalance"`
}

// NewRun builds a Run from a scenario summary with a fresh ID.
func NewRun(summary *domain.ScenarioSummary, at time.Time) Run {
	return Run{
		ID:                uuid.NewString(),
		RecordedAt:        at.UTC(),
		Scenario:          summary.Name,
		Parameters:        summary.Parameters,
		Seed:              summary.Seed,
		FutureValue:       summary.FutureValue,
		TotalContribution: summary.TotalContribution,
		TotalWithdrawn:    summary.TotalWithdrawn,
		FinalBalance:      summary.FinalBalance,
	}
}

func encodeParameters(p domain.Parameters) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode parameters: %w", err)
	}
	return string(data), nil
}

func decodeParameters(s string) (domain.Parameters, error) {
	var p domain.Parameters
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return p, fmt.Errorf("decode parameters: %w", err)
	}
	return p, nil
}

// Recorder persists projection runs.
type Recorder interface {
	RecordRun(summary *domain.ScenarioSummary) (Run, error)
	ListRuns(limit int) ([]Run, error)
	Close() error
}

// NoopRecorder is used when history is disabled.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(summary *domain.ScenarioSummary) (Run, error) {
	return NewRun(summary, time.Now()), nil
}
func (n *NoopRecorder) ListRuns(_ int) ([]Run, error) { return nil, nil }
func (n *NoopRecorder) Close() error                  { return nil }
