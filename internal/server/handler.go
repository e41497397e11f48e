package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/config"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/rgehrsitz/dcaplan/internal/history"
	"github.com/rgehrsitz/dcaplan/internal/output"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// MaxSimulations caps the Monte Carlo runs a single request may ask for.
	MaxSimulations = 10000
	maxBodyBytes   = 1 << 20
)

// ProjectionRequest is the body of POST /api/v1/projections.
type ProjectionRequest struct {
	Name       string            `json:"name,omitempty"`
	Parameters domain.Parameters `json:"parameters"`
	Seed       *int64            `json:"seed,omitempty"`
}

// MonteCarloRequest is the body of POST /api/v1/montecarlo.
type MonteCarloRequest struct {
	Parameters       domain.Parameters `json:"parameters"`
	Seed             *int64            `json:"seed,omitempty"`
	Simulations      int               `json:"simulations,omitempty"`
	DeviationPercent float64           `json:"deviationPercent,omitempty"`
}

// SensitivityRequest is the body of POST /api/v1/sensitivity.
type SensitivityRequest struct {
	Parameters domain.Parameters `json:"parameters"`
	Seed       *int64            `json:"seed,omitempty"`
	Parameter  string            `json:"parameter"`
	MinValue   *float64          `json:"minValue,omitempty"`
	MaxValue   *float64          `json:"maxValue,omitempty"`
	Steps      int               `json:"steps,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	engine           *calculation.ProjectionEngine
	recorder         history.Recorder
	simulations      int
	deviationPercent float64
}

func NewHandler(deps Dependencies) *Handler {
	engine := deps.Engine
	if engine == nil {
		engine = calculation.NewProjectionEngine()
	}
	return &Handler{
		engine:           engine,
		recorder:         deps.Recorder,
		simulations:      deps.Simulations,
		deviationPercent: deps.DeviationPercent,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Project runs one projection and renders it in any registered report format.
func (h *Handler) Project(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req ProjectionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := config.ValidateParameters("parameters", req.Parameters); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	if output.GetFormatterByName(format) == nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("%w: %s", output.ErrUnsupportedFormat, format))
		return
	}

	name := req.Name
	if name == "" {
		name = domain.BaseScenarioName
	}
	summary, err := h.engine.RunParameters(ctx, name, req.Parameters, seedOrNext(req.Seed))
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	if h.recorder != nil {
		if run, err := h.recorder.RecordRun(summary); err != nil {
			logger.Warn().Err(err).Msg("failed to record run")
		} else {
			w.Header().Set("X-Run-ID", run.ID)
		}
	}

	cfg := &domain.Configuration{Base: summary.Parameters}
	comparison := &domain.ScenarioComparison{
		Scenarios:   []domain.ScenarioSummary{*summary},
		Assumptions: calculation.ScenarioAssumptions(cfg),
	}

	data, err := output.Render(comparison, format)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	writeBody(w, r, output.ContentTypeFor(format), data)
}

// MonteCarlo runs a batch of randomized projections.
func (h *Handler) MonteCarlo(w http.ResponseWriter, r *http.Request) {
	var req MonteCarloRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := config.ValidateParameters("parameters", req.Parameters); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if req.Simulations > MaxSimulations {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("simulations: must be at most %d", MaxSimulations))
		return
	}
	if req.DeviationPercent > config.MaxDeviationPercent {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("deviationPercent: must be at most %d", config.MaxDeviationPercent))
		return
	}

	sims := req.Simulations
	if sims <= 0 {
		sims = h.simulations
	}
	deviation := req.DeviationPercent
	if deviation <= 0 {
		deviation = h.deviationPercent
	}

	sim := calculation.NewMonteCarloSimulator(h.engine, calculation.MonteCarloConfig{
		NumSimulations:   sims,
		Seed:             seedOrNext(req.Seed),
		DeviationPercent: deviation,
	})
	result, err := sim.Run(r.Context(), req.Parameters)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		if r.URL.Query().Get("detail") != "true" {
			result.Simulations = nil
		}
		writeJSON(w, r, http.StatusOK, result)
	case "csv":
		data, err := output.FormatMonteCarloCSV(result)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		writeBody(w, r, output.ContentTypeFor("csv"), data)
	case "console":
		writeBody(w, r, output.ContentTypeFor("console"), []byte(output.FormatMonteCarloConsole(result)))
	default:
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("%w: %s", output.ErrUnsupportedFormat, format))
	}
}

// Sensitivity sweeps one parameter of the posted plan.
func (h *Handler) Sensitivity(w http.ResponseWriter, r *http.Request) {
	var req SensitivityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := config.ValidateParameters("parameters", req.Parameters); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}

	param, ok := domain.LookupSensitivityParameter(req.Parameter)
	if !ok {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("parameter: unknown sensitivity parameter %q", req.Parameter))
		return
	}
	if req.MinValue != nil {
		param.MinValue = decimal.NewFromFloat(*req.MinValue)
	}
	if req.MaxValue != nil {
		param.MaxValue = decimal.NewFromFloat(*req.MaxValue)
	}
	if req.Steps > 0 {
		param.Steps = req.Steps
	}
	if param.MinValue.GreaterThan(param.MaxValue) {
		writeError(w, r, http.StatusBadRequest, errors.New("minValue cannot be greater than maxValue"))
		return
	}

	cfg := &domain.Configuration{Base: req.Parameters}
	analyzer := calculation.NewSensitivityAnalyzer(h.engine)
	analysis, err := analyzer.AnalyzeSingleParameter(r.Context(), cfg, param, domain.BaseScenarioName, seedOrNext(req.Seed))
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		writeJSON(w, r, http.StatusOK, analysis)
	case "csv":
		data, err := output.FormatSensitivityCSV(analysis)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		writeBody(w, r, output.ContentTypeFor("csv"), data)
	case "console":
		text, err := output.FormatSensitivityConsole(analysis)
		if err != nil {
			writeError(w, r, http.StatusInternalServerError, err)
			return
		}
		writeBody(w, r, output.ContentTypeFor("console"), []byte(text))
	default:
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("%w: %s", output.ErrUnsupportedFormat, format))
	}
}

// ListRuns returns recorded projections, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.recorder == nil {
		writeError(w, r, http.StatusNotFound, errors.New("run history is disabled"))
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, r, http.StatusBadRequest, fmt.Errorf("limit: %q is not a non-negative integer", s))
			return
		}
		limit = n
	}

	runs, err := h.recorder.ListRuns(limit)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	writeJSON(w, r, http.StatusOK, runs)
}

func seedOrNext(seed *int64) int64 {
	if seed != nil {
		return *seed
	}
	return calculation.NextSeed()
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

func writeBody(w http.ResponseWriter, r *http.Request, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Debug().Err(err).Msg("bad request")
	}
	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}
