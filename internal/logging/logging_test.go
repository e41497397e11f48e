package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rgehrsitz/dcaplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_LevelFollowsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{JSON: true, Out: &buf})

	logger.Debug().Msg("hidden")
	logger.Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	debugLogger := New(Options{JSON: true, Debug: true, Out: &buf})
	debugLogger.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestEngineLogger(t *testing.T) {
	var buf bytes.Buffer
	engine := calculation.NewProjectionEngine()
	engine.SetLogger(NewEngineLogger(New(Options{JSON: true, Debug: true, Out: &buf})))
	engine.Debug = true

	engine.Project(domain.Parameters{Principal: 100, AccumulationYears: 1}, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "engine", entry["component"])
	assert.Contains(t, entry["message"], "accumulation")
}

func TestEngineLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := NewEngineLogger(New(Options{JSON: true, Out: &buf}))

	l.Warnf("balance %d", 1)
	l.Errorf("oops")

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"message":"balance 1"`)
	assert.Contains(t, out, `"level":"error"`)
}
