package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rgehrsitz/dcaplan/internal/calculation"
	"github.com/rs/zerolog"
)

// Options selects the output shape of New.
type Options struct {
	Debug bool
	JSON  bool // structured output instead of the console writer
	Out   io.Writer
}

// New builds a zerolog logger. Console output goes to stderr by default so
// it never mixes with reports written to stdout.
func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// EngineLogger adapts a zerolog logger to calculation.Logger.
type EngineLogger struct {
	logger zerolog.Logger
}

var _ calculation.Logger = (*EngineLogger)(nil)

// NewEngineLogger tags every entry with component=engine.
func NewEngineLogger(logger zerolog.Logger) *EngineLogger {
	return &EngineLogger{logger: logger.With().Str("component", "engine").Logger()}
}

func (l *EngineLogger) Debugf(format string, args ...any) {
	l.logger.Debug().Msg(fmt.Sprintf(format, args...))
}

func (l *EngineLogger) Infof(format string, args ...any) {
	l.logger.Info().Msg(fmt.Sprintf(format, args...))
}

func (l *EngineLogger) Warnf(format string, args ...any) {
	l.logger.Warn().Msg(fmt.Sprintf(format, args...))
}

func (l *EngineLogger) Errorf(format string, args ...any) {
	l.logger.Error().Msg(fmt.Sprintf(format, args...))
}
