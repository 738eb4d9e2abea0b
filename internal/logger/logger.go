// Package logger provides structured logging for lawpipe
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with lawpipe-specific functionality
type Logger struct {
	zlog zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string // debug, info, warn, error
	Pretty     bool   // human-readable console output
	Output     io.Writer
	WithCaller bool
}

// ParseLevel maps a configured level name to a zerolog level. Unknown
// names mean info.
func ParseLevel(s string) zerolog.Level {
	switch s {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	}
	return zerolog.InfoLevel
}

// New creates a new structured logger
func New(cfg Config) *Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.RFC3339,
		}
	}

	zlog := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("service", "lawpipe").
		Logger()

	if cfg.WithCaller {
		zlog = zlog.With().Caller().Logger()
	}

	return &Logger{zlog: zlog}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Component returns a zerolog logger tagged with a component name, for
// handing to the pipeline stages
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zlog.With().Str("component", name).Logger()
}

// LogDocument logs one canonicalized document
func (l *Logger) LogDocument(id, strategy string, articles int, miss bool, duration time.Duration) {
	l.zlog.Info().
		Str("event", "document").
		Str("document", id).
		Str("strategy", strategy).
		Int("articles", articles).
		Bool("miss", miss).
		Dur("duration_ms", duration).
		Msg("Document canonicalized")
}

// LogBatch logs the outcome of a batch run
func (l *Logger) LogBatch(total, failed int, duration time.Duration, err error) {
	event := l.zlog.Info()
	if err != nil {
		event = l.zlog.Error().Err(err)
	}
	event.
		Str("event", "batch").
		Int("documents", total).
		Int("failed", failed).
		Dur("duration_ms", duration).
		Msg("Batch completed")
}
