// Package logging builds the zerolog loggers used across docpatch.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLevel keeps normal runs quiet apart from user-facing output.
const DefaultLevel = "warn"

// Config holds logger configuration
type Config struct {
	Level      string // trace, debug, info, warn, error, disabled
	Pretty     bool   // human-readable console output
	Output     io.Writer
	WithCaller bool
}

// New creates a logger writing to cfg.Output (stderr by default). An unknown
// level falls back to DefaultLevel.
func New(cfg Config) zerolog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.Kitchen,
		}
	}

	log := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	if cfg.WithCaller {
		log = log.With().Caller().Logger()
	}
	return log
}

// ParseLevel converts a level name to a zerolog level.
func ParseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		level, _ = zerolog.ParseLevel(DefaultLevel)
	}
	return level
}

// LevelFromFlags resolves the effective level: --debug wins over --verbose,
// which wins over the configured level.
func LevelFromFlags(debug, verbose bool, configured string) string {
	switch {
	case debug:
		return "debug"
	case verbose:
		return "info"
	case configured != "":
		return configured
	default:
		return DefaultLevel
	}
}
