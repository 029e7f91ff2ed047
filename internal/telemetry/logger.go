// Package telemetry provides the zerolog logger and Prometheus metrics
// shared by the storage, repository, and CLI layers.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LoggingConfig selects the level, format, and destination of log output.
type LoggingConfig struct {
	Level  string // trace, debug, info, warn, error; default info
	Format string // json or console; default json
	Output string // stdout, stderr, or a file path; default stderr
}

// NewLogger builds a zerolog.Logger from cfg. The returned closer releases
// the output file when Output is a path and is a no-op otherwise.
func NewLogger(cfg LoggingConfig) (zerolog.Logger, io.Closer, error) {
	var (
		writer io.Writer
		closer io.Closer = nopCloser{}
	)
	switch cfg.Output {
	case "", "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), closer, fmt.Errorf("open log output: %w", err)
		}
		writer, closer = f, f
	}

	if cfg.Format == "console" {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.RFC3339}
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		closer.Close()
		return zerolog.Nop(), nopCloser{}, err
	}

	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), closer, nil
}

// ParseLevel maps a level name to a zerolog.Level. The empty string is info.
func ParseLevel(name string) (zerolog.Level, error) {
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("parse log level %q: %w", name, err)
	}
	return level, nil
}

// Component returns a child logger tagged with the component name.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
