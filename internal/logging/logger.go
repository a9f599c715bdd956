// Package logging builds zerolog loggers and carries them on contexts.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration
type Config struct {
	Level      zerolog.Level
	Format     string // "json" or "console"
	TimeFormat string
	Output     io.Writer
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:      zerolog.InfoLevel,
		Format:     "console",
		TimeFormat: time.RFC3339,
		Output:     os.Stderr,
	}
}

// New creates a new zerolog logger with the given configuration
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var output = out
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: cfg.TimeFormat,
		}
	}

	return zerolog.New(output).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
}

// NewFromEnv creates a logger based on environment variables
// TABSHELL_LOG_LEVEL: trace, debug, info, warn, error (default: info)
// TABSHELL_LOG_FORMAT: json, console (default: console)
func NewFromEnv() zerolog.Logger {
	return NewFromConfigValues(os.Getenv("TABSHELL_LOG_LEVEL"), os.Getenv("TABSHELL_LOG_FORMAT"))
}

// NewFromConfigValues creates a logger from raw config strings.
// Unknown values fall back to the defaults.
func NewFromConfigValues(level, format string) zerolog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)

	switch strings.ToLower(format) {
	case "json", "console":
		cfg.Format = strings.ToLower(format)
	}

	return New(cfg)
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// FileConfig enables a rotating JSON log file next to the console output.
type FileConfig struct {
	Enabled    bool
	Dir        string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewWithFile creates a logger writing to cfg.Output and, when enabled, to
// a rotating JSON file. The returned cleanup closes the file.
func NewWithFile(cfg Config, file FileConfig) (zerolog.Logger, func(), error) {
	if !file.Enabled {
		return New(cfg), func() {}, nil
	}
	rotator, err := NewLogRotator(file.Dir, file.MaxSizeMB, file.MaxBackups, file.MaxAgeDays, file.Compress)
	if err != nil {
		return New(cfg), func() {}, err
	}

	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: cfg.TimeFormat}
	}
	logger := zerolog.New(zerolog.MultiLevelWriter(out, rotator)).
		Level(cfg.Level).
		With().
		Timestamp().
		Logger()
	return logger, func() { _ = rotator.Close() }, nil
}
