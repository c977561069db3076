// Package logging provides structured logging with console and optional
// file output for the Focal service.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Options configures the logger.
type Options struct {
	// Level is the minimum log level ("debug", "info", "warn", "error")
	Level string
	// File is an optional log file path; empty disables file output
	File string
	// Console enables human-readable console output on stderr
	Console bool
}

// Logger wraps zerolog with optional file output.
type Logger struct {
	zlog zerolog.Logger
	file *os.File
}

// New creates a Logger from the given options.
func New(opts Options) (*Logger, error) {
	var writers []io.Writer

	if opts.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		})
	}

	var file *os.File
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		file = f
		writers = append(writers, f)
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	zlog := zerolog.New(io.MultiWriter(writers...)).
		Level(ParseLevel(opts.Level)).
		With().
		Timestamp().
		Str("app", "focal").
		Logger()

	return &Logger{zlog: zlog, file: file}, nil
}

// Zerolog returns the underlying zerolog logger.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

// Component returns a child logger tagged with a component name.
func (l *Logger) Component(name string) *zerolog.Logger {
	zl := l.zlog.With().Str("component", name).Logger()
	return &zl
}

// Close flushes and closes the log file if one is open.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// ParseLevel maps a level string to a zerolog level. Unknown values
// fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
