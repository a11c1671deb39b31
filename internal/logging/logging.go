// Package logging configures the zerolog logger used across repochat.
//
// The TUI owns the terminal, so log output always goes to a file. Logging is
// off unless a level is configured.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/diogo/repochat/internal/config"
)

// Setup returns a logger writing to the configured log file, plus a closer
// for that file. With an empty level it returns a no-op logger.
func Setup(cfg config.Config) (zerolog.Logger, io.Closer, error) {
	level := strings.TrimSpace(cfg.LogLevel)
	if level == "" || level == "off" || level == "disabled" {
		return zerolog.Nop(), nopCloser{}, nil
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	path, err := config.GetLogPath(cfg)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("failed to open log file: %w", err)
	}

	return New(logFile, lvl), logFile, nil
}

// New builds a timestamped logger on w at the given level
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("app", "repochat").
		Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
