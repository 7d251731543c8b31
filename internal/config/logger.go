package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/a1s/gridbuf/internal/config/data"
)

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}

// NewLogger opens the configured log file and returns a JSON logger writing
// to it. Callers close the returned file on exit.
func NewLogger(cfg data.Logger) (*slog.Logger, *os.File, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	path := cfg.File
	if path == "" {
		path = AppLogFile
	}
	if err := data.EnsureFullPath(path, 0700); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	h := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(h).With(slog.String("app", AppName)), file, nil
}
