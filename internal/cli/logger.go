package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// newLogger opens path for appending. The TUI owns the terminal, so without a
// path logs are discarded.
func newLogger(path string, debug bool) (*slog.Logger, func() error, error) {
	options := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		options.Level = slog.LevelDebug
	}
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, options)), func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(f, options)), f.Close, nil
}
