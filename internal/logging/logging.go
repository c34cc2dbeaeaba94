// Package logging configures the runtime JSONL log.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Runtime bundles the configured logger with its file handle.
type Runtime struct {
	Logger *slog.Logger
	Path   string
	closer io.Closer
}

// Close closes the log output sink.
func (r Runtime) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// New opens the JSONL log in the state directory. Failures fall back
// to a discard logger rather than blocking startup: logging is
// diagnostics, not a dependency.
func New() Runtime {
	path, err := resolveLogPath()
	if err == nil {
		err = os.MkdirAll(filepath.Dir(path), 0o700)
	}
	var f *os.File
	if err == nil {
		f, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	}
	if err != nil {
		return Runtime{Logger: slog.New(slog.DiscardHandler)}
	}

	h := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})
	return Runtime{Logger: slog.New(h), Path: path, closer: f}
}

// resolveLogPath prefers XDG_STATE_HOME, then ~/.local/state.
func resolveLogPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return filepath.Join(xdg, "claude-notify", "log.jsonl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "claude-notify", "log.jsonl"), nil
}
