// Package logging sets up the JSONL runtime log under the XDG state dir.
package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prarthanadoshi7/serenade-whisperai/internal/config"
)

// Runtime bundles the configured logger with the file it writes to.
type Runtime struct {
	Logger *slog.Logger
	Path   string

	file *os.File
}

// Close releases the log file handle. Safe on a zero Runtime.
func (r Runtime) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}

// New opens the JSONL log sink under the XDG state dir and builds a logger
// honoring the configured level.
func New(cfg config.LoggingConfig) (Runtime, error) {
	path, f, err := openLogFile()
	if err != nil {
		return Runtime{}, err
	}

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: ParseLevel(cfg.Level)})
	return Runtime{Logger: slog.New(handler), Path: path, file: f}, nil
}

// openLogFile resolves the log path and opens it for append, creating the
// state directory as needed.
func openLogFile() (string, *os.File, error) {
	path, err := resolveLogPath()
	if err != nil {
		return "", nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return "", nil, err
	}
	return path, f, nil
}

// ParseLevel maps a configured level name onto slog, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// StateDir resolves the serenade state directory, preferring XDG_STATE_HOME
// and falling back to ~/.local/state.
func StateDir() (string, error) {
	base := strings.TrimSpace(os.Getenv("XDG_STATE_HOME"))
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "serenade"), nil
}

func resolveLogPath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "log.jsonl"), nil
}
