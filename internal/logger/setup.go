package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// NewHandler builds the slog handler described by cfg writing to w
func NewHandler(cfg Config, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel(), AddSource: cfg.AddSource}
	if cfg.IsJSON() {
		return slog.NewJSONHandler(w, opts).WithAttrs(cfg.attrs())
	}
	return slog.NewTextHandler(w, opts).WithAttrs(cfg.attrs())
}

// Setup installs the default logger. Output goes to stdout and, when cfg.Dir
// is set, to a new session file the caller must close.
func Setup(cfg Config) (*os.File, error) {
	if cfg.Dir == "" {
		slog.SetDefault(slog.New(NewHandler(cfg, os.Stdout)))
		slog.Info("Logging initialized", "level", cfg.LogLevel(), "format", cfg.Format)
		return nil, nil
	}

	f, err := openSession(cfg.Dir, cfg.retain(), time.Now())
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(NewHandler(cfg, io.MultiWriter(os.Stdout, f))))
	slog.Info("Logging initialized", "level", cfg.LogLevel(), "format", cfg.Format, "file", f.Name())
	return f, nil
}

// openSession prunes old session files so that, with the new one, at most
// retain remain.
func openSession(dir string, retain int, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}
	pruneSessions(dir, retain-1)

	name := filepath.Join(dir, sessionPrefix+now.Format(sessionStamp)+sessionSuffix)
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// pruneSessions deletes the oldest session files beyond keep. The timestamp
// format sorts lexically.
func pruneSessions(dir string, keep int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	var sessions []string
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(name, sessionPrefix) && strings.HasSuffix(name, sessionSuffix) {
			sessions = append(sessions, name)
		}
	}
	if len(sessions) <= keep {
		return
	}
	slices.Sort(sessions)

	for _, name := range sessions[:len(sessions)-max(keep, 0)] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			slog.Warn("Failed to delete old log file", "file", name, "error", err)
		}
	}
}
