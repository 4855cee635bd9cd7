package logger

import (
	"log/slog"
	"strings"
)

// Config describes how the process logs
type Config struct {
	Level       string
	Format      string
	ServiceName string
	Version     string
	Environment string
	AddSource   bool

	// Dir receives session log files; empty logs to stdout only
	Dir string
	// Retain is how many session files to keep, zero meaning DefaultRetain
	Retain int
}

func DefaultConfig() Config {
	return Config{
		Level:       DefaultLevel,
		Format:      formatText,
		ServiceName: DefaultServiceName,
		Version:     DefaultVersion,
		Environment: DefaultEnvironment,
		Retain:      DefaultRetain,
	}
}

// LogLevel parses Level, falling back to info for anything slog does not know
func (c Config) LogLevel() slog.Level {
	name := strings.TrimSpace(c.Level)
	if strings.EqualFold(name, levelWarningAlias) {
		return slog.LevelWarn
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func (c Config) IsJSON() bool {
	return strings.EqualFold(c.Format, formatJSON)
}

func (c Config) retain() int {
	if c.Retain <= 0 {
		return DefaultRetain
	}
	return c.Retain
}

// attrs are attached to every record
func (c Config) attrs() []slog.Attr {
	return []slog.Attr{
		slog.String(AttrKeyService, c.ServiceName),
		slog.String(AttrKeyVersion, c.Version),
		slog.String(AttrKeyEnvironment, c.Environment),
	}
}
