package bootstrap

import (
	"log/slog"
	"os"

	"github.com/osse101/ashfall/internal/config"
	"github.com/osse101/ashfall/internal/handler"
	"github.com/osse101/ashfall/internal/logger"
)

// SetupLogger installs the application logger described by cfg and reports the
// loaded configuration. The returned log file is nil when cfg.LogDir is empty;
// otherwise the caller must close it.
func SetupLogger(cfg *config.Config) (*os.File, error) {
	version := handler.CurrentVersion().Version
	lc := cfg.Logger()
	lc.Version = version
	logFile, err := logger.Setup(lc)
	if err != nil {
		return nil, err
	}

	slog.Info(LogMsgStartingAshfall,
		"environment", cfg.Environment,
		"log_level", cfg.LogLevel,
		"log_format", cfg.LogFormat,
		"version", version)

	slog.Debug(LogMsgConfigurationLoaded,
		"data_dir", cfg.DataDir,
		"database", cfg.DatabaseURL != "",
		"redis", cfg.RedisURL != "",
		"port", cfg.Port)

	for _, w := range cfg.Warnings() {
		slog.Warn(LogMsgConfigWarning, "warning", w)
	}

	return logFile, nil
}
