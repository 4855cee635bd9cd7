package bootstrap

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/osse101/ashfall/internal/config"
	"github.com/osse101/ashfall/internal/event"
)

// eventSettings are the publisher options after defaults are applied
type eventSettings struct {
	maxRetries     int
	retryDelay     time.Duration
	deadLetterPath string
}

func resolveEventSettings(cfg *config.Config) eventSettings {
	return eventSettings{
		maxRetries:     cmp.Or(cfg.EventMaxRetries, EventDefaultMaxRetries),
		retryDelay:     cmp.Or(cfg.EventRetryDelay, EventDefaultRetryDelay),
		deadLetterPath: cmp.Or(cfg.DeadLetterPath, EventDefaultDeadLetterPath),
	}
}

// InitializeEventSystem builds the in-process bus and the resilient publisher
// that crafting publishes through. Events still failing after the retries
// land in the dead-letter file.
func InitializeEventSystem(cfg *config.Config) (event.Bus, *event.ResilientPublisher, error) {
	s := resolveEventSettings(cfg)
	if err := os.MkdirAll(filepath.Dir(s.deadLetterPath), DirPermission); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateDeadLetterDir, err)
	}

	bus := event.NewMemoryBus()
	publisher, err := event.NewResilientPublisher(bus, s.maxRetries, s.retryDelay, s.deadLetterPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", LogMsgFailedCreateResilientPublisher, err)
	}

	slog.Info(LogMsgEventSystemInitialized,
		"max_retries", s.maxRetries,
		"retry_delay", s.retryDelay,
		"dead_letter_path", s.deadLetterPath)
	return bus, publisher, nil
}
