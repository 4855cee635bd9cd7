package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/ashfall/internal/event"
	"github.com/osse101/ashfall/internal/metrics"
)

// RegisterEventHandlers subscribes the metrics collector to every crafting,
// disassembly, learning and trap event on bus.
func RegisterEventHandlers(bus event.Bus) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	if err := metricsCollector.Register(bus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedRegisterMetrics, err)
	}
	slog.Info(LogMsgMetricsCollectorRegistered)
	return nil
}
