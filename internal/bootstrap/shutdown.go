package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/ashfall/internal/event"
	"github.com/osse101/ashfall/internal/server"
	"github.com/osse101/ashfall/internal/sse"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Any of them may be nil.
type ShutdownComponents struct {
	Hub                *sse.Hub
	Server             *server.Server
	ResilientPublisher *event.ResilientPublisher
	Stores             *Stores
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in order:
// 1. Event stream hub (end long-lived stream requests)
// 2. HTTP server (stop accepting new requests)
// 3. Event publisher (flush pending events)
// 4. Stores (close the database pool and redis client)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	if components.Hub != nil {
		slog.Info(LogMsgClosingEventStreams)
		components.Hub.Stop()
	}

	if components.Server != nil {
		slog.Info(LogMsgShuttingDownServer)
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.Stores != nil {
		components.Stores.Close()
	}

	slog.Info(LogMsgServerStopped)
}
