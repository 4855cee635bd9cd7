package bootstrap

import (
	"context"
	"fmt"

	"github.com/osse101/ashfall/internal/activity"
	"github.com/osse101/ashfall/internal/config"
	"github.com/osse101/ashfall/internal/craft"
	"github.com/osse101/ashfall/internal/crafting"
	"github.com/osse101/ashfall/internal/event"
	"github.com/osse101/ashfall/internal/server"
	"github.com/osse101/ashfall/internal/sse"
)

// App is the fully wired application
type App struct {
	Config    *config.Config
	Data      *GameData
	Stores    *Stores
	Bus       event.Bus
	Publisher *event.ResilientPublisher
	Crafting  crafting.Service
	Hub       *sse.Hub
	Server    *server.Server
}

// NewApp loads the game data, opens the stores, starts the event system and
// builds the crafting service and HTTP server. Nothing is listening yet; call
// Server.Start. On error everything opened so far is released.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	data, err := LoadData(ctx, cfg.DataDir, cfg.SuggestCacheSize)
	if err != nil {
		return nil, err
	}

	stores, err := InitializeStores(ctx, cfg)
	if err != nil {
		return nil, err
	}

	bus, publisher, err := InitializeEventSystem(cfg)
	if err != nil {
		stores.Close()
		return nil, err
	}
	if err := RegisterEventHandlers(bus); err != nil {
		_ = publisher.Shutdown(ctx)
		stores.Close()
		return nil, fmt.Errorf("failed to register event handlers: %w", err)
	}

	hub := sse.NewHub()
	hub.Start()
	sse.NewSubscriber(hub).Register(bus)

	svc := crafting.NewService(
		data.Dictionary,
		data.Catalog,
		stores.Known,
		activity.NewScheduler(),
		stores.Activities,
		publisher,
		craft.Headless{Answer: cfg.PromptDefault},
	)

	srv := server.NewServer(server.Options{
		Port:      cfg.Port,
		APIKey:    cfg.APIKey,
		Readiness: stores.ReadinessChecks(),
		Recipes:   data.Dictionary,
		Known:     stores.Known,
		Events:    hub,
	})

	return &App{
		Config:    cfg,
		Data:      data,
		Stores:    stores,
		Bus:       bus,
		Publisher: publisher,
		Crafting:  svc,
		Hub:       hub,
		Server:    srv,
	}, nil
}

// Shutdown ends event streams, stops the server, flushes events and closes
// the stores
func (a *App) Shutdown(ctx context.Context) {
	GracefulShutdown(ctx, ShutdownComponents{
		Hub:                a.Hub,
		Server:             a.Server,
		ResilientPublisher: a.Publisher,
		Stores:             a.Stores,
	})
}
