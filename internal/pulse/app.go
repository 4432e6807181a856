// Package pulse composes the notification pipeline into a single
// application object consumed by the CLI commands and the TUI.
package pulse

import (
	"context"
	"fmt"

	"github.com/careerhub/pulse/internal/alert"
	"github.com/careerhub/pulse/internal/core/config"
	"github.com/careerhub/pulse/internal/core/eventbus"
	"github.com/careerhub/pulse/internal/core/feed"
	"github.com/careerhub/pulse/internal/core/gate"
	"github.com/careerhub/pulse/internal/core/logging"
	"github.com/careerhub/pulse/internal/core/socket"
	"github.com/careerhub/pulse/internal/data/db"
	"github.com/careerhub/pulse/internal/dispatch"
	"github.com/careerhub/pulse/internal/marketplace"
)

// App is the central entry point for all pulse operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Config     *config.Config
	Bus        *eventbus.EventBus
	Feed       *feed.Store
	Archive    feed.Archive
	Socket     *socket.Manager
	Gate       *gate.Gate
	Bridge     *alert.Bridge
	Dispatcher *dispatch.Dispatcher
	Market     *marketplace.Client
	DB         *db.DB
}

// NewApp constructs an App from explicit dependencies and wires the
// dispatcher between them.
func NewApp(
	cfg *config.Config,
	bus *eventbus.EventBus,
	store *feed.Store,
	archive feed.Archive,
	sock *socket.Manager,
	g *gate.Gate,
	bridge *alert.Bridge,
	market *marketplace.Client,
	database *db.DB,
) *App {
	dispatcher := dispatch.New(bus, store,
		dispatch.WithArchive(archive),
		dispatch.WithBridge(bridge),
		dispatch.WithConnector(sock),
		dispatch.WithIdentity(cfg.Identity.Email),
		dispatch.WithMutePatterns(cfg.Mute),
		dispatch.WithLogger(logging.Component("dispatch")),
	)

	return &App{
		Config:     cfg,
		Bus:        bus,
		Feed:       store,
		Archive:    archive,
		Socket:     sock,
		Gate:       g,
		Bridge:     bridge,
		Dispatcher: dispatcher,
		Market:     market,
		DB:         database,
	}
}

// Hydrate replaces the in-memory feed with the server's view, carrying
// over read flags for items the local snapshot already knows about.
// Callers treat hydration as best-effort; the live socket stream works
// without it.
func (a *App) Hydrate(ctx context.Context) error {
	items, err := a.Market.Notifications(ctx, a.Config.Identity.UserID)
	if err != nil {
		return fmt.Errorf("fetch notifications: %w", err)
	}

	read := make(map[string]bool)
	for _, n := range a.Feed.List() {
		if n.Read {
			read[n.ID] = true
		}
	}
	for i := range items {
		if read[items[i].ID] {
			items[i].Read = true
		}
	}

	a.Feed.Replace(items)
	return nil
}

// Close tears down the live connection. Safe to call when nothing is
// connected.
func (a *App) Close() {
	a.Socket.Disconnect()
}
