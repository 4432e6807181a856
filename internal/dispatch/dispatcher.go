// Package dispatch binds the feed store, alert bridge, and socket session
// together: it decides which inbound events become notifications and
// coordinates the popup and audio cue for each accepted one.
package dispatch

import (
	"context"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/careerhub/pulse/internal/alert"
	"github.com/careerhub/pulse/internal/core/eventbus"
	"github.com/careerhub/pulse/internal/core/feed"
	"github.com/careerhub/pulse/internal/core/socket"
)

// Presence telemetry titles. These are transport-level signals, not
// notifications, and never reach the feed or the alerts.
const (
	titleUserOnline  = "User Online"
	titleUserOffline = "User Offline"
)

// seenCapacity bounds the duplicate-suppression window.
const seenCapacity = 512

// Connector opens the socket session. Satisfied by *socket.Manager.
type Connector interface {
	Connect(ctx context.Context, userID string) (socket.ConnectResult, error)
}

// Dispatcher filters inbound events and routes accepted ones to the store,
// the archive, and the alert bridge.
//
// The event bus has no unsubscribe: handlers are registered once and
// consult the attach generation instead. Detach cuts the triggering path
// for future events; continuations already in flight are discarded by the
// same generation check.
type Dispatcher struct {
	bus      *eventbus.EventBus
	store    *feed.Store
	archive  feed.Archive
	bridge   *alert.Bridge
	socket   Connector
	identity string
	mute     []string
	logger   zerolog.Logger

	mu         sync.Mutex
	attached   bool
	generation int
	registered bool
	background bool

	seen     map[string]struct{}
	seenRing []string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithArchive enables durable archiving of accepted events.
func WithArchive(a feed.Archive) Option {
	return func(d *Dispatcher) { d.archive = a }
}

// WithBridge enables desktop popups and the audio cue.
func WithBridge(b *alert.Bridge) Option {
	return func(d *Dispatcher) { d.bridge = b }
}

// WithConnector lets Attach open the socket session when none is live.
func WithConnector(c Connector) Option {
	return func(d *Dispatcher) { d.socket = c }
}

// WithIdentity sets the session identity used to scope private events.
func WithIdentity(email string) Option {
	return func(d *Dispatcher) { d.identity = email }
}

// WithMutePatterns suppresses events whose title matches any pattern.
func WithMutePatterns(patterns []string) Option {
	return func(d *Dispatcher) { d.mute = patterns }
}

// WithLogger sets the dispatcher logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(d *Dispatcher) { d.logger = logger }
}

// New creates a dispatcher over the given bus and store.
func New(bus *eventbus.EventBus, store *feed.Store, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		bus:    bus,
		store:  store,
		logger: zerolog.Nop(),
		seen:   make(map[string]struct{}, seenCapacity),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Attach binds the dispatcher to the session for the given user: it opens
// the socket if no handle is live (the manager's idempotency guard makes
// repeated attaches safe) and arms the private, public, and broadcast
// push channels.
func (d *Dispatcher) Attach(ctx context.Context, userID string) error {
	if d.socket != nil {
		result, err := d.socket.Connect(ctx, userID)
		if err != nil {
			return err
		}
		if result == socket.ResultAlreadyConnected {
			d.logger.Debug().Str("user_id", userID).Msg("attach reused live socket")
		}
	}

	d.mu.Lock()
	d.attached = true
	d.generation++
	d.registerLocked()
	d.armPushLocked()
	d.mu.Unlock()

	return nil
}

// Detach disarms the private and public channels. The socket stays open;
// it is process-scoped, not page-scoped.
func (d *Dispatcher) Detach() {
	d.mu.Lock()
	d.attached = false
	d.generation++
	d.mu.Unlock()
}

// Attached reports whether the page channels are armed.
func (d *Dispatcher) Attached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attached
}

// StartBackground arms the always-on background feed channel without a
// page session. It is independent of Attach/Detach and carries no
// identity scoping; the headless watcher runs on this channel alone.
func (d *Dispatcher) StartBackground() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.armPushLocked()
}

// armPushLocked subscribes the background feed channel once. Attach arms
// it too, so a live page session receives broadcast pushes alongside its
// scoped channels; markSeen stops the same event landing twice. Callers
// must hold d.mu.
func (d *Dispatcher) armPushLocked() {
	if d.background {
		return
	}
	d.background = true

	d.bus.SubscribeNotificationPush(func(p eventbus.NotificationPushPayload) {
		d.handle(p.Item, feed.ChannelPush)
	})
}

// registerLocked arms the page channels once. Callers must hold d.mu.
func (d *Dispatcher) registerLocked() {
	if d.registered {
		return
	}
	d.registered = true

	d.bus.SubscribeNotificationPrivate(func(p eventbus.NotificationPrivatePayload) {
		if !d.Attached() {
			return
		}
		if d.identity == "" || p.Item.User != d.identity {
			d.logger.Debug().
				Str("id", p.Item.ID).
				Str("user", p.Item.User).
				Msg("private event for another identity")
			return
		}
		d.handle(p.Item, feed.ChannelPrivate)
	})

	d.bus.SubscribeNotificationPublic(func(p eventbus.NotificationPublicPayload) {
		if !d.Attached() {
			return
		}
		d.handle(p.Item, feed.ChannelPublic)
	})
}

// handle applies the acceptance filters and routes an accepted event.
func (d *Dispatcher) handle(item feed.Notification, ch feed.Channel) {
	if isPresence(item.Title) {
		d.logger.Debug().
			Str("id", item.ID).
			Str("title", item.Title).
			Msg("presence telemetry suppressed")
		return
	}

	if d.muted(item.Title) {
		d.logger.Debug().
			Str("id", item.ID).
			Str("title", item.Title).
			Msg("muted by pattern")
		return
	}

	if !d.markSeen(item.ID) {
		d.logger.Debug().Str("id", item.ID).Msg("duplicate event dropped")
		return
	}

	d.store.Add(item)

	if d.archive != nil {
		if _, err := d.archive.Save(context.Background(), item, ch); err != nil {
			d.logger.Error().Err(err).Str("id", item.ID).Msg("failed to archive notification")
		}
	}

	if d.bridge == nil {
		return
	}

	gen := d.currentGeneration()
	if d.bridge.Permission() == alert.PermissionDefault {
		// The permission prompt can resolve arbitrarily late; run it off
		// the dispatch path and discard the continuation if this page
		// context is gone by then.
		go d.bridge.NotifyWhen(context.Background(), item.Title, item.Content, func() bool {
			return d.currentGeneration() == gen
		})
	} else {
		d.bridge.Notify(context.Background(), item.Title, item.Content)
	}

	d.bridge.PlayCue()
}

// markSeen records an id and reports whether it was new. The window is
// bounded; the oldest ids age out first.
func (d *Dispatcher) markSeen(id string) bool {
	if id == "" {
		return true
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, dup := d.seen[id]; dup {
		return false
	}

	d.seen[id] = struct{}{}
	d.seenRing = append(d.seenRing, id)
	if len(d.seenRing) > seenCapacity {
		oldest := d.seenRing[0]
		d.seenRing = d.seenRing[1:]
		delete(d.seen, oldest)
	}
	return true
}

func (d *Dispatcher) muted(title string) bool {
	for _, pattern := range d.mute {
		ok, err := doublestar.Match(pattern, title)
		if err != nil {
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

func (d *Dispatcher) currentGeneration() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

func isPresence(title string) bool {
	return title == titleUserOnline || title == titleUserOffline
}
