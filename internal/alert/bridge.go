// Package alert bridges accepted notifications to the desktop: native
// popups behind a permission decision, and an audio cue behind the
// interaction gate. Every failure path here is absorbed locally; a broken
// popup or sound must never interrupt the feed.
package alert

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/careerhub/pulse/internal/core/gate"
)

// collapseWindow is how long an exact repeat of the visible popup stays
// suppressed. Distinct popups always go through; the platform tag makes
// the newest one replace the slot.
const collapseWindow = 2 * time.Second

// CollapseTag identifies this client's notification slot to the platform.
const CollapseTag = "pulse-notification"

// Notifier is the platform notification backend.
type Notifier interface {
	// Available reports whether the platform can show notifications at all.
	Available() bool
	// Push displays a native notification.
	Push(title, body, tag string) error
	// Cue plays the fixed notification sound.
	Cue() error
}

// Bridge coordinates permission state, popups, and the audio cue.
type Bridge struct {
	notifier Notifier
	prompter Prompter
	perms    PermissionStore
	gate     *gate.Gate
	sound    bool
	logger   zerolog.Logger

	mu        sync.Mutex
	current   Permission
	requested bool // one prompt per session
	lastPush  time.Time
	lastTitle string
	lastBody  string
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithSound enables or disables the audio cue entirely.
func WithSound(enabled bool) Option {
	return func(b *Bridge) { b.sound = enabled }
}

// WithPrompter overrides the permission prompter.
func WithPrompter(p Prompter) Option {
	return func(b *Bridge) { b.prompter = p }
}

// New creates a bridge. The persisted permission decision is restored; a
// load failure falls back to undecided.
func New(notifier Notifier, perms PermissionStore, g *gate.Gate, logger zerolog.Logger, opts ...Option) *Bridge {
	b := &Bridge{
		notifier: notifier,
		prompter: TerminalPrompter{},
		perms:    perms,
		gate:     g,
		sound:    true,
		logger:   logger,
		current:  PermissionDefault,
	}
	for _, opt := range opts {
		opt(b)
	}

	if perms != nil {
		p, err := perms.Load()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to load alert permission, treating as undecided")
		} else if p != "" {
			b.current = p
		}
	}

	return b
}

// Permission returns the current permission state.
func (b *Bridge) Permission() Permission {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Notify shows a native notification if the platform supports it and
// permission is granted. With an undecided permission it requests one and
// shows the popup only on a granted outcome; this event is not retried
// when the decision stays pending. A denied permission is terminal.
func (b *Bridge) Notify(ctx context.Context, title, body string) {
	b.NotifyWhen(ctx, title, body, nil)
}

// NotifyWhen is Notify with a liveness check. The permission request can
// resolve arbitrarily late; alive is consulted after it resolves and a
// false result discards the stale continuation instead of showing a popup
// for a context that no longer exists.
func (b *Bridge) NotifyWhen(ctx context.Context, title, body string, alive func() bool) {
	if !b.notifier.Available() {
		return
	}

	switch b.Permission() {
	case PermissionGranted:
		b.push(title, body)
	case PermissionDefault:
		p := b.requestPermission(ctx)
		if alive != nil && !alive() {
			b.logger.Debug().Str("title", title).Msg("discarding stale permission continuation")
			return
		}
		if p == PermissionGranted {
			b.push(title, body)
		}
	case PermissionDenied:
	}
}

// requestPermission runs the prompter at most once per session and
// persists a definitive outcome.
func (b *Bridge) requestPermission(ctx context.Context) Permission {
	b.mu.Lock()
	if b.requested || b.current != PermissionDefault {
		p := b.current
		b.mu.Unlock()
		return p
	}
	b.requested = true
	b.mu.Unlock()

	p, err := b.prompter.Request(ctx)
	if err != nil {
		b.logger.Warn().Err(err).Msg("permission request failed")
		return PermissionDefault
	}

	b.mu.Lock()
	b.current = p
	b.mu.Unlock()

	if p != PermissionDefault && b.perms != nil {
		if err := b.perms.Save(p); err != nil {
			b.logger.Error().Err(err).Msg("failed to persist alert permission")
		}
	}

	return p
}

// push displays the popup. In a burst every distinct popup is shown so
// the newest one ends up in the visible slot; only an exact repeat of the
// current slot is skipped.
func (b *Bridge) push(title, body string) {
	b.mu.Lock()
	now := time.Now()
	if title == b.lastTitle && body == b.lastBody && now.Sub(b.lastPush) < collapseWindow {
		b.mu.Unlock()
		b.logger.Debug().Str("title", title).Msg("popup repeat already in the slot")
		return
	}
	b.lastPush = now
	b.lastTitle = title
	b.lastBody = body
	b.mu.Unlock()

	if err := b.notifier.Push(title, body, CollapseTag); err != nil {
		b.logger.Warn().Err(err).Str("title", title).Msg("failed to show popup")
	}
}

// PlayCue plays the notification sound, but only after the user has
// interacted with the session. Playback failures are logged, never surfaced.
func (b *Bridge) PlayCue() {
	if !b.sound {
		return
	}
	if b.gate != nil && !b.gate.Interacted() {
		b.logger.Debug().Msg("audio cue skipped: no interaction yet")
		return
	}
	if err := b.notifier.Cue(); err != nil {
		b.logger.Warn().Err(err).Msg("audio cue failed")
	}
}
