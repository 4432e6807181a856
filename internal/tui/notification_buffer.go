package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/careerhub/pulse/internal/core/feed"
)

// NotificationBuffer buffers arrivals from the dispatcher goroutines and
// emits coalesced drain signals into the bubbletea loop.
type NotificationBuffer struct {
	mu     sync.Mutex
	items  []feed.Notification
	signal chan struct{}
}

// NewNotificationBuffer constructs a buffer for async notification delivery.
func NewNotificationBuffer() *NotificationBuffer {
	return &NotificationBuffer{
		items:  make([]feed.Notification, 0),
		signal: make(chan struct{}, 1),
	}
}

// Push appends a notification and emits a non-blocking drain signal.
func (b *NotificationBuffer) Push(n feed.Notification) {
	b.mu.Lock()
	b.items = append(b.items, n)
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// Drain returns all buffered notifications and clears the buffer.
func (b *NotificationBuffer) Drain() []feed.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) == 0 {
		return nil
	}

	out := make([]feed.Notification, len(b.items))
	copy(out, b.items)
	b.items = b.items[:0]
	return out
}

// WaitForSignal blocks until there are notifications ready to drain.
func (b *NotificationBuffer) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-b.signal
		return drainNotificationsMsg{}
	}
}
