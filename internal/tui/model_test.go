package tui

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careerhub/pulse/internal/core/config"
	"github.com/careerhub/pulse/internal/core/eventbus"
	"github.com/careerhub/pulse/internal/core/feed"
	"github.com/careerhub/pulse/internal/core/gate"
	"github.com/careerhub/pulse/internal/core/socket"
	"github.com/careerhub/pulse/internal/pulse"
	"github.com/careerhub/pulse/pkg/tuitest"
)

func newTestModel(t *testing.T, items ...feed.Notification) *Model {
	t.Helper()

	store := feed.NewStore()
	for i := len(items) - 1; i >= 0; i-- {
		store.Add(items[i])
	}

	app := &pulse.App{
		Config: config.Default(),
		Feed:   store,
		Socket: socket.NewManager("ws://localhost", eventbus.New(8), zerolog.Nop()),
		Gate:   gate.New(),
	}

	return New(context.Background(), app)
}

func apply(t *testing.T, m *Model, msgs ...interface{}) *Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(*Model)
		require.True(t, ok)
	}
	return m
}

func item(id, title string) feed.Notification {
	return feed.Notification{ID: id, Title: title, Content: "body", CreatedAt: time.Now()}
}

func TestModel_CursorNavigation_clamped(t *testing.T) {
	m := newTestModel(t, item("n1", "first"), item("n2", "second"))

	m = apply(t, m, tuitest.KeyUp())
	assert.Equal(t, 0, m.cursor, "up at top stays put")

	m = apply(t, m, tuitest.KeyDown())
	assert.Equal(t, 1, m.cursor)

	m = apply(t, m, tuitest.KeyDown())
	assert.Equal(t, 1, m.cursor, "down at bottom stays put")
}

func TestModel_MarkRead(t *testing.T) {
	m := newTestModel(t, item("n1", "first"), item("n2", "second"))
	require.Equal(t, 2, m.app.Feed.Unread())

	m = apply(t, m, tuitest.KeyPress('r'))

	assert.Equal(t, 1, m.app.Feed.Unread())
	n, ok := m.app.Feed.Get("n1")
	require.True(t, ok)
	assert.True(t, n.Read)
}

func TestModel_Dismiss(t *testing.T) {
	m := newTestModel(t, item("n1", "first"), item("n2", "second"))

	m = apply(t, m, tuitest.KeyPress('x'))

	assert.Len(t, m.rows, 1)
	_, ok := m.app.Feed.Get("n1")
	assert.False(t, ok)
}

func TestModel_ClearUnread(t *testing.T) {
	m := newTestModel(t, item("n1", "first"), item("n2", "second"))

	m = apply(t, m, tuitest.KeyPress('c'))

	assert.Equal(t, 0, m.app.Feed.Unread())
}

func TestModel_OpenDetail_marksReadAndReturns(t *testing.T) {
	m := newTestModel(t, item("n1", "first"))
	m = apply(t, m, tuitest.WindowSize(80, 24))

	m = apply(t, m, tuitest.KeyEnter())
	assert.Equal(t, viewDetail, m.state)

	n, ok := m.app.Feed.Get("n1")
	require.True(t, ok)
	assert.True(t, n.Read)

	m = apply(t, m, tuitest.KeyEsc())
	assert.Equal(t, viewFeed, m.state)
}

func TestModel_FirstKeypressUnlocksGate(t *testing.T) {
	m := newTestModel(t, item("n1", "first"))
	require.False(t, m.app.Gate.Interacted())

	m = apply(t, m, tuitest.KeyDown())

	assert.True(t, m.app.Gate.Interacted())
}

func TestModel_DrainRefreshesRowsAndFlashes(t *testing.T) {
	m := newTestModel(t)

	// Arrival path: dispatcher writes to the store, which feeds the buffer.
	m.app.Feed.Add(item("n1", "Application viewed"))

	next, cmd := m.Update(drainNotificationsMsg{})
	m = next.(*Model)

	assert.Len(t, m.rows, 1)
	assert.Equal(t, "Application viewed", m.flash)
	assert.NotNil(t, cmd, "drain re-arms the signal wait")
}

func TestModel_View_listsTitles(t *testing.T) {
	m := newTestModel(t, item("n1", "Application viewed"), item("n2", "New job match"))
	m = apply(t, m, tuitest.WindowSize(80, 24))

	out := tuitest.StripANSI(m.View())
	assert.Contains(t, out, "Application viewed")
	assert.Contains(t, out, "New job match")
	assert.Contains(t, out, "2 unread")
}

func TestModel_View_emptyState(t *testing.T) {
	m := newTestModel(t)

	out := tuitest.StripANSI(m.View())
	assert.Contains(t, out, "No notifications yet.")
}
