// Package tui renders the live notification feed.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/careerhub/pulse/internal/core/feed"
	"github.com/careerhub/pulse/internal/core/socket"
	"github.com/careerhub/pulse/internal/pulse"
)

const (
	statusPollInterval = 2 * time.Second
	flashDuration      = 5 * time.Second
)

type viewState int

const (
	viewFeed viewState = iota
	viewDetail
)

// Messages.
type (
	drainNotificationsMsg struct{}
	statusTickMsg         struct{}
	clearFlashMsg         struct{ seq int }
	attachedMsg           struct{ err error }
	hydratedMsg           struct{ err error }
)

// Model is the root bubbletea model for the feed view.
type Model struct {
	app    *pulse.App
	buffer *NotificationBuffer
	keys   keyMap
	help   help.Model

	ctx    context.Context
	rows   []feed.Notification
	cursor int
	state  viewState
	detail string

	status   socket.Status
	flash    string
	flashSeq int
	lastErr  error

	width  int
	height int
}

// New constructs the feed model and hooks the buffer into the store.
func New(ctx context.Context, app *pulse.App) *Model {
	buf := NewNotificationBuffer()
	app.Feed.OnAdd(buf.Push)

	return &Model{
		app:    app,
		buffer: buf,
		keys:   defaultKeyMap(),
		help:   help.New(),
		ctx:    ctx,
		rows:   app.Feed.List(),
		status: app.Socket.Status(),
	}
}

// Init attaches the dispatcher, hydrates the feed, and starts the
// buffer and status loops.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.attachCmd(),
		m.hydrateCmd(),
		m.buffer.WaitForSignal(),
		statusTick(),
	)
}

func (m *Model) attachCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.app.Dispatcher.Attach(m.ctx, m.app.Config.Identity.UserID)
		return attachedMsg{err: err}
	}
}

func (m *Model) hydrateCmd() tea.Cmd {
	return func() tea.Msg {
		return hydratedMsg{err: m.app.Hydrate(m.ctx)}
	}
}

func statusTick() tea.Cmd {
	return tea.Tick(statusPollInterval, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		// Any keypress counts as user interaction and unlocks the
		// audio cue for subsequent arrivals.
		m.app.Gate.Trigger()
		return m.handleKey(msg)

	case drainNotificationsMsg:
		items := m.buffer.Drain()
		m.refreshRows()
		cmds := []tea.Cmd{m.buffer.WaitForSignal()}
		if len(items) > 0 {
			m.flash = items[len(items)-1].Title
			m.flashSeq++
			cmds = append(cmds, m.clearFlashCmd(m.flashSeq))
		}
		return m, tea.Batch(cmds...)

	case statusTickMsg:
		m.status = m.app.Socket.Status()
		return m, statusTick()

	case clearFlashMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case attachedMsg:
		m.lastErr = msg.err
		return m, nil

	case hydratedMsg:
		// Hydration is best-effort; the socket stream still works
		// when the REST API is down.
		m.lastErr = msg.err
		m.refreshRows()
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state == viewDetail {
		return m.handleDetailKey(msg)
	}

	keys := m.keys
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.Open):
		if n, ok := m.selected(); ok {
			m.app.Feed.MarkRead(n.ID)
			m.detail = m.renderDetail(n)
			m.state = viewDetail
			m.refreshRows()
		}

	case key.Matches(msg, keys.Read):
		if n, ok := m.selected(); ok {
			m.app.Feed.MarkRead(n.ID)
			m.refreshRows()
		}

	case key.Matches(msg, keys.Dismiss):
		if n, ok := m.selected(); ok {
			m.app.Feed.Remove(n.ID)
			m.refreshRows()
		}

	case key.Matches(msg, keys.Clear):
		m.app.Feed.ClearUnread()
		m.refreshRows()

	case key.Matches(msg, keys.Refresh):
		return m, m.hydrateCmd()

	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Open):
		m.state = viewFeed
		m.detail = ""
	}
	return m, nil
}

func (m *Model) clearFlashCmd(seq int) tea.Cmd {
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return clearFlashMsg{seq: seq}
	})
}

// refreshRows re-reads the store, clamping the cursor to the new length.
func (m *Model) refreshRows() {
	m.rows = m.app.Feed.List()
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selected() (feed.Notification, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return feed.Notification{}, false
	}
	return m.rows[m.cursor], true
}
