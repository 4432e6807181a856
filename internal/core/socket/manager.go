// Package socket owns the single live connection to the marketplace
// notification service. The manager enforces the one-handle-per-process
// invariant, decodes inbound push frames, and routes them onto the event
// bus. It never retries on its own; reconnection belongs to the caller.
package socket

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/careerhub/pulse/internal/core/eventbus"
	"github.com/careerhub/pulse/internal/core/feed"
	"github.com/careerhub/pulse/pkg/randid"
)

// Status is the connection state, derived from socket lifecycle events.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnected    Status = "connected"
)

// ConnectResult reports which branch an idempotent Connect call took.
type ConnectResult int

const (
	// ResultAlreadyConnected means a live handle existed and the call was a no-op.
	ResultAlreadyConnected ConnectResult = iota
	// ResultConnected means a new connection was opened.
	ResultConnected
)

// Event names on the wire.
const (
	eventPush    = "notification:new"
	eventPrivate = "notification:private"
	eventPublic  = "notification:public"
)

// envelope is the wire frame: an event name plus its JSON payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

const handshakeTimeout = 10 * time.Second

// Manager maintains at most one live websocket connection per process.
type Manager struct {
	serviceURL string
	bus        *eventbus.EventBus
	logger     zerolog.Logger
	dialer     *websocket.Dialer

	mu     sync.Mutex
	conn   *websocket.Conn
	userID string
	connID string
}

// NewManager creates a session manager for the given service URL.
func NewManager(serviceURL string, bus *eventbus.EventBus, logger zerolog.Logger) *Manager {
	return &Manager{
		serviceURL: serviceURL,
		bus:        bus,
		logger:     logger,
		dialer: &websocket.Dialer{
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

// Connect opens the connection for the given user, passing the user id as
// query metadata. If a handle already exists the call returns immediately
// with ResultAlreadyConnected; repeated attach/remount cycles must not
// stack connections. There is no transport fallback: a dial error is
// returned as-is rather than degrading silently.
func (m *Manager) Connect(ctx context.Context, userID string) (ConnectResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn != nil {
		m.logger.Debug().Str("user_id", userID).Msg("connect: handle already live")
		return ResultAlreadyConnected, nil
	}

	u, err := url.Parse(m.serviceURL)
	if err != nil {
		return 0, fmt.Errorf("parse service url: %w", err)
	}

	connID := uuid.NewString()
	q := u.Query()
	q.Set("user_id", userID)
	q.Set("client_id", connID)
	u.RawQuery = q.Encode()

	conn, resp, err := m.dialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return 0, fmt.Errorf("dial notification service: %w", err)
	}

	m.conn = conn
	m.userID = userID
	m.connID = connID

	m.logger.Info().
		Str("user_id", userID).
		Str("connection_id", connID).
		Msg("socket connected")
	m.bus.PublishSocketConnected(eventbus.SocketConnectedPayload{
		UserID:       userID,
		ConnectionID: connID,
	})

	go m.readPump(conn, userID)

	return ResultConnected, nil
}

// Disconnect closes the live handle. No-op when nothing is connected.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	conn := m.conn
	userID := m.userID
	m.conn = nil
	m.mu.Unlock()

	if conn == nil {
		return
	}

	deadline := time.Now().Add(time.Second)
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		deadline,
	)
	_ = conn.Close()

	m.logger.Info().Str("user_id", userID).Msg("socket disconnected")
	m.bus.PublishSocketDisconnected(eventbus.SocketDisconnectedPayload{UserID: userID})
}

// Status returns the current connection state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		return StatusConnected
	}
	return StatusDisconnected
}

// readPump reads frames until the connection drops. A server-initiated
// close releases the handle so a future Connect may reopen it.
func (m *Manager) readPump(conn *websocket.Conn, userID string) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			m.release(conn, userID, err)
			return
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			m.logger.Warn().Err(err).Msg("discarding malformed frame")
			continue
		}

		var item feed.Notification
		if err := json.Unmarshal(env.Data, &item); err != nil {
			m.logger.Warn().Err(err).Str("event", env.Event).Msg("discarding malformed payload")
			continue
		}
		if item.ID == "" {
			item.ID = randid.Generate(8)
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = time.Now()
		}

		switch env.Event {
		case eventPush:
			m.bus.PublishNotificationPush(eventbus.NotificationPushPayload{Item: item})
		case eventPrivate:
			m.bus.PublishNotificationPrivate(eventbus.NotificationPrivatePayload{Item: item})
		case eventPublic:
			m.bus.PublishNotificationPublic(eventbus.NotificationPublicPayload{Item: item})
		default:
			m.logger.Debug().Str("event", env.Event).Msg("ignoring unknown event")
		}
	}
}

// release clears the handle after a read failure, unless Disconnect or a
// newer Connect already replaced it.
func (m *Manager) release(conn *websocket.Conn, userID string, cause error) {
	m.mu.Lock()
	owned := m.conn == conn
	if owned {
		m.conn = nil
	}
	m.mu.Unlock()

	_ = conn.Close()
	if !owned {
		return
	}

	reason := cause.Error()
	if websocket.IsCloseError(cause, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		m.logger.Info().Str("user_id", userID).Msg("server closed connection")
	} else {
		m.logger.Warn().Err(cause).Str("user_id", userID).Msg("connection dropped")
	}
	m.bus.PublishSocketDisconnected(eventbus.SocketDisconnectedPayload{
		UserID: userID,
		Reason: reason,
	})
}
