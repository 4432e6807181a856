// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within pulse.
package eventbus

import "github.com/careerhub/pulse/internal/core/feed"

// Event identifies an event type on the bus.
type Event string

// All event types, sorted A-Z.
const (
	EventNotificationPrivate Event = "notification.private"
	EventNotificationPublic  Event = "notification.public"
	EventNotificationPush    Event = "notification.push"
	EventSocketConnected     Event = "socket.connected"
	EventSocketDisconnected  Event = "socket.disconnected"
)

// NotificationPrivatePayload is emitted for events addressed to a single
// recipient, matched downstream against the session identity.
type NotificationPrivatePayload struct {
	Item feed.Notification
}

// NotificationPublicPayload is emitted for broadcast events.
type NotificationPublicPayload struct {
	Item feed.Notification
}

// NotificationPushPayload is emitted on the always-on background feed.
type NotificationPushPayload struct {
	Item feed.Notification
}

// SocketConnectedPayload is emitted when the socket session opens.
type SocketConnectedPayload struct {
	UserID       string
	ConnectionID string
}

// SocketDisconnectedPayload is emitted when the socket session closes,
// whether locally or by the server.
type SocketDisconnectedPayload struct {
	UserID string
	// Reason is empty for a clean local disconnect.
	Reason string
}
