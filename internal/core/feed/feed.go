// Package feed defines the notification feed domain: the notification
// item itself, the in-memory ordered feed with its unread counter, and
// the persistence contracts for snapshots and the durable archive.
package feed

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a notification id is not in the archive.
var ErrNotFound = errors.New("notification not found")

// Notification is a single user-facing notice pushed by the marketplace.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	User      string    `json:"user"` // recipient identity for private events
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// Channel identifies the logical delivery channel an event arrived on.
type Channel string

const (
	// ChannelPush is the always-on background feed, unscoped.
	ChannelPush Channel = "push"
	// ChannelPrivate carries events addressed to a single recipient.
	ChannelPrivate Channel = "private"
	// ChannelPublic carries broadcast events.
	ChannelPublic Channel = "public"
)

// ArchiveEntry is a durably archived notification plus its delivery channel.
type ArchiveEntry struct {
	Notification
	Channel Channel
}

// Archive persists accepted notifications to durable storage. Unlike the
// live feed, archived entries survive dismissal and feed clears.
type Archive interface {
	Save(ctx context.Context, n Notification, ch Channel) (int64, error)
	List(ctx context.Context, limit int) ([]ArchiveEntry, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
