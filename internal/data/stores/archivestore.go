// Package stores contains the SQLite-backed store implementations.
package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/careerhub/pulse/internal/core/feed"
	"github.com/careerhub/pulse/internal/data/db"
)

// ArchiveStore implements feed.Archive using SQLite.
type ArchiveStore struct {
	db *db.DB
}

var _ feed.Archive = (*ArchiveStore)(nil)

// NewArchiveStore creates a new SQLite-backed notification archive.
func NewArchiveStore(db *db.DB) *ArchiveStore {
	return &ArchiveStore{db: db}
}

// Save archives a notification and returns its auto-generated row id.
func (s *ArchiveStore) Save(ctx context.Context, n feed.Notification, ch feed.Channel) (int64, error) {
	id, err := s.db.Queries().InsertNotification(ctx, db.InsertNotificationParams{
		ExternalID: n.ID,
		Title:      n.Title,
		Content:    n.Content,
		User:       n.User,
		Channel:    string(ch),
		CreatedAt:  n.CreatedAt.UnixNano(),
	})
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}

	return id, nil
}

// List returns archived notifications ordered by newest first. A
// non-positive limit returns everything.
func (s *ArchiveStore) List(ctx context.Context, limit int) ([]feed.ArchiveEntry, error) {
	rows, err := s.db.Queries().ListNotifications(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	result := make([]feed.ArchiveEntry, 0, len(rows))
	for _, row := range rows {
		result = append(result, rowToEntry(row))
	}

	return result, nil
}

// Clear deletes the entire archive.
func (s *ArchiveStore) Clear(ctx context.Context) error {
	if err := s.db.Queries().DeleteAllNotifications(ctx); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// Count returns the total number of archived notifications.
func (s *ArchiveStore) Count(ctx context.Context) (int64, error) {
	count, err := s.db.Queries().CountNotifications(ctx)
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}

func rowToEntry(row db.Notification) feed.ArchiveEntry {
	return feed.ArchiveEntry{
		Notification: feed.Notification{
			ID:        row.ExternalID,
			Title:     row.Title,
			Content:   row.Content,
			User:      row.User,
			CreatedAt: time.Unix(0, row.CreatedAt),
		},
		Channel: feed.Channel(row.Channel),
	}
}
