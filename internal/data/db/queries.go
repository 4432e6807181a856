package db

import (
	"context"
	"database/sql"
)

// Notification is the archive row shape.
type Notification struct {
	ID         int64
	ExternalID string
	Title      string
	Content    string
	User       string
	Channel    string
	CreatedAt  int64 // unix nanoseconds
}

// InsertNotificationParams holds the insert arguments.
type InsertNotificationParams struct {
	ExternalID string
	Title      string
	Content    string
	User       string
	Channel    string
	CreatedAt  int64
}

// Queries is the typed query layer over the archive tables.
type Queries struct {
	db *sql.DB
}

// InsertNotification appends a notification row and returns its id.
func (q *Queries) InsertNotification(ctx context.Context, arg InsertNotificationParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO notifications (external_id, title, content, user, channel, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.ExternalID, arg.Title, arg.Content, arg.User, arg.Channel, arg.CreatedAt,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListNotifications returns rows newest first. A non-positive limit
// returns everything.
func (q *Queries) ListNotifications(ctx context.Context, limit int64) ([]Notification, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, external_id, title, content, user, channel, created_at
		 FROM notifications
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.ExternalID, &n.Title, &n.Content, &n.User, &n.Channel, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountNotifications returns the number of archived rows.
func (q *Queries) CountNotifications(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`).Scan(&count)
	return count, err
}

// DeleteAllNotifications clears the archive.
func (q *Queries) DeleteAllNotifications(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM notifications`)
	return err
}
