package db

import "context"

const insertNotification = `
INSERT INTO notifications (level, source, message, created_at) VALUES (?, ?, ?, ?)
RETURNING id
`

// InsertNotificationParams holds the columns of a new notification.
type InsertNotificationParams struct {
	Level     string
	Source    string
	Message   string
	CreatedAt int64
}

// InsertNotification stores a notification and returns its ID.
func (q *Queries) InsertNotification(ctx context.Context, arg InsertNotificationParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertNotification, arg.Level, arg.Source, arg.Message, arg.CreatedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listNotifications = `
SELECT id, level, source, message, created_at FROM notifications
ORDER BY created_at DESC, id DESC
`

// ListNotifications returns notifications newest first.
func (q *Queries) ListNotifications(ctx context.Context) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx, listNotifications)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Notification
	for rows.Next() {
		var i Notification
		if err := rows.Scan(&i.ID, &i.Level, &i.Source, &i.Message, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAllNotifications = `DELETE FROM notifications`

// DeleteAllNotifications empties the notifications table.
func (q *Queries) DeleteAllNotifications(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllNotifications)
	return err
}

const countNotifications = `SELECT COUNT(*) FROM notifications`

// CountNotifications returns the number of stored notifications.
func (q *Queries) CountNotifications(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countNotifications)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const pruneNotifications = `
DELETE FROM notifications
WHERE id NOT IN (SELECT id FROM notifications ORDER BY id DESC LIMIT ?)
`

// PruneNotifications keeps only the newest keep notifications.
func (q *Queries) PruneNotifications(ctx context.Context, keep int64) error {
	_, err := q.db.ExecContext(ctx, pruneNotifications, keep)
	return err
}
