package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/scribe/internal/core/notify"
	"github.com/colonyops/scribe/internal/data/db"
)

// DefaultNotificationLimit caps the notification history.
const DefaultNotificationLimit = 200

// NotifyStore implements notify.Store using SQLite. Saving trims the
// history to the newest Limit entries.
type NotifyStore struct {
	db    *db.DB
	limit int64
}

var _ notify.Store = (*NotifyStore)(nil)

// NewNotifyStore creates a SQLite-backed notification store keeping at most
// limit entries. limit <= 0 uses DefaultNotificationLimit.
func NewNotifyStore(db *db.DB, limit int) *NotifyStore {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return &NotifyStore{db: db, limit: int64(limit)}
}

// Save persists a notification and returns its ID.
func (s *NotifyStore) Save(ctx context.Context, n notify.Notification) (int64, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	var id int64
	err := retryBusy(ctx, func() error {
		return s.db.WithTx(ctx, func(q *db.Queries) error {
			var err error
			id, err = q.InsertNotification(ctx, db.InsertNotificationParams{
				Level:     string(n.Level),
				Source:    n.Source,
				Message:   n.Message,
				CreatedAt: n.CreatedAt.UnixNano(),
			})
			if err != nil {
				return err
			}
			return q.PruneNotifications(ctx, s.limit)
		})
	})
	if err != nil {
		return 0, fmt.Errorf("save notification: %w", err)
	}

	return id, nil
}

// List returns the history newest first.
func (s *NotifyStore) List(ctx context.Context) ([]notify.Notification, error) {
	rows, err := s.db.Queries().ListNotifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	out := make([]notify.Notification, len(rows))
	for i, row := range rows {
		out[i] = notify.Notification{
			ID:        row.ID,
			Level:     notify.Level(row.Level),
			Source:    row.Source,
			Message:   row.Message,
			CreatedAt: time.Unix(0, row.CreatedAt),
		}
	}
	return out, nil
}

// Clear deletes the history.
func (s *NotifyStore) Clear(ctx context.Context) error {
	if err := s.db.Queries().DeleteAllNotifications(ctx); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// Count returns the number of stored notifications.
func (s *NotifyStore) Count(ctx context.Context) (int64, error) {
	count, err := s.db.Queries().CountNotifications(ctx)
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}
