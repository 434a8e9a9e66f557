package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/scribe/internal/core/notify"
	"github.com/colonyops/scribe/internal/core/styles"
	tuinotify "github.com/colonyops/scribe/internal/tui/notify"
)

// stubStore is a notify.Store that can be told to fail.
type stubStore struct {
	items    []notify.Notification
	nextID   int64
	listErr  error
	clearErr error
}

func (s *stubStore) Save(_ context.Context, n notify.Notification) (int64, error) {
	s.nextID++
	n.ID = s.nextID
	s.items = append(s.items, n)
	return n.ID, nil
}

func (s *stubStore) List(_ context.Context) ([]notify.Notification, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]notify.Notification, len(s.items))
	for i, n := range s.items {
		out[len(s.items)-1-i] = n
	}
	return out, nil
}

func (s *stubStore) Clear(_ context.Context) error {
	if s.clearErr != nil {
		return s.clearErr
	}
	s.items = nil
	return nil
}

func (s *stubStore) Count(_ context.Context) (int64, error) {
	return int64(len(s.items)), nil
}

func TestNotificationModal_History(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		m := NewNotificationModal(tuinotify.NewBus(&stubStore{}), 100, 40)
		assert.Contains(t, m.viewport.View(), "No notifications")
	})

	t.Run("without a store", func(t *testing.T) {
		m := NewNotificationModal(tuinotify.NewBus(nil), 100, 40)
		assert.Contains(t, m.viewport.View(), "No notifications")
	})

	t.Run("populated", func(t *testing.T) {
		bus := tuinotify.NewBus(&stubStore{})
		bus.Infof("analysis", "first message")
		bus.Warnf("rewrite", "second message")

		out := ansi.Strip(NewNotificationModal(bus, 100, 40).viewport.View())
		assert.Contains(t, out, "[analysis] first message")
		assert.Contains(t, out, "[rewrite] second message")
	})

	t.Run("list error", func(t *testing.T) {
		bus := tuinotify.NewBus(&stubStore{listErr: errors.New("db connection failed")})

		out := NewNotificationModal(bus, 100, 40).viewport.View()
		assert.Contains(t, out, "failed to load notifications")
		assert.Contains(t, out, "db connection failed")
	})
}

func TestNotificationModal_Clear(t *testing.T) {
	bus := tuinotify.NewBus(&stubStore{})
	bus.Infof("editor", "will be cleared")

	m := NewNotificationModal(bus, 100, 40)
	require.Contains(t, m.viewport.View(), "will be cleared")

	require.NoError(t, m.Clear())
	assert.Contains(t, m.viewport.View(), "No notifications")

	failing := NewNotificationModal(tuinotify.NewBus(&stubStore{clearErr: errors.New("clear failed")}), 100, 40)
	assert.ErrorContains(t, failing.Clear(), "clear failed")
}

func TestFormatNotification(t *testing.T) {
	now := time.Date(2026, 1, 15, 14, 30, 45, 0, time.UTC)

	tests := []struct {
		level notify.Level
		icon  string
	}{
		{notify.LevelInfo, styles.IconInfo},
		{notify.LevelWarning, styles.IconWarning},
		{notify.LevelError, styles.IconError},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			out := formatNotification(notify.Notification{
				Level:     tt.level,
				Message:   "test",
				CreatedAt: now,
			})
			assert.Contains(t, out, tt.icon)
			assert.Contains(t, out, "14:30:45")
			assert.Contains(t, out, "test")
		})
	}
}
