// Package notify delivers notifications inside the editor process.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/scribe/internal/core/logging"
	"github.com/colonyops/scribe/internal/core/notify"
)

// Subscriber is a callback invoked when a notification is published.
type Subscriber func(notify.Notification)

// Bus is a synchronous in-process notification bus. It dispatches
// notifications to subscribers inline, mirrors them to the log, and keeps
// them in an optional Store. It is meant for the Bubble Tea Update loop.
type Bus struct {
	store       notify.Store
	subscribers []Subscriber
	mu          sync.Mutex
	log         zerolog.Logger
}

// NewBus creates a notification bus. A nil store disables history.
func NewBus(store notify.Store) *Bus {
	return &Bus{
		store: store,
		log:   logging.Component("notify"),
	}
}

// Subscribe registers a callback that will be invoked on every Publish.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Publish stores n, then hands it to every subscriber.
func (b *Bus) Publish(n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	b.log.WithLevel(logLevel(n.Level)).
		Str("source", n.Source).
		Msg(n.Message)

	// Persist first so subscribers see the ID.
	if b.store != nil {
		id, err := b.store.Save(context.Background(), n)
		if err != nil {
			b.log.Error().Err(err).Str("message", n.Message).Msg("failed to persist notification")
		} else {
			n.ID = id
		}
	}

	b.mu.Lock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

// Errorf publishes an error-level notification from source.
func (b *Bus) Errorf(source, format string, args ...any) {
	b.publishf(notify.LevelError, source, format, args...)
}

// Warnf publishes a warning-level notification from source.
func (b *Bus) Warnf(source, format string, args ...any) {
	b.publishf(notify.LevelWarning, source, format, args...)
}

// Infof publishes an info-level notification from source.
func (b *Bus) Infof(source, format string, args ...any) {
	b.publishf(notify.LevelInfo, source, format, args...)
}

func (b *Bus) publishf(level notify.Level, source, format string, args ...any) {
	b.Publish(notify.Notification{
		Level:   level,
		Source:  source,
		Message: fmt.Sprintf(format, args...),
	})
}

// History returns stored notifications, newest first. Returns nil without
// a store.
func (b *Bus) History() ([]notify.Notification, error) {
	if b.store == nil {
		return nil, nil
	}
	return b.store.List(context.Background())
}

// Clear deletes stored notifications.
func (b *Bus) Clear() error {
	if b.store == nil {
		return nil
	}
	return b.store.Clear(context.Background())
}

func logLevel(l notify.Level) zerolog.Level {
	switch l {
	case notify.LevelError:
		return zerolog.ErrorLevel
	case notify.LevelWarning:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
