package notify

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps the newest notifications in process. The editor uses it
// when decision history is disabled and there is no database.
type MemoryStore struct {
	mu     sync.Mutex
	items  []Notification // oldest first
	nextID int64
	limit  int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store holding at most limit notifications.
// limit <= 0 keeps everything.
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{limit: limit}
}

func (s *MemoryStore) Save(_ context.Context, n Notification) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	s.nextID++
	n.ID = s.nextID
	s.items = append(s.items, n)

	if s.limit > 0 && len(s.items) > s.limit {
		s.items = append([]Notification(nil), s.items[len(s.items)-s.limit:]...)
	}
	return n.ID, nil
}

// List returns the notifications newest first.
func (s *MemoryStore) List(_ context.Context) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.items))
	for i, n := range s.items {
		out[len(s.items)-1-i] = n
	}
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.items)), nil
}
