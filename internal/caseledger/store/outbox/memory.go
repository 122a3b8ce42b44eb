package outbox

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"koe/pkg/platform/sentinel"
)

// InMemory keeps outbox rows in insertion order.
type InMemory struct {
	mu      sync.Mutex
	entries []Entry
	index   map[uuid.UUID]int
}

// NewInMemory returns an empty outbox.
func NewInMemory() *InMemory {
	return &InMemory{index: make(map[uuid.UUID]int)}
}

// Append adds e. Appending an id twice is a no-op.
func (s *InMemory) Append(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[e.ID]; ok {
		return nil
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.index[e.ID] = len(s.entries)
	s.entries = append(s.entries, e)
	return nil
}

// FetchUnpublished returns up to limit unpublished entries, oldest first.
func (s *InMemory) FetchUnpublished(_ context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []Entry{}
	for _, e := range s.entries {
		if e.IsPublished() {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// MarkPublished records delivery of id.
func (s *InMemory) MarkPublished(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	at = at.UTC()
	s.entries[i].PublishedAt = &at
	return nil
}

// MarkFailed counts a failed delivery attempt.
func (s *InMemory) MarkFailed(_ context.Context, id uuid.UUID, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	s.entries[i].Attempts++
	s.entries[i].LastError = reason
	return nil
}

// Pending returns the number of unpublished entries.
func (s *InMemory) Pending(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if !e.IsPublished() {
			n++
		}
	}
	return n, nil
}
