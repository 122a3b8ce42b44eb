package ratelimit

import (
	"context"
	"sync"
	"time"
)

// InMemory keeps one sliding window per key in process memory.
type InMemory struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	clock   func() time.Time
}

func NewInMemory() *InMemory {
	return NewInMemoryWithClock(time.Now)
}

func NewInMemoryWithClock(clock func() time.Time) *InMemory {
	return &InMemory{windows: make(map[string][]time.Time), clock: clock}
}

func (s *InMemory) Allow(_ context.Context, key string, limit int, window time.Duration) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	hits := prune(s.windows[key], now.Add(-window))
	res := Result{Limit: limit, ResetAt: now.Add(window)}
	if len(hits) > 0 {
		res.ResetAt = hits[0].Add(window)
	}
	if len(hits) >= limit {
		s.windows[key] = hits
		return res, nil
	}

	hits = append(hits, now)
	s.windows[key] = hits
	res.Allowed = true
	res.Remaining = limit - len(hits)
	res.ResetAt = hits[0].Add(window)
	return res, nil
}

// prune drops hits at or before cutoff. hits is sorted.
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	return hits[i:]
}
