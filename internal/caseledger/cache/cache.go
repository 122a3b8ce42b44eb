// Package cache keeps folded projections keyed by case id and version so
// reads only replay the events appended since the cached version.
package cache

import (
	"context"
	"sync"

	"koe/internal/caseledger/projection"
)

// Memory is a process-local projection cache.
type Memory struct {
	mu     sync.RWMutex
	states map[string]projection.State
}

// NewMemory returns an empty cache.
func NewMemory() *Memory {
	return &Memory{states: make(map[string]projection.State)}
}

// Get returns the cached projection of caseID.
func (m *Memory) Get(_ context.Context, caseID string) (projection.State, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.states[caseID]
	if !ok {
		return projection.State{}, false, nil
	}
	return s.Clone(), true, nil
}

// Put stores s unless a projection at the same or a later version is
// already cached.
func (m *Memory) Put(_ context.Context, s projection.State) error {
	if !s.Exists() {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.states[s.CaseID]; ok && cur.Version >= s.Version {
		return nil
	}
	m.states[s.CaseID] = s.Clone()
	return nil
}

// Invalidate drops the cached projection of caseID.
func (m *Memory) Invalidate(_ context.Context, caseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, caseID)
	return nil
}
