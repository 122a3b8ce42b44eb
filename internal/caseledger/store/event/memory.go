package event

import (
	"context"
	"sync"

	"koe/internal/caseledger/models"
)

// InMemory is a process-local event log for tests and development.
type InMemory struct {
	mu     sync.RWMutex
	byCase map[string][]models.Event
	byID   map[string]models.Event
	cases  []CaseRef
}

// NewInMemory returns an empty log.
func NewInMemory() *InMemory {
	return &InMemory{
		byCase: make(map[string][]models.Event),
		byID:   make(map[string]models.Event),
	}
}

// Append stores evt as version expectedVersion+1 if the case is still at
// expectedVersion.
func (s *InMemory) Append(_ context.Context, caseID string, expectedVersion int64, evt models.Event) (models.Event, error) {
	if err := checkAppend(caseID, expectedVersion, evt); err != nil {
		return models.Event{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[evt.ID]; ok {
		return models.Event{}, ErrDuplicateEvent
	}
	current := int64(len(s.byCase[caseID]))
	if current == 0 && !evt.Type.IsCreation() {
		return models.Event{}, ErrUnknownCase
	}
	if current != expectedVersion {
		return models.Event{}, ErrConcurrencyConflict
	}
	if current > 0 && evt.Type.IsCreation() {
		return models.Event{}, ErrConcurrencyConflict
	}

	stored := stamp(caseID, expectedVersion, evt)
	s.byCase[caseID] = append(s.byCase[caseID], stored)
	s.byID[stored.ID] = stored
	if stored.Version == 1 {
		kind, _ := stored.Type.Kind()
		s.cases = append(s.cases, CaseRef{
			CaseID: caseID, ProjectID: stored.ProjectID, Kind: kind, CreatedAt: stored.Time,
		})
	}
	return stored, nil
}

// ReadAll returns the full log of caseID.
func (s *InMemory) ReadAll(ctx context.Context, caseID string) ([]models.Event, error) {
	return s.ReadSince(ctx, caseID, 0)
}

// ReadSince returns events with version > version.
func (s *InMemory) ReadSince(ctx context.Context, caseID string, version int64) ([]models.Event, error) {
	return s.ReadPage(ctx, caseID, version, 0)
}

// ReadPage returns at most limit events with version > after. A limit of 0
// means no limit.
func (s *InMemory) ReadPage(_ context.Context, caseID string, after int64, limit int) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log := s.byCase[caseID]
	if after < 0 {
		after = 0
	}
	if after >= int64(len(log)) {
		return []models.Event{}, nil
	}
	page := log[after:]
	if limit > 0 && len(page) > limit {
		page = page[:limit]
	}
	return append([]models.Event(nil), page...), nil
}

// CurrentVersion returns the highest stored version, 0 for unknown cases.
func (s *InMemory) CurrentVersion(_ context.Context, caseID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byCase[caseID])), nil
}

// ListCases returns cases in creation order. An empty projectID lists all
// projects.
func (s *InMemory) ListCases(_ context.Context, projectID string) ([]CaseRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CaseRef, 0, len(s.cases))
	for _, c := range s.cases {
		if projectID == "" || c.ProjectID == models.ProjectOrDefault(projectID) {
			out = append(out, c)
		}
	}
	return out, nil
}

// Get returns a stored event by id.
func (s *InMemory) Get(_ context.Context, eventID string) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	evt, ok := s.byID[eventID]
	if !ok {
		return models.Event{}, ErrUnknownEvent
	}
	return evt, nil
}
