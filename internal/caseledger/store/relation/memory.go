package relation

import (
	"context"
	"sync"

	"koe/internal/caseledger/models"
)

// InMemory keeps relations in maps keyed by their uniqueness key.
type InMemory struct {
	mu   sync.RWMutex
	rows map[models.RelationKey]models.Relation
}

// NewInMemory returns an empty index.
func NewInMemory() *InMemory {
	return &InMemory{rows: make(map[models.RelationKey]models.Relation)}
}

// Record stores r. Recording an existing key keeps the first row.
func (s *InMemory) Record(_ context.Context, r models.Relation) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[r.Key()]; !ok {
		r.CreatedAt = r.CreatedAt.UTC()
		s.rows[r.Key()] = r
	}
	return nil
}

// FindBySource returns the relations originating at caseID.
func (s *InMemory) FindBySource(_ context.Context, caseID string) ([]models.Relation, error) {
	return s.filter(func(r models.Relation) bool { return r.SourceCaseID == caseID }), nil
}

// FindByTarget returns the relations pointing at caseID, optionally limited
// to one kind.
func (s *InMemory) FindByTarget(_ context.Context, caseID string, kind *models.RelationKind) ([]models.Relation, error) {
	return s.filter(func(r models.Relation) bool {
		return r.TargetCaseID == caseID && (kind == nil || r.Kind == *kind)
	}), nil
}

func (s *InMemory) filter(match func(models.Relation) bool) []models.Relation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Relation{}
	for _, r := range s.rows {
		if match(r) {
			out = append(out, r)
		}
	}
	sortRelations(out)
	return out
}
