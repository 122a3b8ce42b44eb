package relation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"koe/internal/caseledger/models"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	at    time.Time
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.at = time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
}

func (s *InMemorySuite) rel(source, target string, kind models.RelationKind, offset int) models.Relation {
	return models.Relation{
		SourceCaseID: source,
		TargetCaseID: target,
		Kind:         kind,
		EventID:      source + "-evt",
		CreatedAt:    s.at.Add(time.Duration(offset) * time.Hour),
	}
}

// TestAccelerationFanIn records one acceleration built on three claims and
// looks it up from each side.
func (s *InMemorySuite) TestAccelerationFanIn() {
	for i, target := range []string{"A", "B", "C"} {
		s.Require().NoError(s.store.Record(s.ctx, s.rel("X", target, models.RelationAcceleration, i)))
	}

	fromX, err := s.store.FindBySource(s.ctx, "X")
	s.Require().NoError(err)
	s.Require().Len(fromX, 3)
	s.Equal("A", fromX[0].TargetCaseID)
	s.Equal("C", fromX[2].TargetCaseID)

	toB, err := s.store.FindByTarget(s.ctx, "B", nil)
	s.Require().NoError(err)
	s.Require().Len(toB, 1)
	s.Equal("X", toB[0].SourceCaseID)
}

func (s *InMemorySuite) TestRecordIsIdempotent() {
	first := s.rel("X", "A", models.RelationAcceleration, 0)
	s.Require().NoError(s.store.Record(s.ctx, first))
	again := first
	again.EventID = "later"
	s.Require().NoError(s.store.Record(s.ctx, again))

	got, err := s.store.FindByTarget(s.ctx, "A", nil)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("X-evt", got[0].EventID)
}

func (s *InMemorySuite) TestFindByTargetFiltersKind() {
	s.Require().NoError(s.store.Record(s.ctx, s.rel("X", "A", models.RelationAcceleration, 0)))
	s.Require().NoError(s.store.Record(s.ctx, s.rel("EO-1", "A", models.RelationChangeOrder, 1)))

	kind := models.RelationChangeOrder
	got, err := s.store.FindByTarget(s.ctx, "A", &kind)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("EO-1", got[0].SourceCaseID)

	all, err := s.store.FindByTarget(s.ctx, "A", nil)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *InMemorySuite) TestUnknownCaseReturnsEmpty() {
	got, err := s.store.FindBySource(s.ctx, "nobody")
	s.Require().NoError(err)
	s.NotNil(got)
	s.Empty(got)
}

func (s *InMemorySuite) TestRejectsInvalidRelations() {
	s.Error(s.store.Record(s.ctx, s.rel("X", "", models.RelationAcceleration, 0)))
	s.Error(s.store.Record(s.ctx, s.rel("X", "X", models.RelationAcceleration, 0)))
	s.Error(s.store.Record(s.ctx, s.rel("X", "A", models.RelationKind("copy"), 0)))
}
