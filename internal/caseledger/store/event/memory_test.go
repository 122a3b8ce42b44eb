package event

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"koe/internal/caseledger/ledgertest"
	"koe/internal/caseledger/models"
	"koe/pkg/platform/sentinel"
)

type InMemorySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemorySuite) newEvent(caseID string, typ models.EventType, payload any) models.Event {
	evt, err := models.NewEvent(uuid.NewString(), "", caseID, typ, ledgertest.Epoch, ledgertest.Contractor, payload)
	s.Require().NoError(err)
	return evt
}

func (s *InMemorySuite) create(caseID string) models.Event {
	stored, err := s.store.Append(s.ctx, caseID, 0,
		s.newEvent(caseID, models.TypeCaseCreated, ledgertest.Created("Piling")))
	s.Require().NoError(err)
	return stored
}

func (s *InMemorySuite) TestAppend() {
	s.Run("assigns gapless versions and envelope fields", func() {
		first := s.create("case-1")
		s.Equal(int64(1), first.Version)
		s.Equal("/projects/default/cases/case-1", first.Source)
		s.Equal(models.DefaultProjectID, first.ProjectID)

		second, err := s.store.Append(s.ctx, "case-1", 1,
			s.newEvent("case-1", models.TypeBasisResponse, ledgertest.BasisApproved()))
		s.Require().NoError(err)
		s.Equal(int64(2), second.Version)
	})

	s.Run("stale expected version conflicts without side effects", func() {
		_, err := s.store.Append(s.ctx, "case-1", 1,
			s.newEvent("case-1", models.TypeBasisResponse, ledgertest.BasisApproved()))
		s.ErrorIs(err, ErrConcurrencyConflict)
		s.ErrorIs(err, sentinel.ErrConflict)

		v, err := s.store.CurrentVersion(s.ctx, "case-1")
		s.Require().NoError(err)
		s.Equal(int64(2), v)
	})

	s.Run("duplicate event id", func() {
		evt := s.newEvent("case-1", models.TypeBasisUpdated, models.BasisUpdated{Description: "x"})
		_, err := s.store.Append(s.ctx, "case-1", 2, evt)
		s.Require().NoError(err)
		_, err = s.store.Append(s.ctx, "case-1", 3, evt)
		s.ErrorIs(err, ErrDuplicateEvent)
	})

	s.Run("non-creation event on unknown case", func() {
		_, err := s.store.Append(s.ctx, "ghost", 0,
			s.newEvent("ghost", models.TypeBasisResponse, ledgertest.BasisApproved()))
		s.ErrorIs(err, ErrUnknownCase)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("creation on existing case", func() {
		_, err := s.store.Append(s.ctx, "case-1", 3,
			s.newEvent("case-1", models.TypeCaseCreated, ledgertest.Created("Again")))
		s.ErrorIs(err, ErrConcurrencyConflict)
	})

	s.Run("event for another case", func() {
		_, err := s.store.Append(s.ctx, "case-2", 0,
			s.newEvent("case-1", models.TypeCaseCreated, ledgertest.Created("Mixed")))
		s.Error(err)
	})
}

// TestConcurrentAppend races writers on the same version; exactly one wins.
func (s *InMemorySuite) TestConcurrentAppend() {
	s.create("case-1")

	const writers = 32
	var (
		wg        sync.WaitGroup
		wins      atomic.Int32
		conflicts atomic.Int32
	)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Append(s.ctx, "case-1", 1,
				s.newEvent("case-1", models.TypeBasisResponse, ledgertest.BasisApproved()))
			switch err {
			case nil:
				wins.Add(1)
			case ErrConcurrencyConflict:
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
	s.Equal(int32(writers-1), conflicts.Load())
	events, err := s.store.ReadAll(s.ctx, "case-1")
	s.Require().NoError(err)
	s.Len(events, 2)
}

func (s *InMemorySuite) TestReads() {
	s.create("case-1")
	for v := int64(1); v < 5; v++ {
		_, err := s.store.Append(s.ctx, "case-1", v,
			s.newEvent("case-1", models.TypeBasisUpdated, models.BasisUpdated{Description: "rev"}))
		s.Require().NoError(err)
	}

	all, err := s.store.ReadAll(s.ctx, "case-1")
	s.Require().NoError(err)
	s.Len(all, 5)
	for i, evt := range all {
		s.Equal(int64(i+1), evt.Version)
	}

	since, err := s.store.ReadSince(s.ctx, "case-1", 3)
	s.Require().NoError(err)
	s.Len(since, 2)
	s.Equal(int64(4), since[0].Version)

	page, err := s.store.ReadPage(s.ctx, "case-1", 1, 2)
	s.Require().NoError(err)
	s.Len(page, 2)
	s.Equal(int64(2), page[0].Version)

	empty, err := s.store.ReadSince(s.ctx, "case-1", 9)
	s.Require().NoError(err)
	s.Empty(empty)

	got, err := s.store.Get(s.ctx, all[2].ID)
	s.Require().NoError(err)
	s.Equal(all[2], got)

	_, err = s.store.Get(s.ctx, "missing")
	s.ErrorIs(err, ErrUnknownEvent)
}

func (s *InMemorySuite) TestListCases() {
	s.create("case-1")
	evt := s.newEvent("acc-1", models.TypeAccelerationDeclared, map[string]any{})
	evt.ProjectID = "p-2"
	evt.Source = ""
	_, err := s.store.Append(s.ctx, "acc-1", 0, evt)
	s.Require().NoError(err)

	all, err := s.store.ListCases(s.ctx, "")
	s.Require().NoError(err)
	s.Len(all, 2)

	p2, err := s.store.ListCases(s.ctx, "p-2")
	s.Require().NoError(err)
	s.Require().Len(p2, 1)
	s.Equal("acc-1", p2[0].CaseID)
	s.Equal(models.KindAcceleration, p2[0].Kind)
}
