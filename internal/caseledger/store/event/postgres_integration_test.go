//go:build integration

package event_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"koe/internal/caseledger/ledgertest"
	"koe/internal/caseledger/models"
	"koe/internal/caseledger/store/event"
	txcontext "koe/pkg/platform/tx"
	"koe/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *event.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	store, err := event.NewPostgres(s.postgres.DB)
	s.Require().NoError(err)
	s.store = store
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "case_events", "exemption_events")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) newEvent(caseID string, typ models.EventType, payload any) models.Event {
	evt, err := models.NewEvent(uuid.NewString(), "", caseID, typ, ledgertest.Epoch, ledgertest.Contractor, payload)
	s.Require().NoError(err)
	return evt
}

func (s *PostgresStoreSuite) TestAppendAndRead() {
	ctx := context.Background()
	caseID := uuid.NewString()

	created, err := s.store.Append(ctx, caseID, 0, s.newEvent(caseID, models.TypeCaseCreated, ledgertest.Created("Piling")))
	s.Require().NoError(err)
	resp := s.newEvent(caseID, models.TypeBasisResponse, ledgertest.BasisApproved())
	resp.Comment = "approved on site"
	resp.ReferencesEventID = created.ID
	_, err = s.store.Append(ctx, caseID, 1, resp)
	s.Require().NoError(err)

	events, err := s.store.ReadAll(ctx, caseID)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(created.ID, events[1].ReferencesEventID)
	s.Equal("approved on site", events[1].Comment)
	s.JSONEq(string(resp.Data), string(events[1].Data))

	v, err := s.store.CurrentVersion(ctx, caseID)
	s.Require().NoError(err)
	s.Equal(int64(2), v)

	cases, err := s.store.ListCases(ctx, "")
	s.Require().NoError(err)
	s.Len(cases, 1)
}

func (s *PostgresStoreSuite) TestStaleVersionLeavesNoRow() {
	ctx := context.Background()
	caseID := uuid.NewString()
	_, err := s.store.Append(ctx, caseID, 0, s.newEvent(caseID, models.TypeCaseCreated, ledgertest.Created("Piling")))
	s.Require().NoError(err)
	_, err = s.store.Append(ctx, caseID, 1, s.newEvent(caseID, models.TypeBasisUpdated, models.BasisUpdated{Description: "a"}))
	s.Require().NoError(err)

	_, err = s.store.Append(ctx, caseID, 1, s.newEvent(caseID, models.TypeBasisUpdated, models.BasisUpdated{Description: "b"}))
	s.ErrorIs(err, event.ErrConcurrencyConflict)

	events, err := s.store.ReadAll(ctx, caseID)
	s.Require().NoError(err)
	s.Len(events, 2)
}

func (s *PostgresStoreSuite) TestDuplicateEventID() {
	ctx := context.Background()
	caseID := uuid.NewString()
	evt := s.newEvent(caseID, models.TypeCaseCreated, ledgertest.Created("Piling"))
	_, err := s.store.Append(ctx, caseID, 0, evt)
	s.Require().NoError(err)

	other := uuid.NewString()
	evt.CaseID = other
	_, err = s.store.Append(ctx, other, 0, evt)
	s.ErrorIs(err, event.ErrDuplicateEvent)
}

// TestConcurrentAppend verifies exactly one writer wins a contested version.
func (s *PostgresStoreSuite) TestConcurrentAppend() {
	ctx := context.Background()
	caseID := uuid.NewString()
	_, err := s.store.Append(ctx, caseID, 0, s.newEvent(caseID, models.TypeCaseCreated, ledgertest.Created("Piling")))
	s.Require().NoError(err)

	const goroutines = 20
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Append(ctx, caseID, 1,
				s.newEvent(caseID, models.TypeBasisResponse, ledgertest.BasisApproved()))
			if err == nil {
				successes.Add(1)
				return
			}
			if err == event.ErrConcurrencyConflict {
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}

func (s *PostgresStoreSuite) TestRolledBackTxLeavesNoEvent() {
	ctx := context.Background()
	caseID := uuid.NewString()

	tx, err := s.postgres.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	txCtx := txcontext.WithTx(ctx, tx)
	_, err = s.store.Append(txCtx, caseID, 0, s.newEvent(caseID, models.TypeCaseCreated, ledgertest.Created("Piling")))
	s.Require().NoError(err)
	s.Require().NoError(tx.Rollback())

	v, err := s.store.CurrentVersion(ctx, caseID)
	s.Require().NoError(err)
	s.Zero(v)
}
