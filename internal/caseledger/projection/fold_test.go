package projection

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"koe/internal/caseledger/ledgertest"
	"koe/internal/caseledger/models"
)

// =============================================================================
// Fold Test Suite
// =============================================================================

type FoldSuite struct {
	suite.Suite
	log *ledgertest.Log
}

func TestFoldSuite(t *testing.T) {
	suite.Run(t, new(FoldSuite))
}

func (s *FoldSuite) SetupTest() {
	s.log = ledgertest.NewLog(s.T(), "case-1")
	s.log.Add(models.TypeCaseCreated, ledgertest.Contractor, ledgertest.Created("Foundation redesign"))
}

func (s *FoldSuite) replay() State {
	state, err := Replay(s.log.Events())
	s.Require().NoError(err)
	return state
}

func (s *FoldSuite) TestCaseCreated() {
	state := s.replay()
	s.Equal(models.KindClaim, state.Kind)
	s.Equal(models.StatusBasisPending, state.Status)
	s.Equal(models.TrackPending, state.Basis.Status)
	s.Equal(models.TrackNotClaimed, state.Deadline.Status)
	s.Equal(models.TrackNotClaimed, state.Compensation.Status)
	s.Equal([]models.Track{models.TrackBasis}, state.ActiveTracks)
	s.Equal(ledgertest.Epoch, state.Basis.NoticeDate)
	s.Equal(int64(1), state.Version)
	s.Equal(models.DefaultProjectID, state.ProjectID)
	s.False(state.ForceMajeure)
}

func (s *FoldSuite) TestBasisTrack() {
	s.Run("approved response accepts the basis", func() {
		s.SetupTest()
		s.log.Add(models.TypeBasisResponse, ledgertest.Owner, ledgertest.BasisApproved())
		state := s.replay()
		s.Equal(models.TrackAccepted, state.Basis.Status)
		s.Equal(models.StatusAccepted, state.Status)
		s.Empty(state.ActiveTracks)
	})

	s.Run("rejection disputes and an update reopens", func() {
		s.SetupTest()
		s.log.Add(models.TypeBasisResponse, ledgertest.Owner,
			models.BasisResponse{Outcome: models.BasisRejected, Rationale: "not a change"})
		state := s.replay()
		s.Equal(models.TrackDisputed, state.Basis.Status)
		s.Equal(models.StatusDisputed, state.Status)

		upd := s.log.Add(models.TypeBasisUpdated, ledgertest.Contractor, models.BasisUpdated{
			Description: "Drawings rev C changed the load case",
			Categories:  models.Categories{models.CategoryForceMajeure},
		})
		state = s.replay()
		s.Equal(models.TrackPending, state.Basis.Status)
		s.Equal(2, state.Basis.Revision)
		s.Equal(upd.Time, state.Basis.NoticeDate)
		s.True(state.ForceMajeure)
		s.Equal(models.StatusBasisPending, state.Status)
	})

	s.Run("recorded passive acceptance", func() {
		s.SetupTest()
		s.log.Add(models.TypeBasisPassivelyAccepted, models.SystemActor, models.BasisPassivelyAccepted{
			Clause: "NS 8407 §32.3", NoticeDate: ledgertest.Epoch, DeemedAt: ledgertest.Epoch.AddDate(0, 0, 14),
		})
		state := s.replay()
		s.Equal(models.TrackAccepted, state.Basis.Status)
		s.Require().NotNil(state.Basis.Passive)
		s.True(state.Basis.Passive.Recorded)
		s.Equal("NS 8407 §32.3", state.Basis.Passive.Clause)
	})
}

// TestPartialDeadlineApprovalRoutesToRevision covers a 45 day claim answered
// with 30 approved days.
func (s *FoldSuite) TestPartialDeadlineApprovalRoutesToRevision() {
	s.log.Add(models.TypeDeadlineClaimSent, ledgertest.Contractor, ledgertest.DeadlineClaim(45))
	state := s.replay()
	s.Equal(models.StatusClaimSent, state.Status)
	s.Equal(models.TrackPending, state.Deadline.Status)
	s.Equal(45, state.Deadline.RequestedDays)

	s.log.Add(models.TypeDeadlineResponse, ledgertest.Owner,
		ledgertest.DeadlineResponse(30, models.OutcomePartiallyApproved))
	state = s.replay()

	s.Equal(models.StatusUnderRevision, state.Status)
	s.Equal(models.TrackUnderRevision, state.Deadline.Status)
	s.Require().NotNil(state.Deadline.ApprovedDays)
	s.Equal(30, *state.Deadline.ApprovedDays)
	s.Equal(models.OutcomePartiallyApproved, state.Deadline.Outcome)
	s.True(state.Deadline.RequiresRevision)
	s.Equal(15, state.Deadline.RejectedDays())
	s.Require().Len(state.Deadline.Responses, 1)
	s.Equal(1, state.Deadline.Responses[0].Revision)
	s.Contains(state.ActiveTracks, models.TrackDeadline)
}

func (s *FoldSuite) TestDeadlineRevisionPointer() {
	s.log.Add(models.TypeBasisResponse, ledgertest.Owner, ledgertest.BasisApproved())
	s.log.Add(models.TypeDeadlineClaimSent, ledgertest.Contractor, ledgertest.DeadlineClaim(45))
	s.log.Add(models.TypeDeadlineResponse, ledgertest.Owner,
		ledgertest.DeadlineResponse(30, models.OutcomePartiallyApproved))
	revised := s.log.Add(models.TypeDeadlineClaimUpdated, ledgertest.Contractor, ledgertest.DeadlineClaim(38))

	state := s.replay()
	s.Equal(models.StatusAwaitingResponse, state.Status)
	s.Len(state.Deadline.Revisions, 2)
	s.Equal(2, state.Deadline.CurrentRevision)
	cur, ok := state.Deadline.Current()
	s.Require().True(ok)
	s.Equal(revised.ID, cur.EventID)
	s.Equal(38, cur.Claim.RequestedDays)
	s.Equal(38, state.Deadline.RequestedDays)
	s.False(state.Deadline.RequiresRevision)
	s.False(state.Deadline.Answered())
	s.Nil(state.Deadline.ApprovedDays, "the previous answer does not carry over")
	s.Empty(state.Deadline.Outcome)
	s.Zero(state.Deadline.RejectedDays())

	s.log.Add(models.TypeDeadlineResponse, ledgertest.Owner,
		ledgertest.DeadlineResponse(30, models.OutcomePartiallyApproved))
	state = s.replay()
	s.True(state.Deadline.Answered())
	s.Equal(8, state.Deadline.RejectedDays())

	s.log.Add(models.TypeDeadlineClaimUpdated, ledgertest.Contractor, ledgertest.DeadlineClaim(38))

	s.log.Add(models.TypeDeadlineResponse, ledgertest.Owner,
		ledgertest.DeadlineResponse(38, models.OutcomeApproved))
	state = s.replay()
	s.Equal(models.StatusSettled, state.Status)
	s.Equal(3, state.Deadline.Responses[2].Revision)
}

func (s *FoldSuite) TestCompensationRevisionClearsAnswer() {
	s.log.Add(models.TypeBasisResponse, ledgertest.Owner, ledgertest.BasisApproved())
	s.log.Add(models.TypeCompensationClaimSent, ledgertest.Contractor, ledgertest.CompensationClaim(400_000))
	s.log.Add(models.TypeCompensationResponse, ledgertest.Owner,
		ledgertest.CompensationResponse(250_000, models.OutcomePartiallyApproved))
	s.log.Add(models.TypeCompensationClaimUpdated, ledgertest.Contractor, ledgertest.CompensationClaim(300_000))

	state := s.replay()
	s.Equal(2, state.Compensation.CurrentRevision)
	s.Equal(models.TrackPending, state.Compensation.Status)
	s.False(state.Compensation.Answered())
	s.Nil(state.Compensation.ApprovedAmount)
	s.Empty(state.Compensation.Outcome)
	s.Require().NotNil(state.Compensation.RequestedAmount)
	s.Equal(int64(300_000), *state.Compensation.RequestedAmount)
}

func (s *FoldSuite) TestNeutralNoticeOnly() {
	s.log.Add(models.TypeBasisResponse, ledgertest.Owner, ledgertest.BasisApproved())
	s.log.Add(models.TypeDeadlineClaimSent, ledgertest.Contractor, models.DeadlineClaim{
		NoticeType: models.NoticeNeutral,
		Notices:    models.Notices{ledgertest.Neutral(1)},
	})
	state := s.replay()
	s.Equal(models.TrackNotified, state.Deadline.Status)
	s.Equal(models.StatusAccepted, state.Status)
}

func (s *FoldSuite) TestCompensationTrack() {
	s.log.Add(models.TypeBasisResponse, ledgertest.Owner, ledgertest.BasisApproved())
	claim := ledgertest.CompensationClaim(400_000)
	claim.SpecialClaims = []models.SpecialClaim{{
		Kind: models.SpecialSiteOverhead, Amount: 50_000, NoticeSentAt: ledgertest.Epoch.AddDate(0, 0, 3),
	}}
	s.log.Add(models.TypeCompensationClaimSent, ledgertest.Contractor, claim)

	state := s.replay()
	s.Require().NotNil(state.Compensation.RequestedAmount)
	s.Equal(int64(450_000), *state.Compensation.RequestedAmount)
	s.Equal(models.SettlementAgreedPrice, state.Compensation.Method)
	s.Equal(models.StatusAwaitingResponse, state.Status)

	method := models.SettlementUnitPrices
	resp := ledgertest.CompensationResponse(450_000, models.OutcomeApproved)
	resp.AcceptedMethod = &method
	s.log.Add(models.TypeCompensationResponse, ledgertest.Owner, resp)

	state = s.replay()
	s.Equal(models.TrackApproved, state.Compensation.Status)
	s.Equal(models.SettlementUnitPrices, state.Compensation.Method)
	s.Equal(models.StatusSettled, state.Status)
}

func (s *FoldSuite) TestCombinedClaim() {
	d := ledgertest.DeadlineClaim(10)
	c := ledgertest.CompensationClaim(100_000)
	s.log.Add(models.TypeClaimSent, ledgertest.Contractor, models.CombinedClaim{
		ClaimsDeadline: true, ClaimsCompensation: true, Deadline: &d, Compensation: &c,
	})
	state := s.replay()
	s.Equal(models.TrackPending, state.Deadline.Status)
	s.Equal(models.TrackPending, state.Compensation.Status)
	s.Equal([]models.Track{models.TrackBasis, models.TrackDeadline, models.TrackCompensation}, state.ActiveTracks)
}

// TestRevisionOutcomesRouteToUnderRevision checks every revision code on
// either track, with the other track approved.
func (s *FoldSuite) TestRevisionOutcomesRouteToUnderRevision() {
	codes := []models.ResponseOutcome{
		models.OutcomePartiallyApproved, models.OutcomeRejectedDisputed,
		models.OutcomeRejectedLate, models.OutcomePendingMoreInfo,
	}
	for _, code := range codes {
		s.Run("compensation "+string(code), func() {
			s.SetupTest()
			s.log.Add(models.TypeBasisResponse, ledgertest.Owner, ledgertest.BasisApproved())
			s.log.Add(models.TypeDeadlineClaimSent, ledgertest.Contractor, ledgertest.DeadlineClaim(5))
			s.log.Add(models.TypeDeadlineResponse, ledgertest.Owner,
				ledgertest.DeadlineResponse(5, models.OutcomeApproved))
			s.log.Add(models.TypeCompensationClaimSent, ledgertest.Contractor, ledgertest.CompensationClaim(1000))
			s.log.Add(models.TypeCompensationResponse, ledgertest.Owner, ledgertest.CompensationResponse(0, code))
			s.Equal(models.StatusUnderRevision, s.replay().Status)
		})
	}
}

func (s *FoldSuite) TestClosure() {
	s.log.Add(models.TypeCaseWithdrawn, ledgertest.Contractor, models.CaseWithdrawn{Reason: "settled on site"})
	state := s.replay()
	s.Equal(models.StatusClosed, state.Status)
	s.Require().NotNil(state.Closure)
	s.True(state.Closure.Withdrawn)
	s.Empty(state.ActiveTracks)
}

func (s *FoldSuite) TestSequenceErrors() {
	s.Run("version gap", func() {
		evt := s.log.Next(models.TypeBasisResponse, ledgertest.Owner, ledgertest.BasisApproved())
		evt.Version = 5
		_, err := Fold(s.replay(), evt)
		s.ErrorIs(err, ErrOutOfSequence)
	})

	s.Run("event before creation", func() {
		log := ledgertest.NewLog(s.T(), "case-2")
		evt := log.Next(models.TypeBasisResponse, ledgertest.Owner, ledgertest.BasisApproved())
		_, err := Fold(Initial(), evt)
		s.ErrorIs(err, ErrNotCreated)
	})

	s.Run("event of another case kind", func() {
		evt := s.log.Next(models.TypeAccelerationStopped, ledgertest.Owner, models.AccelerationStopped{})
		_, err := Fold(s.replay(), evt)
		s.ErrorIs(err, ErrKindMismatch)
	})

	s.Run("malformed payload", func() {
		evt := s.log.Next(models.TypeDeadlineClaimSent, ledgertest.Contractor, ledgertest.DeadlineClaim(3))
		evt.Data = []byte(`{"notice_type":"shouted"}`)
		_, err := Fold(s.replay(), evt)
		s.Error(err)
	})
}

func (s *FoldSuite) TestUnknownEventsAreSkipped() {
	s.log.AddRaw("inspection.scheduled", `{"at":"2025-04-01"}`)
	s.log.Add(models.TypeBasisResponse, ledgertest.Owner, ledgertest.BasisApproved())

	var skipped []models.EventType
	state, err := Replay(s.log.Events(), WithUnknownHandler(func(evt models.Event) {
		skipped = append(skipped, evt.Type)
	}))
	s.Require().NoError(err)
	s.Equal([]models.EventType{"inspection.scheduled"}, skipped)
	s.Equal(1, state.SkippedEvents)
	s.Equal(int64(3), state.Version)
	s.Equal(models.StatusAccepted, state.Status)
}

func (s *FoldSuite) TestFoldDoesNotMutateInput() {
	s.log.Add(models.TypeDeadlineClaimSent, ledgertest.Contractor, ledgertest.DeadlineClaim(45))
	before := s.replay()
	snapshot := before.Clone()

	evt := s.log.Next(models.TypeDeadlineClaimUpdated, ledgertest.Contractor, ledgertest.DeadlineClaim(40))
	_, err := Fold(before, evt)
	s.Require().NoError(err)
	s.Equal(snapshot, before)
}
