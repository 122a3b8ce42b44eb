package projection

import (
	"errors"
	"fmt"

	"koe/internal/caseledger/models"
)

var (
	// ErrOutOfSequence is returned when an event does not follow the state's
	// version directly.
	ErrOutOfSequence = errors.New("event out of sequence")
	// ErrNotCreated is returned when a non-creation event precedes creation.
	ErrNotCreated = errors.New("case has no creation event")
	// ErrKindMismatch is returned when an event belongs to another case kind.
	ErrKindMismatch = errors.New("event does not apply to case kind")
)

// Initial is the state before any event.
func Initial() State {
	return State{Status: models.StatusDraft}
}

// Fold applies evt to s. It depends only on its arguments: no clock, no
// randomness, no I/O. Event types outside the catalog advance the version
// and are counted in SkippedEvents.
func Fold(s State, evt models.Event) (State, error) {
	if evt.Version != s.Version+1 {
		return s, fmt.Errorf("%w: case %s at version %d received version %d",
			ErrOutOfSequence, evt.CaseID, s.Version, evt.Version)
	}
	next := s.Clone()
	next.Version = evt.Version
	if !evt.Type.IsKnown() {
		next.SkippedEvents++
		return next, nil
	}
	if s.Kind == "" && !evt.Type.IsCreation() {
		return s, fmt.Errorf("%w: %s at version %d", ErrNotCreated, evt.Type, evt.Version)
	}
	if kind, ok := evt.Type.Kind(); ok && s.Kind != "" && (kind != s.Kind || evt.Type.IsCreation()) {
		return s, fmt.Errorf("%w: %s on %s case", ErrKindMismatch, evt.Type, s.Kind)
	}
	payload, err := models.DecodePayload(evt)
	if err != nil {
		return s, fmt.Errorf("fold %s v%d: %w", evt.CaseID, evt.Version, err)
	}

	next.UpdatedAt = evt.Time
	switch p := payload.(type) {
	case *models.CaseCreated:
		applyCaseCreated(&next, evt, p)
	case *models.AccelerationDeclared:
		applyAccelerationDeclared(&next, evt, p)
	case *models.ChangeOrderCreated:
		applyChangeOrderCreated(&next, evt, p)
	case *models.BasisResponse:
		next.Basis.Responses = append(next.Basis.Responses, BasisResponseRecord{
			EventID:     evt.ID,
			Version:     evt.Version,
			RespondedAt: evt.Time,
			Outcome:     p.Outcome,
			Rationale:   p.Rationale,
		})
		if p.Outcome == models.BasisApproved {
			next.Basis.Status = models.TrackAccepted
		} else {
			next.Basis.Status = models.TrackDisputed
		}
	case *models.BasisUpdated:
		next.Basis.Description = p.Description
		if len(p.Categories) > 0 {
			next.Categories = models.NormalizeCategories(p.Categories)
			next.ForceMajeure = next.Categories.Has(models.CategoryForceMajeure)
		}
		next.Basis.Revision++
		next.Basis.NoticeDate = evt.Time
		next.Basis.Status = models.TrackPending
		next.Basis.Passive = nil
	case *models.BasisPassivelyAccepted:
		next.Basis.Status = models.TrackAccepted
		next.Basis.Passive = &PassiveAcceptance{
			Clause:     p.Clause,
			NoticeDate: p.NoticeDate,
			DeemedAt:   p.DeemedAt,
			Recorded:   true,
		}
	case *models.CombinedClaim:
		if p.Deadline != nil {
			addDeadlineRevision(&next.Deadline, evt, *p.Deadline)
		}
		if p.Compensation != nil {
			addCompensationRevision(&next.Compensation, evt, *p.Compensation)
		}
	case *models.DeadlineClaim:
		addDeadlineRevision(&next.Deadline, evt, *p)
	case *models.DeadlineResponse:
		applyDeadlineResponse(&next.Deadline, evt, *p)
	case *models.CompensationClaim:
		addCompensationRevision(&next.Compensation, evt, *p)
	case *models.CompensationResponse:
		applyCompensationResponse(&next.Compensation, evt, *p)
	case *models.CaseWithdrawn:
		next.Closure = &Closure{Withdrawn: true, Reason: p.Reason, ClosedAt: evt.Time, ClosedBy: evt.Actor}
	case *models.CaseClosed:
		next.Closure = &Closure{Reason: p.Reason, ClosedAt: evt.Time, ClosedBy: evt.Actor}
	case *models.AccelerationCostUpdated:
		applyCostUpdate(next.Acceleration, evt, *p)
	case *models.AccelerationStopped:
		at := evt.Time
		next.Acceleration.Stopped = true
		next.Acceleration.StoppedAt = &at
	case *models.ChangeOrderClaimAdded:
		addChangeOrderClaim(next.ChangeOrder, p.Claim)
	case *models.ChangeOrderTerms:
		terms := *p
		next.ChangeOrder.Terms = &terms
		next.ChangeOrder.Issue++
	case *models.ChangeOrderAccepted:
		next.ChangeOrder.Decisions = append(next.ChangeOrder.Decisions, ChangeOrderDecision{
			Version: evt.Version, DecidedAt: evt.Time, Accepted: true, Issue: next.ChangeOrder.Issue, Comment: p.Comment,
		})
	case *models.ChangeOrderRejected:
		next.ChangeOrder.Decisions = append(next.ChangeOrder.Decisions, ChangeOrderDecision{
			Version: evt.Version, DecidedAt: evt.Time, Issue: next.ChangeOrder.Issue, Comment: p.Rationale,
		})
	}
	next.Status, next.ActiveTracks = derive(next)
	return next, nil
}

func applyCreation(s *State, evt models.Event, kind models.CaseKind) {
	s.CaseID = evt.CaseID
	s.ProjectID = models.ProjectOrDefault(evt.ProjectID)
	s.Kind = kind
	s.CreatedAt = evt.Time
	s.CreatedBy = evt.Actor
}

func applyCaseCreated(s *State, evt models.Event, p *models.CaseCreated) {
	applyCreation(s, evt, models.KindClaim)
	s.Title = p.Title
	s.Categories = models.NormalizeCategories(p.Categories)
	s.Subcategories = models.NormalizeCategories(p.Subcategories)
	s.ForceMajeure = s.Categories.Has(models.CategoryForceMajeure)
	notice := p.NotifiedAt
	if notice.IsZero() {
		notice = evt.Time
	}
	s.Basis = BasisTrack{
		Status:      models.TrackPending,
		Description: p.Description,
		NoticeDate:  notice,
		Revision:    1,
	}
	s.Deadline = DeadlineTrack{Status: models.TrackNotClaimed}
	s.Compensation = CompensationTrack{Status: models.TrackNotClaimed}
}

func applyAccelerationDeclared(s *State, evt models.Event, p *models.AccelerationDeclared) {
	applyCreation(s, evt, models.KindAcceleration)
	costCap := p.CostCap
	if costCap == 0 {
		costCap = models.AccelerationCap(p.RejectedDaysTotal, p.DailyDamagesRate, p.CapPercent)
	}
	s.Acceleration = &AccelerationState{
		BasisCaseIDs:      append([]string(nil), p.BasisCaseIDs...),
		Basis:             append([]models.AccelerationBasis(nil), p.Basis...),
		RejectedDaysTotal: p.RejectedDaysTotal,
		DailyDamagesRate:  p.DailyDamagesRate,
		EstimatedCost:     p.EstimatedCost,
		CostCap:           costCap,
	}
}

func applyChangeOrderCreated(s *State, evt models.Event, p *models.ChangeOrderCreated) {
	applyCreation(s, evt, models.KindChangeOrder)
	s.Title = p.Title
	s.ChangeOrder = &ChangeOrderState{}
	for _, c := range p.Claims {
		addChangeOrderClaim(s.ChangeOrder, c)
	}
}

func addDeadlineRevision(t *DeadlineTrack, evt models.Event, claim models.DeadlineClaim) {
	n := len(t.Revisions) + 1
	t.Revisions = append(t.Revisions, DeadlineRevision{
		Revision: Revision{Number: n, EventID: evt.ID, Version: evt.Version, SubmittedAt: evt.Time},
		Claim:    claim,
	})
	t.CurrentRevision = n
	t.RequestedDays = claim.RequestedDays
	t.ApprovedDays = nil
	t.Outcome = ""
	t.RequiresRevision = false
	if claim.IsItemized() {
		t.Status = models.TrackPending
	} else {
		t.Status = models.TrackNotified
	}
}

func applyDeadlineResponse(t *DeadlineTrack, evt models.Event, resp models.DeadlineResponse) {
	cur, _ := t.Current()
	outcome := resp.Outcome
	if !outcome.IsValid() {
		outcome = resp.ComputeOutcome(cur.Claim)
	}
	t.Responses = append(t.Responses, DeadlineResponseRecord{
		Revision:    cur.Number,
		EventID:     evt.ID,
		Version:     evt.Version,
		RespondedAt: evt.Time,
		Outcome:     outcome,
		Response:    resp,
	})
	days := resp.ApprovedDays
	t.ApprovedDays = &days
	t.Outcome = outcome
	t.RequiresRevision = outcome.RequiresRevision()
	if t.RequiresRevision {
		t.Status = models.TrackUnderRevision
	} else {
		t.Status = models.TrackApproved
	}
}

func addCompensationRevision(t *CompensationTrack, evt models.Event, claim models.CompensationClaim) {
	n := len(t.Revisions) + 1
	t.Revisions = append(t.Revisions, CompensationRevision{
		Revision: Revision{Number: n, EventID: evt.ID, Version: evt.Version, SubmittedAt: evt.Time},
		Claim:    claim,
	})
	t.CurrentRevision = n
	t.Method = claim.Method
	t.RequestedAmount = claim.RequestedAmount()
	t.ApprovedAmount = nil
	t.Outcome = ""
	t.RequiresRevision = false
	t.Status = models.TrackPending
}

func applyCompensationResponse(t *CompensationTrack, evt models.Event, resp models.CompensationResponse) {
	cur, _ := t.Current()
	t.Responses = append(t.Responses, CompensationResponseRecord{
		Revision:    cur.Number,
		EventID:     evt.ID,
		Version:     evt.Version,
		RespondedAt: evt.Time,
		Response:    resp,
	})
	amount := resp.ApprovedAmount
	t.ApprovedAmount = &amount
	t.Outcome = resp.Outcome
	if resp.AcceptedMethod != nil {
		t.Method = *resp.AcceptedMethod
	}
	t.RequiresRevision = resp.Outcome.RequiresRevision()
	if t.RequiresRevision {
		t.Status = models.TrackUnderRevision
	} else {
		t.Status = models.TrackApproved
	}
}

func applyCostUpdate(a *AccelerationState, evt models.Event, p models.AccelerationCostUpdated) {
	a.CostHistory = append(a.CostHistory, CostEntry{
		Version:     evt.Version,
		ReportedAt:  evt.Time,
		AccruedCost: p.AccruedCost,
		Comment:     p.Comment,
	})
	a.AccruedCost = p.AccruedCost
	a.RecoverableCost = min(p.AccruedCost, a.CostCap)
	a.OverCap = p.AccruedCost > a.CostCap
}

func addChangeOrderClaim(c *ChangeOrderState, claim models.ChangeOrderClaim) {
	if c.Includes(claim.CaseID) {
		return
	}
	c.Claims = append(c.Claims, claim)
	c.TotalApprovedAmount += claim.ApprovedAmount
	c.TotalApprovedDays += claim.ApprovedDays
}
