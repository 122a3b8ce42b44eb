package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"koe/internal/caseledger/models"
	"koe/internal/caseledger/projection"
	dErrors "koe/pkg/domain-errors"
	kstrings "koe/pkg/platform/strings"
)

// AccelerationRequest declares acceleration on the back of rejected
// deadline claims. RejectedDaysTotal may be left zero to take the total
// from the referenced claims.
type AccelerationRequest struct {
	CaseID               string   `json:"case_id,omitempty"`
	BasisCaseIDs         []string `json:"basis_case_ids"`
	RejectedDaysTotal    int      `json:"rejected_days_total,omitempty"`
	EstimatedCost        int64    `json:"estimated_cost"`
	DailyDamagesRate     int64    `json:"daily_damages_rate"`
	Confirm30PercentRule bool     `json:"confirm_30_percent_rule"`
	Rationale            string   `json:"rationale"`
}

// DeclareAcceleration opens an acceleration case. The rejected days of each
// referenced claim are snapshot into the event so the fold never reads
// another case.
func (s *Service) DeclareAcceleration(ctx context.Context, actor models.Actor, projectID string, req AccelerationRequest, opts ...SubmitOption) (*Result, error) {
	req.BasisCaseIDs = kstrings.DedupeAndTrim(req.BasisCaseIDs)
	var (
		f     dErrors.Fields
		basis = make([]models.AccelerationBasis, 0, len(req.BasisCaseIDs))
		total int
	)
	for _, id := range req.BasisCaseIDs {
		claim, ok, err := s.referencedClaim(ctx, &f, "basis_case_ids", projectID, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		rejected := claim.Deadline.RejectedDays()
		if rejected == 0 {
			f.Add("basis_case_ids", "case "+id+" has no rejected deadline days")
			continue
		}
		basis = append(basis, models.AccelerationBasis{CaseID: id, RejectedDays: rejected})
		total += rejected
	}
	if req.RejectedDaysTotal != 0 && len(f) == 0 && req.RejectedDaysTotal != total {
		f.Add("rejected_days_total", fmt.Sprintf("referenced claims have %d rejected days", total))
	}
	if err := f.Err("invalid acceleration"); err != nil {
		return nil, err
	}

	capPercent := s.Rules().Acceleration.CapPercent
	payload := models.AccelerationDeclared{
		BasisCaseIDs:         req.BasisCaseIDs,
		Basis:                basis,
		RejectedDaysTotal:    total,
		EstimatedCost:        req.EstimatedCost,
		DailyDamagesRate:     req.DailyDamagesRate,
		CapPercent:           capPercent,
		CostCap:              models.AccelerationCap(total, req.DailyDamagesRate, capPercent),
		Confirm30PercentRule: req.Confirm30PercentRule,
		Rationale:            req.Rationale,
	}
	caseID := req.CaseID
	if caseID == "" {
		caseID = uuid.NewString()
	}
	sub := newSubmission(models.TypeAccelerationDeclared, payload, opts)
	sub.ProjectID = projectID
	return s.Submit(ctx, actor, caseID, sub)
}

// UpdateAccelerationCost reports the cumulative accrued cost.
func (s *Service) UpdateAccelerationCost(ctx context.Context, actor models.Actor, caseID string, accruedCost int64, comment string, opts ...SubmitOption) (*Result, error) {
	p := models.AccelerationCostUpdated{AccruedCost: accruedCost, Comment: comment}
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeAccelerationCostUpdated, p, opts))
}

// StopAcceleration ends an acceleration.
func (s *Service) StopAcceleration(ctx context.Context, actor models.Actor, caseID, reason string, opts ...SubmitOption) (*Result, error) {
	p := models.AccelerationStopped{Reason: reason}
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeAccelerationStopped, p, opts))
}

// CreateChangeOrder opens a change order aggregating approved claims. Their
// approved figures are snapshot into the event.
func (s *Service) CreateChangeOrder(ctx context.Context, actor models.Actor, projectID, title string, basisCaseIDs []string, opts ...SubmitOption) (*Result, error) {
	basisCaseIDs = kstrings.DedupeAndTrim(basisCaseIDs)
	var (
		f      dErrors.Fields
		claims = make([]models.ChangeOrderClaim, 0, len(basisCaseIDs))
	)
	for _, id := range basisCaseIDs {
		claim, ok, err := s.approvedClaim(ctx, &f, "basis_case_ids", projectID, id)
		if err != nil {
			return nil, err
		}
		if ok {
			claims = append(claims, claim)
		}
	}
	if err := f.Err("invalid change order"); err != nil {
		return nil, err
	}

	payload := models.ChangeOrderCreated{
		Title:        strings.TrimSpace(title),
		BasisCaseIDs: basisCaseIDs,
		Claims:       claims,
	}
	sub := newSubmission(models.TypeChangeOrderCreated, payload, opts)
	sub.ProjectID = projectID
	return s.Submit(ctx, actor, uuid.NewString(), sub)
}

// AddClaimToChangeOrder includes another approved claim in a change order
// that has not been issued yet.
func (s *Service) AddClaimToChangeOrder(ctx context.Context, actor models.Actor, caseID, claimCaseID string, opts ...SubmitOption) (*Result, error) {
	order, err := s.project(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !order.Exists() {
		return nil, dErrors.New(dErrors.CodeNotFound, "case "+caseID+" not found")
	}
	var f dErrors.Fields
	claim, ok, err := s.approvedClaim(ctx, &f, "claim.case_id", order.ProjectID, claimCaseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, f.Err("invalid change order claim")
	}
	p := models.ChangeOrderClaimAdded{Claim: claim}
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeChangeOrderClaimAdded, p, opts))
}

// IssueChangeOrder fixes the terms of a change order.
func (s *Service) IssueChangeOrder(ctx context.Context, actor models.Actor, caseID string, terms models.ChangeOrderTerms, opts ...SubmitOption) (*Result, error) {
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeChangeOrderIssued, terms, opts))
}

// AcceptChangeOrder is the contractor accepting the issued terms.
func (s *Service) AcceptChangeOrder(ctx context.Context, actor models.Actor, caseID, comment string, opts ...SubmitOption) (*Result, error) {
	p := models.ChangeOrderAccepted{Comment: comment}
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeChangeOrderAccepted, p, opts))
}

// RejectChangeOrder is the contractor rejecting the issued terms.
func (s *Service) RejectChangeOrder(ctx context.Context, actor models.Actor, caseID, rationale string, opts ...SubmitOption) (*Result, error) {
	p := models.ChangeOrderRejected{Rationale: rationale}
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeChangeOrderRejected, p, opts))
}

// ReviseChangeOrder reissues a change order with new terms.
func (s *Service) ReviseChangeOrder(ctx context.Context, actor models.Actor, caseID string, terms models.ChangeOrderTerms, opts ...SubmitOption) (*Result, error) {
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeChangeOrderRevised, terms, opts))
}

// referencedClaim projects a claim named by another case. Problems are
// recorded on f under field; ok is false when the claim cannot be used.
func (s *Service) referencedClaim(ctx context.Context, f *dErrors.Fields, field, projectID, caseID string) (projection.State, bool, error) {
	if strings.TrimSpace(caseID) == "" {
		return projection.State{}, false, nil
	}
	claim, err := s.project(ctx, caseID)
	if err != nil {
		return projection.State{}, false, err
	}
	switch {
	case !claim.Exists():
		f.Add(field, "case "+caseID+" not found")
	case claim.Kind != models.KindClaim:
		f.Add(field, "case "+caseID+" is not a claim")
	case claim.ProjectID != models.ProjectOrDefault(projectID):
		f.Add(field, "case "+caseID+" belongs to another project")
	case claim.Closure != nil:
		f.Add(field, "case "+caseID+" is closed")
	default:
		return claim, true, nil
	}
	return projection.State{}, false, nil
}

// approvedClaim snapshots the approved figures of a claim for a change
// order. Only tracks the owner approved in full count.
func (s *Service) approvedClaim(ctx context.Context, f *dErrors.Fields, field, projectID, caseID string) (models.ChangeOrderClaim, bool, error) {
	claim, ok, err := s.referencedClaim(ctx, f, field, projectID, caseID)
	if err != nil || !ok {
		return models.ChangeOrderClaim{}, false, err
	}
	out := models.ChangeOrderClaim{CaseID: caseID}
	approved := false
	if claim.Deadline.Status == models.TrackApproved && claim.Deadline.ApprovedDays != nil {
		out.ApprovedDays = *claim.Deadline.ApprovedDays
		approved = true
	}
	if claim.Compensation.Status == models.TrackApproved && claim.Compensation.ApprovedAmount != nil {
		out.ApprovedAmount = *claim.Compensation.ApprovedAmount
		approved = true
	}
	if !approved {
		f.Add(field, "case "+caseID+" has no approved claim")
		return models.ChangeOrderClaim{}, false, nil
	}
	return out, true, nil
}
