package service

import (
	"context"

	"github.com/google/uuid"

	"koe/internal/caseledger/models"
)

// CreateCase opens a claim case in projectID with its basis notice and
// returns the new case in Result.Event.CaseID.
func (s *Service) CreateCase(ctx context.Context, actor models.Actor, projectID string, p models.CaseCreated, opts ...SubmitOption) (*Result, error) {
	p.Categories = models.NormalizeCategories(p.Categories)
	p.Subcategories = models.NormalizeCategories(p.Subcategories)
	sub := newSubmission(models.TypeCaseCreated, p, opts)
	sub.ProjectID = projectID
	return s.Submit(ctx, actor, uuid.NewString(), sub)
}

// SubmitBasisResponse records the owner's position on the basis notice.
func (s *Service) SubmitBasisResponse(ctx context.Context, actor models.Actor, caseID string, p models.BasisResponse, opts ...SubmitOption) (*Result, error) {
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeBasisResponse, p, opts))
}

// UpdateBasis revises a pending or disputed basis notice. The statutory
// response window restarts from the update.
func (s *Service) UpdateBasis(ctx context.Context, actor models.Actor, caseID string, p models.BasisUpdated, opts ...SubmitOption) (*Result, error) {
	p.Categories = models.NormalizeCategories(p.Categories)
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeBasisUpdated, p, opts))
}

// SubmitDeadlineClaim sends the first deadline extension claim.
func (s *Service) SubmitDeadlineClaim(ctx context.Context, actor models.Actor, caseID string, p models.DeadlineClaim, opts ...SubmitOption) (*Result, error) {
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeDeadlineClaimSent, p, opts))
}

// UpdateDeadlineClaim adds a revision to the deadline claim.
func (s *Service) UpdateDeadlineClaim(ctx context.Context, actor models.Actor, caseID string, p models.DeadlineClaim, opts ...SubmitOption) (*Result, error) {
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeDeadlineClaimUpdated, p, opts))
}

// SubmitDeadlineResponse records the owner's answer to the current deadline
// revision.
func (s *Service) SubmitDeadlineResponse(ctx context.Context, actor models.Actor, caseID string, p models.DeadlineResponse, opts ...SubmitOption) (*Result, error) {
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeDeadlineResponse, p, opts))
}

// SubmitCompensationClaim sends the first compensation claim.
func (s *Service) SubmitCompensationClaim(ctx context.Context, actor models.Actor, caseID string, p models.CompensationClaim, opts ...SubmitOption) (*Result, error) {
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeCompensationClaimSent, p, opts))
}

// UpdateCompensationClaim adds a revision to the compensation claim.
func (s *Service) UpdateCompensationClaim(ctx context.Context, actor models.Actor, caseID string, p models.CompensationClaim, opts ...SubmitOption) (*Result, error) {
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeCompensationClaimUpdated, p, opts))
}

// SubmitCompensationResponse records the owner's answer to the current
// compensation revision.
func (s *Service) SubmitCompensationResponse(ctx context.Context, actor models.Actor, caseID string, p models.CompensationResponse, opts ...SubmitOption) (*Result, error) {
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeCompensationResponse, p, opts))
}

// SubmitCombinedClaim sends deadline and compensation claims as one event.
func (s *Service) SubmitCombinedClaim(ctx context.Context, actor models.Actor, caseID string, p models.CombinedClaim, opts ...SubmitOption) (*Result, error) {
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeClaimSent, p, opts))
}

// WithdrawCase is the contractor withdrawing a claim case.
func (s *Service) WithdrawCase(ctx context.Context, actor models.Actor, caseID, reason string, opts ...SubmitOption) (*Result, error) {
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeCaseWithdrawn, models.CaseWithdrawn{Reason: reason}, opts))
}

// CloseCase terminates a case of any kind.
func (s *Service) CloseCase(ctx context.Context, actor models.Actor, caseID, reason string, opts ...SubmitOption) (*Result, error) {
	return s.Submit(ctx, actor, caseID, newSubmission(models.TypeCaseClosed, models.CaseClosed{Reason: reason}, opts))
}
