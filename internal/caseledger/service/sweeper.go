package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"koe/internal/caseledger/models"
	"koe/internal/caseledger/projection"
	dErrors "koe/pkg/domain-errors"
)

// passiveNamespace seeds deterministic ids for recorded passive
// acceptances so two sweepers racing on one case produce the same event.
var passiveNamespace = uuid.MustParse("4f1c2a8e-6a55-4f0e-9d3b-2c7a5e1b9f60")

// RecordPassiveAcceptances appends basis.passively_accepted for every claim
// of projectID whose basis window has run out. Cases that moved on in the
// meantime are skipped. Returns the number of acceptances recorded.
func (s *Service) RecordPassiveAcceptances(ctx context.Context, projectID string) (int, error) {
	if !s.Rules().PassiveAcceptance.Enabled {
		return 0, nil
	}
	refs, err := s.events.ListCases(ctx, projectID)
	if err != nil {
		return 0, translate(err)
	}

	now := s.now(ctx)
	recorded := 0
	for _, ref := range refs {
		if ref.Kind != models.KindClaim {
			continue
		}
		if err := ctx.Err(); err != nil {
			return recorded, dErrors.Wrap(err, dErrors.CodeTimeout, "sweep cancelled")
		}
		state, err := s.project(ctx, ref.CaseID)
		if err != nil {
			return recorded, err
		}
		due, ok := projection.PassiveAcceptanceDue(state, now, s.Rules())
		if !ok {
			continue
		}

		id := uuid.NewSHA1(passiveNamespace, []byte(fmt.Sprintf("%s/%d", ref.CaseID, state.Version))).String()
		_, err = s.Submit(ctx, models.SystemActor, ref.CaseID, newSubmission(
			models.TypeBasisPassivelyAccepted, due,
			[]SubmitOption{WithEventID(id), WithExpectedVersion(state.Version)},
		))
		switch {
		case err == nil:
			recorded++
			s.metrics.IncrementPassiveAcceptance()
		case dErrors.Is(err, dErrors.CodeConcurrency),
			dErrors.Is(err, dErrors.CodeConflict):
			// Another writer got there first.
		case dErrors.Is(err, dErrors.CodeIllegalTransition):
			s.logWarn(ctx, "passive acceptance due but not recordable",
				"case_id", ref.CaseID,
				"status", state.Status,
				"version", state.Version,
				"error", err,
			)
		default:
			return recorded, err
		}
	}
	return recorded, nil
}

// RunSweeper records passive acceptances across all projects every
// interval until ctx is cancelled.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.RecordPassiveAcceptances(ctx, "")
			if err != nil {
				s.logWarn(ctx, "passive acceptance sweep failed", "error", err)
				continue
			}
			if n > 0 {
				s.logAudit(ctx, "passive_acceptances_recorded", "count", n)
			}
		}
	}
}
