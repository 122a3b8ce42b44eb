package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"koe/internal/caseledger/models"
	"koe/internal/caseledger/projection"
	dErrors "koe/pkg/domain-errors"
)

// projectionConcurrency bounds parallel replays in list and rebuild calls.
const projectionConcurrency = 8

// CaseSummary is one row of a case listing.
type CaseSummary struct {
	CaseID           string          `json:"case_id"`
	ProjectID        string          `json:"project_id"`
	Kind             models.CaseKind `json:"kind"`
	Status           models.Status   `json:"status"`
	ActiveTracks     []models.Track  `json:"active_tracks"`
	Title            string          `json:"title,omitempty"`
	Version          int64           `json:"version"`
	RequiresRevision bool            `json:"requires_revision"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Related lists the relations touching one case in both directions.
type Related struct {
	// ReferencedBy holds relations from acceleration and change order cases
	// that build on this case.
	ReferencedBy []models.Relation `json:"referenced_by"`
	// References holds relations from this case to the claims it builds on.
	References []models.Relation `json:"references"`
}

// GetCaseState returns the projection of caseID with time-derived facts
// such as passive acceptance evaluated at the current time.
func (s *Service) GetCaseState(ctx context.Context, caseID string) (projection.State, error) {
	state, err := s.project(ctx, caseID)
	if err != nil {
		return projection.State{}, err
	}
	if !state.Exists() {
		return projection.State{}, dErrors.New(dErrors.CodeNotFound, "case "+caseID+" not found")
	}
	return projection.Evaluate(state, s.now(ctx), s.Rules()), nil
}

// GetTimeline renders the log of caseID for display.
func (s *Service) GetTimeline(ctx context.Context, caseID string) ([]projection.Entry, error) {
	events, err := s.events.ReadAll(ctx, caseID)
	if err != nil {
		return nil, translate(err)
	}
	if len(events) == 0 {
		return nil, dErrors.New(dErrors.CodeNotFound, "case "+caseID+" not found")
	}
	return projection.Timeline(events), nil
}

// ListCases summarizes the cases of a project in creation order.
func (s *Service) ListCases(ctx context.Context, projectID string) ([]CaseSummary, error) {
	ctx, span := s.tracer.Start(ctx, "caseledger.ListCases", trace.WithAttributes(
		attribute.String("project_id", projectID),
	))
	defer span.End()

	refs, err := s.events.ListCases(ctx, projectID)
	if err != nil {
		span.RecordError(err)
		return nil, translate(err)
	}

	out := make([]CaseSummary, len(refs))
	now := s.now(ctx)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(projectionConcurrency)
	for i, ref := range refs {
		g.Go(func() error {
			state, err := s.project(gctx, ref.CaseID)
			if err != nil {
				return err
			}
			state = projection.Evaluate(state, now, s.Rules())
			out[i] = CaseSummary{
				CaseID:           state.CaseID,
				ProjectID:        state.ProjectID,
				Kind:             state.Kind,
				Status:           state.Status,
				ActiveTracks:     state.ActiveTracks,
				Title:            state.Title,
				Version:          state.Version,
				RequiresRevision: state.Deadline.RequiresRevision || state.Compensation.RequiresRevision,
				CreatedAt:        state.CreatedAt,
				UpdatedAt:        state.UpdatedAt,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return out, nil
}

// FindRelated returns the relations in which caseID takes part. A case
// with no relations yields empty lists, not an error.
func (s *Service) FindRelated(ctx context.Context, caseID string, kind *models.RelationKind) (Related, error) {
	if kind != nil && !kind.IsValid() {
		return Related{}, dErrors.Validation("invalid relation kind", dErrors.FieldError{
			Field: "kind", Message: "unknown relation kind " + string(*kind),
		})
	}
	referencedBy, err := s.relations.FindByTarget(ctx, caseID, kind)
	if err != nil {
		return Related{}, translate(err)
	}
	references, err := s.relations.FindBySource(ctx, caseID)
	if err != nil {
		return Related{}, translate(err)
	}
	if kind != nil {
		filtered := references[:0:0]
		for _, r := range references {
			if r.Kind == *kind {
				filtered = append(filtered, r)
			}
		}
		references = filtered
	}
	return Related{ReferencedBy: referencedBy, References: references}, nil
}

// RebuildRelations replays every case of a project and records the
// relations its events establish. Recording is idempotent, so the index
// can be rebuilt at any time. Returns the number of relations seen.
func (s *Service) RebuildRelations(ctx context.Context, projectID string) (int, error) {
	refs, err := s.events.ListCases(ctx, projectID)
	if err != nil {
		return 0, translate(err)
	}

	counts := make([]int, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(projectionConcurrency)
	for i, ref := range refs {
		if ref.Kind == models.KindClaim {
			continue
		}
		g.Go(func() error {
			events, err := s.events.ReadAll(gctx, ref.CaseID)
			if err != nil {
				return err
			}
			for _, evt := range events {
				relations, err := projection.RelationsOf(evt)
				if err != nil {
					return err
				}
				for _, r := range relations {
					if err := s.relations.Record(gctx, r); err != nil {
						return err
					}
					counts[i]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, dErrors.Wrap(err, dErrors.CodeTimeout, "relation rebuild cancelled")
		}
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to rebuild relations")
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	s.logAudit(ctx, "relations_rebuilt", "project_id", projectID, "relations", total)
	return total, nil
}
