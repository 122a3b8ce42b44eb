package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"koe/internal/caseledger/models"
	"koe/internal/caseledger/projection"
	"koe/internal/caseledger/store/event"
	"koe/internal/caseledger/store/outbox"
	dErrors "koe/pkg/domain-errors"
)

// Submission is a candidate event for one case.
type Submission struct {
	// EventID is kept across conflict retries. Generated when empty.
	EventID           string
	ProjectID         string
	Type              models.EventType
	Payload           any
	Comment           string
	ReferencesEventID string
	// ExpectedVersion pins the version the caller read. A mismatch fails
	// with a concurrency conflict instead of being retried.
	ExpectedVersion *int64
}

// SubmitOption adjusts the submission built by a typed operation.
type SubmitOption func(*Submission)

// WithEventID sets the event id, making client retries detectable.
func WithEventID(id string) SubmitOption {
	return func(s *Submission) { s.EventID = id }
}

// WithComment attaches a free-text comment to the event envelope.
func WithComment(comment string) SubmitOption {
	return func(s *Submission) { s.Comment = comment }
}

// WithReference links the event to an earlier event of the same case.
func WithReference(eventID string) SubmitOption {
	return func(s *Submission) { s.ReferencesEventID = eventID }
}

// WithExpectedVersion fails the submission unless the case is at v.
func WithExpectedVersion(v int64) SubmitOption {
	return func(s *Submission) { s.ExpectedVersion = &v }
}

// Result reports an accepted submission.
type Result struct {
	Event            models.Event     `json:"event"`
	From             models.Status    `json:"from"`
	To               models.Status    `json:"to"`
	RequiresRevision bool             `json:"requires_revision"`
	State            projection.State `json:"state"`
}

func newSubmission(typ models.EventType, payload any, opts []SubmitOption) Submission {
	sub := Submission{Type: typ, Payload: payload}
	for _, opt := range opts {
		opt(&sub)
	}
	return sub
}

// Submit validates sub against the projected case and appends it. Version
// conflicts are retried with fresh state and the same event id unless the
// caller pinned ExpectedVersion.
func (s *Service) Submit(ctx context.Context, actor models.Actor, caseID string, sub Submission) (*Result, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "caseledger.Submit", trace.WithAttributes(
		attribute.String("case_id", caseID),
		attribute.String("event_type", string(sub.Type)),
		attribute.String("actor_role", string(actor.Role)),
	))
	defer span.End()

	res, err := s.submit(ctx, actor, caseID, sub)
	s.metrics.ObserveSubmitLatency(time.Since(start))
	if err != nil {
		code := dErrors.CodeOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(code))
		s.metrics.IncrementRejected(string(sub.Type), string(code))
		s.logAudit(ctx, "case_event_rejected",
			"case_id", caseID,
			"type", sub.Type,
			"actor", actor.ID,
			"actor_role", actor.Role,
			"code", code,
		)
		return nil, err
	}

	span.SetAttributes(attribute.Int64("version", res.Event.Version))
	s.metrics.IncrementAppended(string(sub.Type), string(res.To))
	s.logAudit(ctx, "case_event_appended",
		"case_id", caseID,
		"event_id", res.Event.ID,
		"type", sub.Type,
		"version", res.Event.Version,
		"actor", actor.ID,
		"actor_role", actor.Role,
		"from", res.From,
		"to", res.To,
	)
	return res, nil
}

func (s *Service) submit(ctx context.Context, actor models.Actor, caseID string, sub Submission) (*Result, error) {
	if strings.TrimSpace(caseID) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "case id is required")
	}
	if strings.TrimSpace(actor.ID) == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "actor is required")
	}
	if !actor.Role.IsClaimRole() {
		return nil, dErrors.New(dErrors.CodeForbidden, "role "+string(actor.Role)+" cannot act on claim cases")
	}
	if sub.EventID == "" {
		sub.EventID = uuid.NewString()
	}
	if err := s.checkReference(ctx, caseID, sub.ReferencesEventID); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		res, err := s.attempt(ctx, actor, caseID, sub)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, event.ErrConcurrencyConflict) || sub.ExpectedVersion != nil || attempt >= s.maxAttempts {
			return nil, translate(err)
		}
		s.metrics.IncrementRetry()
		s.logWarn(ctx, "retrying submission after version conflict",
			"case_id", caseID, "event_id", sub.EventID, "attempt", attempt)
	}
}

func (s *Service) checkReference(ctx context.Context, caseID, eventID string) error {
	if eventID == "" {
		return nil
	}
	ref, err := s.events.Get(ctx, eventID)
	if errors.Is(err, event.ErrUnknownEvent) {
		return dErrors.Validation("invalid reference", dErrors.FieldError{
			Field: "references_event_id", Message: "event " + eventID + " does not exist",
		})
	}
	if err != nil {
		return translate(err)
	}
	if ref.CaseID != caseID {
		return dErrors.Validation("invalid reference", dErrors.FieldError{
			Field: "references_event_id", Message: "event " + eventID + " belongs to another case",
		})
	}
	return nil
}

// attempt runs one project, decide and append cycle. Store errors are
// returned untranslated so the caller can tell conflicts apart.
func (s *Service) attempt(ctx context.Context, actor models.Actor, caseID string, sub Submission) (*Result, error) {
	state, err := s.project(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if sub.ExpectedVersion != nil && *sub.ExpectedVersion != state.Version {
		return nil, event.ErrConcurrencyConflict
	}

	projectID := sub.ProjectID
	if state.Exists() {
		if projectID != "" && models.ProjectOrDefault(projectID) != state.ProjectID {
			return nil, dErrors.Validation("invalid project", dErrors.FieldError{
				Field: "project_id", Message: "case belongs to project " + state.ProjectID,
			})
		}
		projectID = state.ProjectID
	}

	now := s.now(ctx)
	evt, err := models.NewEvent(sub.EventID, projectID, caseID, sub.Type, now, actor, sub.Payload)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "payload cannot be encoded")
	}
	evt.Comment = strings.TrimSpace(sub.Comment)
	evt.ReferencesEventID = sub.ReferencesEventID

	decision, err := s.engine.Decide(state, evt, now)
	if err != nil {
		return nil, err
	}

	relations, err := projection.RelationsOf(evt)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to derive relations")
	}
	for _, r := range relations {
		if err := r.Validate(); err != nil {
			return nil, dErrors.Validation("invalid case reference", dErrors.FieldError{
				Field: "basis_case_ids", Message: err.Error(),
			})
		}
	}

	var stored models.Event
	err = s.tx.RunInTx(WithTxCase(ctx, caseID), func(ctx context.Context) error {
		var err error
		stored, err = s.events.Append(ctx, caseID, state.Version, evt)
		if err != nil {
			return err
		}
		for _, r := range relations {
			if err := s.relations.Record(ctx, r); err != nil {
				return fmt.Errorf("record relation %s -> %s: %w", r.SourceCaseID, r.TargetCaseID, err)
			}
		}
		if s.outbox == nil {
			return nil
		}
		entry, err := outbox.NewEntry(stored)
		if err != nil {
			return err
		}
		return s.outbox.Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	if folded, err := projection.Fold(state, stored); err == nil {
		s.cachePut(ctx, folded)
	}

	return &Result{
		Event:            stored,
		From:             decision.From,
		To:               decision.To,
		RequiresRevision: decision.RequiresRevision,
		State:            decision.State,
	}, nil
}

// project folds the log of caseID, starting from the cached projection when
// one is available.
func (s *Service) project(ctx context.Context, caseID string) (projection.State, error) {
	ctx, span := s.tracer.Start(ctx, "caseledger.Project", trace.WithAttributes(
		attribute.String("case_id", caseID),
	))
	defer span.End()

	onUnknown := projection.WithUnknownHandler(func(evt models.Event) {
		s.logWarn(ctx, "skipping unknown event type during replay",
			"case_id", evt.CaseID, "event_id", evt.ID, "type", evt.Type, "version", evt.Version)
	})

	base, hit := projection.Initial(), false
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, caseID)
		switch {
		case err != nil:
			s.logWarn(ctx, "projection cache read failed", "case_id", caseID, "error", err)
		case ok:
			base, hit = cached, true
		}
	}

	state, err := projection.ProjectFrom(ctx, s.events, caseID, base, onUnknown)
	if err != nil && hit {
		// A cached state that no longer lines up with the log is discarded.
		s.logWarn(ctx, "discarding cached projection", "case_id", caseID, "error", err)
		base, hit = projection.Initial(), false
		state, err = projection.ProjectFrom(ctx, s.events, caseID, base, onUnknown)
	}
	if err != nil {
		span.RecordError(err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return projection.State{}, dErrors.Wrap(ctxErr, dErrors.CodeTimeout, "projection cancelled")
		}
		return projection.State{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to project case")
	}

	s.metrics.ObserveReplay(hit, state.Version-base.Version)
	if state.Version > base.Version {
		s.cachePut(ctx, state)
	}
	return state, nil
}

func (s *Service) cachePut(ctx context.Context, state projection.State) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, state); err != nil {
		s.logWarn(ctx, "projection cache write failed", "case_id", state.CaseID, "error", err)
	}
}

// translate maps store facts onto domain error codes.
func translate(err error) error {
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	switch {
	case errors.Is(err, event.ErrConcurrencyConflict):
		return dErrors.Wrap(err, dErrors.CodeConcurrency, "case was modified concurrently, re-read and retry")
	case errors.Is(err, event.ErrDuplicateEvent):
		return dErrors.Wrap(err, dErrors.CodeConflict, "event id has already been recorded")
	case errors.Is(err, event.ErrUnknownCase):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "case not found")
	case errors.Is(err, event.ErrUnknownEvent):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "event not found")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return dErrors.Wrap(err, dErrors.CodeTimeout, "request timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "ledger operation failed")
}
