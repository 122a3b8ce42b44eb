package transition

import (
	"fmt"
	"time"

	"koe/internal/caseledger/models"
	"koe/internal/caseledger/projection"
	"koe/internal/caseledger/rules"
	dErrors "koe/pkg/domain-errors"
)

// Result is the outcome of an accepted decision.
type Result struct {
	From             models.Status
	To               models.Status
	RequiresRevision bool
	// State is the projection after the event, evaluated at the decision
	// time.
	State projection.State
}

// Engine validates candidate events against projected state.
type Engine struct {
	rules rules.Rules
	table Table
}

// Option configures an Engine.
type Option func(*Engine)

// WithTable replaces DefaultTable.
func WithTable(t Table) Option {
	return func(e *Engine) { e.table = t }
}

// New builds an engine evaluating r.
func New(r rules.Rules, opts ...Option) *Engine {
	e := &Engine{rules: r, table: DefaultTable}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the contract rules the engine evaluates.
func (e *Engine) Rules() rules.Rules {
	return e.rules
}

// Decide checks evt against s as of asOf. s is the folded state of the case
// (zero for a new case); evt need not carry a version yet. Errors carry
// dErrors codes: validation_failed, illegal_transition or not_found.
func (e *Engine) Decide(s projection.State, evt models.Event, asOf time.Time) (Result, error) {
	if !evt.Type.IsKnown() {
		return Result{}, dErrors.Validation("unknown event type",
			dErrors.FieldError{Field: "type", Message: "unknown event type " + string(evt.Type)})
	}
	if !Permitted(evt.Type, evt.ActorRole) {
		return Result{}, illegal("role %q may not emit %s", evt.ActorRole, evt.Type)
	}
	if !s.Exists() && !evt.Type.IsCreation() {
		return Result{}, dErrors.New(dErrors.CodeNotFound, "case "+evt.CaseID+" does not exist")
	}
	if s.Exists() {
		if evt.Type.IsCreation() {
			return Result{}, illegal("case %s already exists", evt.CaseID)
		}
		if kind, ok := evt.Type.Kind(); ok && kind != s.Kind {
			return Result{}, illegal("%s does not apply to %s cases", evt.Type, s.Kind)
		}
	}

	current := s
	if evt.Type != models.TypeBasisPassivelyAccepted {
		current = projection.Evaluate(s, asOf, e.rules)
	}
	planned, ok := e.table.Next(current.Status, evt.Type)
	if !ok {
		return Result{}, illegal("%s is not allowed when the case is %s", evt.Type, current.Status)
	}

	payload, err := models.DecodePayload(evt)
	if err != nil {
		return Result{}, dErrors.Validation("malformed payload",
			dErrors.FieldError{Field: "data", Message: err.Error()})
	}
	if err := payload.Validate(); err != nil {
		return Result{}, err
	}
	if err := e.guard(current, evt, payload, asOf); err != nil {
		return Result{}, err
	}

	evt.Version = current.Version + 1
	folded, err := projection.Fold(current, evt)
	if err != nil {
		return Result{}, dErrors.Wrap(err, dErrors.CodeInvariantViolation, "event cannot be folded")
	}
	if planned != Derived && folded.Status != planned {
		return Result{}, dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("%s from %s folded to %s, table expects %s", evt.Type, current.Status, folded.Status, planned))
	}
	next := projection.Evaluate(folded, asOf, e.rules)
	return Result{
		From:             current.Status,
		To:               next.Status,
		RequiresRevision: requiresRevision(evt.Type, next),
		State:            next,
	}, nil
}

func requiresRevision(typ models.EventType, s projection.State) bool {
	switch typ {
	case models.TypeDeadlineResponse:
		return RequiresRevision(s.Deadline.Outcome)
	case models.TypeCompensationResponse:
		return RequiresRevision(s.Compensation.Outcome)
	}
	return false
}

// IsIllegal reports whether err is an illegal transition.
func IsIllegal(err error) bool {
	return dErrors.HasCode(err, dErrors.CodeIllegalTransition)
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	return dErrors.HasCode(err, dErrors.CodeValidation)
}
