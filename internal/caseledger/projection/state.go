package projection

import (
	"slices"
	"time"

	"koe/internal/caseledger/models"
)

// State is the projected view of one case. It is recomputed from the event
// log and never persisted as truth.
type State struct {
	CaseID        string            `json:"case_id"`
	ProjectID     string            `json:"project_id"`
	Kind          models.CaseKind   `json:"kind"`
	Status        models.Status     `json:"status"`
	ActiveTracks  []models.Track    `json:"active_tracks"`
	Version       int64             `json:"version"`
	Title         string            `json:"title,omitempty"`
	Categories    models.Categories `json:"categories,omitempty"`
	Subcategories models.Categories `json:"subcategories,omitempty"`
	ForceMajeure  bool              `json:"force_majeure"`
	CreatedAt     time.Time         `json:"created_at"`
	CreatedBy     string            `json:"created_by,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at"`

	Basis        BasisTrack        `json:"basis"`
	Deadline     DeadlineTrack     `json:"deadline"`
	Compensation CompensationTrack `json:"compensation"`

	Acceleration *AccelerationState `json:"acceleration,omitempty"`
	ChangeOrder  *ChangeOrderState  `json:"change_order,omitempty"`
	Closure      *Closure           `json:"closure,omitempty"`

	// SkippedEvents counts events of unknown type passed over during replay.
	SkippedEvents int `json:"skipped_events,omitempty"`
}

// Exists reports whether a creation event has been folded.
func (s State) Exists() bool {
	return s.Version > 0 && s.Kind != ""
}

// PassiveAcceptance marks a basis deemed accepted because the owner did not
// respond within the statutory window.
type PassiveAcceptance struct {
	Clause     string    `json:"clause"`
	NoticeDate time.Time `json:"notice_date"`
	DeemedAt   time.Time `json:"deemed_at"`
	// Recorded is true when the acceptance was persisted as an event rather
	// than derived at read time.
	Recorded bool `json:"recorded"`
}

// BasisResponseRecord is one owner response to the basis.
type BasisResponseRecord struct {
	EventID     string              `json:"event_id"`
	Version     int64               `json:"version"`
	RespondedAt time.Time           `json:"responded_at"`
	Outcome     models.BasisOutcome `json:"outcome"`
	Rationale   string              `json:"rationale,omitempty"`
}

// BasisTrack follows the grounds notice.
type BasisTrack struct {
	Status      models.TrackStatus    `json:"status"`
	Description string                `json:"description"`
	NoticeDate  time.Time             `json:"notice_date"`
	Revision    int                   `json:"revision"`
	Responses   []BasisResponseRecord `json:"responses,omitempty"`
	Passive     *PassiveAcceptance    `json:"passive_acceptance,omitempty"`
}

// Revision identifies one submission of a claim track. Numbers start at 1
// and follow submission order; CurrentRevision on the track points at the
// one under consideration.
type Revision struct {
	Number      int       `json:"number"`
	EventID     string    `json:"event_id"`
	Version     int64     `json:"version"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// DeadlineRevision is one submission of the deadline claim.
type DeadlineRevision struct {
	Revision
	Claim models.DeadlineClaim `json:"claim"`
}

// DeadlineResponseRecord is one owner response to a deadline revision.
type DeadlineResponseRecord struct {
	Revision    int                     `json:"revision"`
	EventID     string                  `json:"event_id"`
	Version     int64                   `json:"version"`
	RespondedAt time.Time               `json:"responded_at"`
	Outcome     models.ResponseOutcome  `json:"outcome"`
	Response    models.DeadlineResponse `json:"response"`
}

// DeadlineTrack follows the deadline extension claim.
type DeadlineTrack struct {
	Status           models.TrackStatus       `json:"status"`
	Revisions        []DeadlineRevision       `json:"revisions,omitempty"`
	CurrentRevision  int                      `json:"current_revision"`
	Responses        []DeadlineResponseRecord `json:"responses,omitempty"`
	RequestedDays    int                      `json:"requested_days"`
	ApprovedDays     *int                     `json:"approved_days,omitempty"`
	Outcome          models.ResponseOutcome   `json:"outcome,omitempty"`
	RequiresRevision bool                     `json:"requires_revision"`
}

// Current returns the revision under consideration.
func (t DeadlineTrack) Current() (DeadlineRevision, bool) {
	for _, r := range t.Revisions {
		if r.Number == t.CurrentRevision {
			return r, true
		}
	}
	return DeadlineRevision{}, false
}

// Answered reports whether the latest response belongs to the current
// revision.
func (t DeadlineTrack) Answered() bool {
	if len(t.Responses) == 0 {
		return false
	}
	return t.Responses[len(t.Responses)-1].Revision == t.CurrentRevision
}

// RejectedDays is the part of the current request the owner did not grant.
// A revision still awaiting its response has none.
func (t DeadlineTrack) RejectedDays() int {
	if !t.Answered() || t.ApprovedDays == nil || !t.Outcome.IsRejection() {
		return 0
	}
	return max(t.RequestedDays-*t.ApprovedDays, 0)
}

// CompensationRevision is one submission of the compensation claim.
type CompensationRevision struct {
	Revision
	Claim models.CompensationClaim `json:"claim"`
}

// CompensationResponseRecord is one owner response to a compensation
// revision.
type CompensationResponseRecord struct {
	Revision    int                         `json:"revision"`
	EventID     string                      `json:"event_id"`
	Version     int64                       `json:"version"`
	RespondedAt time.Time                   `json:"responded_at"`
	Response    models.CompensationResponse `json:"response"`
}

// CompensationTrack follows the compensation claim.
type CompensationTrack struct {
	Status           models.TrackStatus           `json:"status"`
	Revisions        []CompensationRevision       `json:"revisions,omitempty"`
	CurrentRevision  int                          `json:"current_revision"`
	Responses        []CompensationResponseRecord `json:"responses,omitempty"`
	Method           models.SettlementMethod      `json:"method,omitempty"`
	RequestedAmount  *int64                       `json:"requested_amount,omitempty"`
	ApprovedAmount   *int64                       `json:"approved_amount,omitempty"`
	Outcome          models.ResponseOutcome       `json:"outcome,omitempty"`
	RequiresRevision bool                         `json:"requires_revision"`
}

// Current returns the revision under consideration.
func (t CompensationTrack) Current() (CompensationRevision, bool) {
	for _, r := range t.Revisions {
		if r.Number == t.CurrentRevision {
			return r, true
		}
	}
	return CompensationRevision{}, false
}

// Answered reports whether the latest response belongs to the current
// revision.
func (t CompensationTrack) Answered() bool {
	if len(t.Responses) == 0 {
		return false
	}
	return t.Responses[len(t.Responses)-1].Revision == t.CurrentRevision
}

// CostEntry is one appended acceleration cost report.
type CostEntry struct {
	Version     int64     `json:"version"`
	ReportedAt  time.Time `json:"reported_at"`
	AccruedCost int64     `json:"accrued_cost"`
	Comment     string    `json:"comment,omitempty"`
}

// AccelerationState follows an acceleration case.
type AccelerationState struct {
	BasisCaseIDs      []string                   `json:"basis_case_ids"`
	Basis             []models.AccelerationBasis `json:"basis,omitempty"`
	RejectedDaysTotal int                        `json:"rejected_days_total"`
	DailyDamagesRate  int64                      `json:"daily_damages_rate"`
	EstimatedCost     int64                      `json:"estimated_cost"`
	CostCap           int64                      `json:"cost_cap"`
	CostHistory       []CostEntry                `json:"cost_history,omitempty"`
	AccruedCost       int64                      `json:"accrued_cost"`
	RecoverableCost   int64                      `json:"recoverable_cost"`
	OverCap           bool                       `json:"over_cap"`
	Stopped           bool                       `json:"stopped"`
	StoppedAt         *time.Time                 `json:"stopped_at,omitempty"`
}

// ChangeOrderDecision is the contractor's answer to an issued change order.
type ChangeOrderDecision struct {
	Version   int64     `json:"version"`
	DecidedAt time.Time `json:"decided_at"`
	Accepted  bool      `json:"accepted"`
	Issue     int       `json:"issue"`
	Comment   string    `json:"comment,omitempty"`
}

// ChangeOrderState follows a change order case.
type ChangeOrderState struct {
	Claims              []models.ChangeOrderClaim `json:"claims"`
	TotalApprovedAmount int64                     `json:"total_approved_amount"`
	TotalApprovedDays   int                       `json:"total_approved_days"`
	Terms               *models.ChangeOrderTerms  `json:"terms,omitempty"`
	Issue               int                       `json:"issue"`
	Decisions           []ChangeOrderDecision     `json:"decisions,omitempty"`
}

// Includes reports whether caseID is already part of the change order.
func (c ChangeOrderState) Includes(caseID string) bool {
	return slices.ContainsFunc(c.Claims, func(cl models.ChangeOrderClaim) bool {
		return cl.CaseID == caseID
	})
}

// Closure records how a case ended.
type Closure struct {
	Withdrawn bool      `json:"withdrawn"`
	Reason    string    `json:"reason,omitempty"`
	ClosedAt  time.Time `json:"closed_at"`
	ClosedBy  string    `json:"closed_by"`
}

// Clone returns a deep copy so folds never share backing arrays.
func (s State) Clone() State {
	out := s
	out.ActiveTracks = slices.Clone(s.ActiveTracks)
	out.Categories = slices.Clone(s.Categories)
	out.Subcategories = slices.Clone(s.Subcategories)
	out.Basis.Responses = slices.Clone(s.Basis.Responses)
	if s.Basis.Passive != nil {
		p := *s.Basis.Passive
		out.Basis.Passive = &p
	}
	out.Deadline.Revisions = slices.Clone(s.Deadline.Revisions)
	out.Deadline.Responses = slices.Clone(s.Deadline.Responses)
	out.Deadline.ApprovedDays = clonePtr(s.Deadline.ApprovedDays)
	out.Compensation.Revisions = slices.Clone(s.Compensation.Revisions)
	out.Compensation.Responses = slices.Clone(s.Compensation.Responses)
	out.Compensation.RequestedAmount = clonePtr(s.Compensation.RequestedAmount)
	out.Compensation.ApprovedAmount = clonePtr(s.Compensation.ApprovedAmount)
	if s.Acceleration != nil {
		a := *s.Acceleration
		a.BasisCaseIDs = slices.Clone(a.BasisCaseIDs)
		a.Basis = slices.Clone(a.Basis)
		a.CostHistory = slices.Clone(a.CostHistory)
		a.StoppedAt = clonePtr(a.StoppedAt)
		out.Acceleration = &a
	}
	if s.ChangeOrder != nil {
		c := *s.ChangeOrder
		c.Claims = slices.Clone(c.Claims)
		c.Decisions = slices.Clone(c.Decisions)
		if c.Terms != nil {
			t := *c.Terms
			t.NewEndDate = clonePtr(t.NewEndDate)
			c.Terms = &t
		}
		out.ChangeOrder = &c
	}
	if s.Closure != nil {
		c := *s.Closure
		out.Closure = &c
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
