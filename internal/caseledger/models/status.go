package models

// CaseKind distinguishes the three case aggregates sharing one event log.
type CaseKind string

const (
	KindClaim        CaseKind = "claim"
	KindAcceleration CaseKind = "acceleration"
	KindChangeOrder  CaseKind = "change_order"
)

// Status is the workflow stage of a case.
type Status string

const (
	StatusDraft            Status = "draft"
	StatusBasisPending     Status = "basis_pending"
	StatusClaimSent        Status = "claim_sent"
	StatusAwaitingResponse Status = "awaiting_response"
	StatusAccepted         Status = "accepted"
	StatusSettled          Status = "settled"
	StatusDisputed         Status = "disputed"
	StatusUnderRevision    Status = "under_revision"
	StatusClosed           Status = "closed"
	StatusAccelerating     Status = "accelerating"
	StatusPreparing        Status = "preparing"
)

// IsTerminal reports whether no further events are accepted.
func (s Status) IsTerminal() bool {
	return s == StatusClosed
}

// TrackStatus is the stage of a single claim track (basis, deadline,
// compensation).
type TrackStatus string

const (
	TrackNotClaimed    TrackStatus = "not_claimed"
	TrackNotified      TrackStatus = "notified"
	TrackPending       TrackStatus = "pending"
	TrackAccepted      TrackStatus = "accepted"
	TrackApproved      TrackStatus = "approved"
	TrackDisputed      TrackStatus = "disputed"
	TrackUnderRevision TrackStatus = "under_revision"
)

// Track names a claim track.
type Track string

const (
	TrackBasis        Track = "basis"
	TrackDeadline     Track = "deadline"
	TrackCompensation Track = "compensation"
)
