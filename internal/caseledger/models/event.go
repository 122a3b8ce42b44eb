package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SpecVersion is the CloudEvents specification version of stored records.
const SpecVersion = "1.0"

// TypeNamespace prefixes event types on the wire (CloudEvents "type").
const TypeNamespace = "koe."

// DefaultProjectID scopes cases recorded before projects existed.
const DefaultProjectID = "default"

// EventType identifies the kind of a case event.
type EventType string

// Case lifecycle events.
const (
	TypeCaseCreated   EventType = "case.created"
	TypeCaseWithdrawn EventType = "case.withdrawn"
	TypeCaseClosed    EventType = "case.closed"
)

// Basis (grounds) track events.
const (
	TypeBasisResponse          EventType = "basis.response"
	TypeBasisUpdated           EventType = "basis.updated"
	TypeBasisPassivelyAccepted EventType = "basis.passively_accepted"
)

// Claim events. TypeClaimSent carries a combined deadline/compensation claim.
const (
	TypeClaimSent                EventType = "claim.sent"
	TypeDeadlineClaimSent        EventType = "deadline.claim_sent"
	TypeDeadlineClaimUpdated     EventType = "deadline.claim_updated"
	TypeDeadlineResponse         EventType = "deadline.response"
	TypeCompensationClaimSent    EventType = "compensation.claim_sent"
	TypeCompensationClaimUpdated EventType = "compensation.claim_updated"
	TypeCompensationResponse     EventType = "compensation.response"
)

// Acceleration sub-workflow events.
const (
	TypeAccelerationDeclared    EventType = "acceleration.declared"
	TypeAccelerationCostUpdated EventType = "acceleration.cost_updated"
	TypeAccelerationStopped     EventType = "acceleration.stopped"
)

// Change order (EO) events.
const (
	TypeChangeOrderCreated    EventType = "change_order.created"
	TypeChangeOrderClaimAdded EventType = "change_order.claim_added"
	TypeChangeOrderIssued     EventType = "change_order.issued"
	TypeChangeOrderAccepted   EventType = "change_order.accepted"
	TypeChangeOrderRejected   EventType = "change_order.rejected"
	TypeChangeOrderRevised    EventType = "change_order.revised"
)

var eventKinds = map[EventType]CaseKind{
	TypeCaseCreated:              KindClaim,
	TypeBasisResponse:            KindClaim,
	TypeBasisUpdated:             KindClaim,
	TypeBasisPassivelyAccepted:   KindClaim,
	TypeClaimSent:                KindClaim,
	TypeDeadlineClaimSent:        KindClaim,
	TypeDeadlineClaimUpdated:     KindClaim,
	TypeDeadlineResponse:         KindClaim,
	TypeCompensationClaimSent:    KindClaim,
	TypeCompensationClaimUpdated: KindClaim,
	TypeCompensationResponse:     KindClaim,
	TypeCaseWithdrawn:            KindClaim,

	TypeAccelerationDeclared:    KindAcceleration,
	TypeAccelerationCostUpdated: KindAcceleration,
	TypeAccelerationStopped:     KindAcceleration,

	TypeChangeOrderCreated:    KindChangeOrder,
	TypeChangeOrderClaimAdded: KindChangeOrder,
	TypeChangeOrderIssued:     KindChangeOrder,
	TypeChangeOrderAccepted:   KindChangeOrder,
	TypeChangeOrderRejected:   KindChangeOrder,
	TypeChangeOrderRevised:    KindChangeOrder,
}

// IsKnown reports whether t belongs to the declared catalog.
func (t EventType) IsKnown() bool {
	if t == TypeCaseClosed {
		return true
	}
	_, ok := eventKinds[t]
	return ok
}

// Kind returns the case kind the event type applies to. TypeCaseClosed
// applies to every kind and reports ok=false.
func (t EventType) Kind() (CaseKind, bool) {
	k, ok := eventKinds[t]
	return k, ok
}

// IsCreation reports whether t opens a new case.
func (t EventType) IsCreation() bool {
	switch t {
	case TypeCaseCreated, TypeAccelerationDeclared, TypeChangeOrderCreated:
		return true
	}
	return false
}

// WireType is the namespaced CloudEvents type.
func (t EventType) WireType() string {
	return TypeNamespace + string(t)
}

// ParseWireType strips the namespace from a stored CloudEvents type.
func ParseWireType(s string) EventType {
	return EventType(strings.TrimPrefix(s, TypeNamespace))
}

// Event is an immutable fact in a case's log. Field names follow the
// CloudEvents envelope; CaseID/Type/Version are denormalised for indexing.
type Event struct {
	SpecVersion       string          `json:"specversion"`
	ID                string          `json:"id"`
	Source            string          `json:"source"`
	Type              EventType       `json:"type"`
	Time              time.Time       `json:"time"`
	Subject           string          `json:"subject"`
	CaseID            string          `json:"case_id"`
	ProjectID         string          `json:"project_id"`
	Version           int64           `json:"version"`
	Actor             string          `json:"actor"`
	ActorRole         Role            `json:"actor_role"`
	Comment           string          `json:"comment,omitempty"`
	ReferencesEventID string          `json:"references_event_id,omitempty"`
	Data              json.RawMessage `json:"data"`
}

// SourceFor builds the hierarchical CloudEvents source for a case.
func SourceFor(projectID, caseID string) string {
	return fmt.Sprintf("/projects/%s/cases/%s", ProjectOrDefault(projectID), caseID)
}

// ProjectOrDefault maps an empty project id onto DefaultProjectID.
func ProjectOrDefault(projectID string) string {
	if strings.TrimSpace(projectID) == "" {
		return DefaultProjectID
	}
	return projectID
}

// Decode unmarshals the event payload into dst.
func (e Event) Decode(dst any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("event %s (%s) has no payload", e.ID, e.Type)
	}
	if err := json.Unmarshal(e.Data, dst); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// NewEvent builds an unversioned event envelope around payload. The store
// assigns Version on append.
func NewEvent(id, projectID, caseID string, typ EventType, at time.Time, actor Actor, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	projectID = ProjectOrDefault(projectID)
	return Event{
		SpecVersion: SpecVersion,
		ID:          id,
		Source:      SourceFor(projectID, caseID),
		Type:        typ,
		Time:        at.UTC(),
		Subject:     caseID,
		CaseID:      caseID,
		ProjectID:   projectID,
		Actor:       actor.ID,
		ActorRole:   actor.Role,
		Data:        data,
	}, nil
}
