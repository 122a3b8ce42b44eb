// Package outbox stores published-event rows written in the same
// transaction as the case events they mirror.
package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"koe/internal/caseledger/models"
)

// Entry is one pending message for the relay.
type Entry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       json.RawMessage
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Attempts      int
	LastError     string
}

// IsPublished reports whether the relay has delivered the entry.
func (e Entry) IsPublished() bool {
	return e.PublishedAt != nil
}

// NewEntry wraps a stored event. The payload is the full CloudEvents
// envelope so consumers need no second lookup.
func NewEntry(evt models.Event) (Entry, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return Entry{}, fmt.Errorf("marshal outbox payload: %w", err)
	}
	kind, ok := evt.Type.Kind()
	aggregate := string(kind)
	if !ok {
		aggregate = "case"
	}
	id, err := uuid.Parse(evt.ID)
	if err != nil {
		id = uuid.NewSHA1(uuid.NameSpaceURL, []byte(evt.Source+"#"+evt.ID))
	}
	return Entry{
		ID:            id,
		AggregateType: aggregate,
		AggregateID:   evt.CaseID,
		EventType:     evt.Type.WireType(),
		Payload:       payload,
		CreatedAt:     evt.Time,
	}, nil
}
