// Package event persists the append-only per-case event log.
package event

import (
	"fmt"
	"time"

	"koe/internal/caseledger/models"
	"koe/pkg/platform/sentinel"
)

// Store errors wrap sentinel facts so callers can classify them with
// errors.Is against either value.
var (
	ErrConcurrencyConflict = fmt.Errorf("%w: case version has moved", sentinel.ErrConflict)
	ErrDuplicateEvent      = fmt.Errorf("%w: event id already stored", sentinel.ErrAlreadyUsed)
	ErrUnknownCase         = fmt.Errorf("%w: case has no events", sentinel.ErrNotFound)
	ErrUnknownEvent        = fmt.Errorf("%w: event", sentinel.ErrNotFound)
)

// DefaultPageSize bounds reads that return a whole log.
const DefaultPageSize = 500

// CaseRef identifies a case by its creation event.
type CaseRef struct {
	CaseID    string          `json:"case_id"`
	ProjectID string          `json:"project_id"`
	Kind      models.CaseKind `json:"kind"`
	CreatedAt time.Time       `json:"created_at"`
}

func checkAppend(caseID string, expectedVersion int64, evt models.Event) error {
	if caseID == "" {
		return fmt.Errorf("case id is required")
	}
	if evt.ID == "" {
		return fmt.Errorf("event id is required")
	}
	if expectedVersion < 0 {
		return fmt.Errorf("expected version cannot be negative")
	}
	if evt.CaseID != "" && evt.CaseID != caseID {
		return fmt.Errorf("event belongs to case %s, not %s", evt.CaseID, caseID)
	}
	return nil
}

// stamp fills the envelope fields the store owns.
func stamp(caseID string, expectedVersion int64, evt models.Event) models.Event {
	evt.CaseID = caseID
	evt.Subject = caseID
	evt.Version = expectedVersion + 1
	evt.ProjectID = models.ProjectOrDefault(evt.ProjectID)
	if evt.SpecVersion == "" {
		evt.SpecVersion = models.SpecVersion
	}
	if evt.Source == "" {
		evt.Source = models.SourceFor(evt.ProjectID, caseID)
	}
	evt.Time = evt.Time.UTC()
	return evt
}
