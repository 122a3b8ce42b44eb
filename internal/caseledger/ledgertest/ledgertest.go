// Package ledgertest builds case event logs for tests.
package ledgertest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"koe/internal/caseledger/models"
)

// Epoch is the time of the first event in a Log.
var Epoch = time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)

// Contractor, Owner and Admin are the default actors.
var (
	Contractor = models.Actor{ID: "te-1", Role: models.RoleContractor}
	Owner      = models.Actor{ID: "bh-1", Role: models.RoleOwner}
	Admin      = models.Actor{ID: "pl-1", Role: models.RoleAdministrator}
)

// Log accumulates versioned events for one case, one hour apart.
type Log struct {
	t         testing.TB
	CaseID    string
	ProjectID string
	events    []models.Event
}

// NewLog starts an empty log for caseID.
func NewLog(t testing.TB, caseID string) *Log {
	return &Log{t: t, CaseID: caseID, ProjectID: models.DefaultProjectID}
}

// Next builds the next event without recording it.
func (l *Log) Next(typ models.EventType, actor models.Actor, payload any) models.Event {
	l.t.Helper()
	at := Epoch.Add(time.Duration(len(l.events)) * time.Hour)
	evt, err := models.NewEvent(uuid.NewString(), l.ProjectID, l.CaseID, typ, at, actor, payload)
	require.NoError(l.t, err)
	evt.Version = int64(len(l.events) + 1)
	return evt
}

// Add builds and records the next event.
func (l *Log) Add(typ models.EventType, actor models.Actor, payload any) models.Event {
	l.t.Helper()
	evt := l.Next(typ, actor, payload)
	l.events = append(l.events, evt)
	return evt
}

// AddRaw records an event with an arbitrary type and raw payload.
func (l *Log) AddRaw(typ models.EventType, data string) models.Event {
	evt := models.Event{
		SpecVersion: models.SpecVersion,
		ID:          uuid.NewString(),
		Type:        typ,
		Time:        Epoch.Add(time.Duration(len(l.events)) * time.Hour),
		CaseID:      l.CaseID,
		ProjectID:   l.ProjectID,
		Subject:     l.CaseID,
		Version:     int64(len(l.events) + 1),
		Actor:       "system",
		ActorRole:   models.RoleSystem,
		Data:        []byte(data),
	}
	l.events = append(l.events, evt)
	return evt
}

// Events returns a copy of the recorded events.
func (l *Log) Events() []models.Event {
	return append([]models.Event(nil), l.events...)
}

// Created is a valid case.created payload notified at Epoch.
func Created(title string, categories ...string) models.CaseCreated {
	if len(categories) == 0 {
		categories = []string{models.CategoryChange}
	}
	return models.CaseCreated{
		Title:        title,
		Categories:   models.NormalizeCategories(categories),
		Description:  "Changed foundation design",
		DiscoveredAt: Epoch.AddDate(0, 0, -2),
		NotifiedAt:   Epoch,
	}
}

// Neutral is a neutral notice sent on day.
func Neutral(day int) models.Notice {
	return models.Notice{Kind: models.NoticeNeutral, SentAt: Epoch.AddDate(0, 0, day), Method: models.MethodEmail}
}

// Itemized is an itemized notice sent on day.
func Itemized(day int) models.Notice {
	return models.Notice{Kind: models.NoticeItemized, SentAt: Epoch.AddDate(0, 0, day), Method: models.MethodLetter}
}

// DeadlineClaim is an itemized claim for days with neutral and itemized
// notices.
func DeadlineClaim(days int) models.DeadlineClaim {
	return models.DeadlineClaim{
		NoticeType:    models.NoticeItemized,
		Notices:       models.Notices{Neutral(1), Itemized(10)},
		RequestedDays: days,
		Rationale:     fmt.Sprintf("%d days lost to redesign", days),
	}
}

// DeadlineResponse grants approved days with all notices timely.
func DeadlineResponse(approved int, outcome models.ResponseOutcome) models.DeadlineResponse {
	yes := true
	return models.DeadlineResponse{
		Timeliness:    models.NoticeTimeliness{Neutral: &yes, Itemized: &yes},
		ConditionsMet: true,
		Outcome:       outcome,
		ApprovedDays:  approved,
		Rationale:     "assessed against progress plan",
	}
}

// CompensationClaim is an agreed-price claim for amount.
func CompensationClaim(amount int64) models.CompensationClaim {
	return models.CompensationClaim{
		Method:          models.SettlementAgreedPrice,
		Notices:         models.Notices{Neutral(1)},
		EstimatedAmount: &amount,
		Rationale:       "extra excavation",
	}
}

// CompensationResponse answers a compensation claim.
func CompensationResponse(approved int64, outcome models.ResponseOutcome) models.CompensationResponse {
	return models.CompensationResponse{
		Outcome:        outcome,
		ApprovedAmount: approved,
		Rationale:      "checked against unit prices",
	}
}

// BasisApproved is an owner acceptance of the basis.
func BasisApproved() models.BasisResponse {
	return models.BasisResponse{Outcome: models.BasisApproved, Rationale: "agreed"}
}
