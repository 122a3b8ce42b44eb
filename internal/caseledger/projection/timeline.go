package projection

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"koe/internal/caseledger/models"
)

// Entry is one line of a case timeline.
type Entry struct {
	Version           int64            `json:"version"`
	EventID           string           `json:"event_id"`
	Type              models.EventType `json:"type"`
	Time              time.Time        `json:"time"`
	Actor             string           `json:"actor"`
	ActorRole         models.Role      `json:"actor_role"`
	Summary           string           `json:"summary"`
	Comment           string           `json:"comment,omitempty"`
	ReferencesEventID string           `json:"references_event_id,omitempty"`
}

var printer = message.NewPrinter(language.MustParse("nb"))

// Timeline renders events in version order with a display summary each.
func Timeline(events []models.Event) []Entry {
	out := make([]Entry, 0, len(events))
	for _, evt := range events {
		out = append(out, Entry{
			Version:           evt.Version,
			EventID:           evt.ID,
			Type:              evt.Type,
			Time:              evt.Time,
			Actor:             evt.Actor,
			ActorRole:         evt.ActorRole,
			Summary:           summarize(evt),
			Comment:           evt.Comment,
			ReferencesEventID: evt.ReferencesEventID,
		})
	}
	return out
}

func nok(amount int64) string {
	return printer.Sprintf("NOK %d", amount)
}

func summarize(evt models.Event) string {
	if !evt.Type.IsKnown() {
		return "Unrecognised event " + string(evt.Type)
	}
	payload, err := models.DecodePayload(evt)
	if err != nil {
		return string(evt.Type)
	}
	switch p := payload.(type) {
	case *models.CaseCreated:
		return printer.Sprintf("Case created: %s", p.Title)
	case *models.BasisResponse:
		if p.Outcome == models.BasisApproved {
			return "Basis accepted by owner"
		}
		return "Basis rejected by owner"
	case *models.BasisUpdated:
		return "Basis notice updated"
	case *models.BasisPassivelyAccepted:
		return printer.Sprintf("Basis deemed accepted (%s)", p.Clause)
	case *models.CombinedClaim:
		return summarizeCombined(p)
	case *models.DeadlineClaim:
		verb := "sent"
		if evt.Type == models.TypeDeadlineClaimUpdated {
			verb = "revised"
		}
		if !p.IsItemized() {
			return "Neutral deadline notice " + verb
		}
		return printer.Sprintf("Deadline claim %s: %d days", verb, p.RequestedDays)
	case *models.DeadlineResponse:
		return printer.Sprintf("Deadline response: %d days approved", p.ApprovedDays)
	case *models.CompensationClaim:
		verb := "sent"
		if evt.Type == models.TypeCompensationClaimUpdated {
			verb = "revised"
		}
		if amount := p.RequestedAmount(); amount != nil {
			return printer.Sprintf("Compensation claim %s: %s", verb, nok(*amount))
		}
		return printer.Sprintf("Compensation claim %s (%s)", verb, p.Method)
	case *models.CompensationResponse:
		return printer.Sprintf("Compensation response (%s): %s approved", p.Outcome, nok(p.ApprovedAmount))
	case *models.CaseWithdrawn:
		return "Case withdrawn"
	case *models.CaseClosed:
		return "Case closed: " + p.Reason
	case *models.AccelerationDeclared:
		return printer.Sprintf("Acceleration declared for %d rejected days, cap %s",
			p.RejectedDaysTotal, nok(p.CostCap))
	case *models.AccelerationCostUpdated:
		return printer.Sprintf("Accrued acceleration cost %s", nok(p.AccruedCost))
	case *models.AccelerationStopped:
		return "Acceleration stopped"
	case *models.ChangeOrderCreated:
		return printer.Sprintf("Change order created from %d claims", len(p.BasisCaseIDs))
	case *models.ChangeOrderClaimAdded:
		return "Claim " + p.Claim.CaseID + " added to change order"
	case *models.ChangeOrderTerms:
		verb := "issued"
		if evt.Type == models.TypeChangeOrderRevised {
			verb = "revised"
		}
		return printer.Sprintf("Change order %s: %s, %d days", verb, nok(p.Compensation), p.Days)
	case *models.ChangeOrderAccepted:
		return "Change order accepted"
	case *models.ChangeOrderRejected:
		return "Change order rejected"
	}
	return string(evt.Type)
}

func summarizeCombined(p *models.CombinedClaim) string {
	switch {
	case p.Deadline != nil && p.Compensation != nil:
		return printer.Sprintf("Claim sent: %d days and compensation", p.Deadline.RequestedDays)
	case p.Deadline != nil:
		return printer.Sprintf("Claim sent: %d days", p.Deadline.RequestedDays)
	default:
		return "Claim sent: compensation"
	}
}
