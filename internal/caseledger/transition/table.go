// Package transition decides whether an event may be appended to a case.
// Decisions are pure: they read the projected state and the candidate event
// and return the next status or a coded error.
package transition

import "koe/internal/caseledger/models"

// Derived marks a table entry whose next status depends on the payload and
// is computed by folding the event.
const Derived models.Status = "derived"

// Table maps (current status, event type) to the next status. Pairs absent
// from the table are illegal.
type Table map[models.Status]map[models.EventType]models.Status

// Next looks up the transition for typ out of from.
func (t Table) Next(from models.Status, typ models.EventType) (models.Status, bool) {
	next, ok := t[from][typ]
	return next, ok
}

func (t Table) allow(from []models.Status, typ models.EventType, to models.Status) {
	for _, f := range from {
		if t[f] == nil {
			t[f] = make(map[models.EventType]models.Status)
		}
		t[f][typ] = to
	}
}

var (
	claimOpen = []models.Status{
		models.StatusBasisPending, models.StatusClaimSent, models.StatusAwaitingResponse,
		models.StatusAccepted, models.StatusSettled, models.StatusDisputed, models.StatusUnderRevision,
	}
	awaitingOwner = []models.Status{
		models.StatusClaimSent, models.StatusAwaitingResponse, models.StatusUnderRevision,
	}
	basisOpen = []models.Status{
		models.StatusBasisPending, models.StatusClaimSent, models.StatusAwaitingResponse,
		models.StatusDisputed, models.StatusUnderRevision,
	}
	// basisUnanswered holds every claim status the basis track can still be
	// pending in. A disputed claim always has a disputed basis.
	basisUnanswered = []models.Status{
		models.StatusBasisPending, models.StatusClaimSent, models.StatusAwaitingResponse,
		models.StatusUnderRevision,
	}
)

// DefaultTable is the ledger's transition table.
var DefaultTable = buildTable()

func buildTable() Table {
	t := make(Table)
	draft := []models.Status{models.StatusDraft}
	t.allow(draft, models.TypeCaseCreated, models.StatusBasisPending)
	t.allow(draft, models.TypeAccelerationDeclared, models.StatusAccelerating)
	t.allow(draft, models.TypeChangeOrderCreated, models.StatusPreparing)

	// Claim cases. Track guards narrow these further.
	t.allow(basisOpen, models.TypeBasisResponse, Derived)
	t.allow(basisOpen, models.TypeBasisUpdated, Derived)
	t.allow(basisUnanswered, models.TypeBasisPassivelyAccepted, Derived)
	for _, typ := range []models.EventType{
		models.TypeClaimSent, models.TypeDeadlineClaimSent, models.TypeCompensationClaimSent,
		models.TypeDeadlineClaimUpdated, models.TypeCompensationClaimUpdated,
	} {
		t.allow(claimOpen, typ, Derived)
	}
	t.allow(awaitingOwner, models.TypeDeadlineResponse, Derived)
	t.allow(awaitingOwner, models.TypeCompensationResponse, Derived)
	t.allow(claimOpen, models.TypeCaseWithdrawn, models.StatusClosed)
	t.allow(claimOpen, models.TypeCaseClosed, models.StatusClosed)

	// Acceleration cases.
	accelerating := []models.Status{models.StatusAccelerating}
	t.allow(accelerating, models.TypeAccelerationCostUpdated, models.StatusAccelerating)
	t.allow(accelerating, models.TypeAccelerationStopped, models.StatusClosed)
	t.allow(accelerating, models.TypeCaseClosed, models.StatusClosed)

	// Change orders.
	preparing := []models.Status{models.StatusPreparing}
	t.allow(preparing, models.TypeChangeOrderClaimAdded, models.StatusPreparing)
	t.allow(preparing, models.TypeChangeOrderIssued, models.StatusAwaitingResponse)
	t.allow([]models.Status{models.StatusAwaitingResponse}, models.TypeChangeOrderAccepted, models.StatusSettled)
	t.allow([]models.Status{models.StatusAwaitingResponse}, models.TypeChangeOrderRejected, models.StatusDisputed)
	t.allow([]models.Status{models.StatusAwaitingResponse, models.StatusDisputed},
		models.TypeChangeOrderRevised, models.StatusAwaitingResponse)
	t.allow([]models.Status{models.StatusPreparing, models.StatusDisputed},
		models.TypeCaseClosed, models.StatusClosed)
	return t
}
