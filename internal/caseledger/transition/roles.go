package transition

import (
	"slices"

	"koe/internal/caseledger/models"
)

var (
	contractor = []models.Role{models.RoleContractor}
	owner      = []models.Role{models.RoleOwner}
)

// emitters lists which party may emit each event type. The administrator
// may emit every type except the system's passive acceptance.
var emitters = map[models.EventType][]models.Role{
	models.TypeCaseCreated:              contractor,
	models.TypeCaseWithdrawn:            contractor,
	models.TypeCaseClosed:               {models.RoleSystem},
	models.TypeBasisResponse:            owner,
	models.TypeBasisUpdated:             contractor,
	models.TypeBasisPassivelyAccepted:   {models.RoleSystem},
	models.TypeClaimSent:                contractor,
	models.TypeDeadlineClaimSent:        contractor,
	models.TypeDeadlineClaimUpdated:     contractor,
	models.TypeDeadlineResponse:         owner,
	models.TypeCompensationClaimSent:    contractor,
	models.TypeCompensationClaimUpdated: contractor,
	models.TypeCompensationResponse:     owner,
	models.TypeAccelerationDeclared:     contractor,
	models.TypeAccelerationCostUpdated:  contractor,
	models.TypeAccelerationStopped:      owner,
	models.TypeChangeOrderCreated:       owner,
	models.TypeChangeOrderClaimAdded:    owner,
	models.TypeChangeOrderIssued:        owner,
	models.TypeChangeOrderRevised:       owner,
	models.TypeChangeOrderAccepted:      contractor,
	models.TypeChangeOrderRejected:      contractor,
}

// Permitted reports whether role may emit typ.
func Permitted(typ models.EventType, role models.Role) bool {
	if !role.IsClaimRole() {
		return false
	}
	if role == models.RoleAdministrator {
		return typ != models.TypeBasisPassivelyAccepted && typ.IsKnown()
	}
	return slices.Contains(emitters[typ], role)
}
