package models

// Payload is implemented by every event payload.
type Payload interface {
	Validate() error
}

// NewPayload returns a pointer to the zero payload for t, ready to decode
// into. ok is false for types outside the catalog.
func NewPayload(t EventType) (Payload, bool) {
	switch t {
	case TypeCaseCreated:
		return &CaseCreated{}, true
	case TypeCaseWithdrawn:
		return &CaseWithdrawn{}, true
	case TypeCaseClosed:
		return &CaseClosed{}, true
	case TypeBasisResponse:
		return &BasisResponse{}, true
	case TypeBasisUpdated:
		return &BasisUpdated{}, true
	case TypeBasisPassivelyAccepted:
		return &BasisPassivelyAccepted{}, true
	case TypeClaimSent:
		return &CombinedClaim{}, true
	case TypeDeadlineClaimSent, TypeDeadlineClaimUpdated:
		return &DeadlineClaim{}, true
	case TypeDeadlineResponse:
		return &DeadlineResponse{}, true
	case TypeCompensationClaimSent, TypeCompensationClaimUpdated:
		return &CompensationClaim{}, true
	case TypeCompensationResponse:
		return &CompensationResponse{}, true
	case TypeAccelerationDeclared:
		return &AccelerationDeclared{}, true
	case TypeAccelerationCostUpdated:
		return &AccelerationCostUpdated{}, true
	case TypeAccelerationStopped:
		return &AccelerationStopped{}, true
	case TypeChangeOrderCreated:
		return &ChangeOrderCreated{}, true
	case TypeChangeOrderClaimAdded:
		return &ChangeOrderClaimAdded{}, true
	case TypeChangeOrderIssued, TypeChangeOrderRevised:
		return &ChangeOrderTerms{}, true
	case TypeChangeOrderAccepted:
		return &ChangeOrderAccepted{}, true
	case TypeChangeOrderRejected:
		return &ChangeOrderRejected{}, true
	}
	return nil, false
}

// DecodePayload decodes and returns the typed payload of evt.
func DecodePayload(evt Event) (Payload, error) {
	p, ok := NewPayload(evt.Type)
	if !ok {
		return nil, &UnknownTypeError{Type: evt.Type}
	}
	if err := evt.Decode(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UnknownTypeError reports an event type outside the catalog.
type UnknownTypeError struct {
	Type EventType
}

func (e *UnknownTypeError) Error() string {
	return "unknown event type " + string(e.Type)
}
