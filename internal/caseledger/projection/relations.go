package projection

import (
	"koe/internal/caseledger/models"
)

// RelationsOf returns the cross-case references established by evt. The
// event's case is the source; referenced claims are the targets.
func RelationsOf(evt models.Event) ([]models.Relation, error) {
	var (
		kind    models.RelationKind
		targets []string
	)
	switch evt.Type {
	case models.TypeAccelerationDeclared:
		var p models.AccelerationDeclared
		if err := evt.Decode(&p); err != nil {
			return nil, err
		}
		kind, targets = models.RelationAcceleration, p.BasisCaseIDs
	case models.TypeChangeOrderCreated:
		var p models.ChangeOrderCreated
		if err := evt.Decode(&p); err != nil {
			return nil, err
		}
		kind, targets = models.RelationChangeOrder, p.BasisCaseIDs
	case models.TypeChangeOrderClaimAdded:
		var p models.ChangeOrderClaimAdded
		if err := evt.Decode(&p); err != nil {
			return nil, err
		}
		kind, targets = models.RelationChangeOrder, []string{p.Claim.CaseID}
	default:
		return nil, nil
	}
	out := make([]models.Relation, 0, len(targets))
	for _, target := range targets {
		out = append(out, models.Relation{
			SourceCaseID: evt.CaseID,
			TargetCaseID: target,
			Kind:         kind,
			EventID:      evt.ID,
			CreatedAt:    evt.Time,
		})
	}
	return out, nil
}
