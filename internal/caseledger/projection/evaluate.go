package projection

import (
	"time"

	"koe/internal/caseledger/models"
	"koe/internal/caseledger/rules"
)

// Evaluate applies the time-dependent contract rules to s as of asOf and
// returns the result. s itself is not modified.
func Evaluate(s State, asOf time.Time, r rules.Rules) State {
	p, ok := PassiveAcceptanceDue(s, asOf, r)
	if !ok {
		return s
	}
	out := s.Clone()
	out.Basis.Status = models.TrackAccepted
	out.Basis.Passive = &PassiveAcceptance{
		Clause:     p.Clause,
		NoticeDate: p.NoticeDate,
		DeemedAt:   p.DeemedAt,
	}
	out.Status, out.ActiveTracks = derive(out)
	return out
}

// PassiveAcceptanceDue reports whether the basis of s is deemed accepted at
// asOf, and the payload that records it.
func PassiveAcceptanceDue(s State, asOf time.Time, r rules.Rules) (models.BasisPassivelyAccepted, bool) {
	if !r.PassiveAcceptance.Enabled || s.Kind != models.KindClaim || s.Closure != nil {
		return models.BasisPassivelyAccepted{}, false
	}
	if s.Basis.Status != models.TrackPending || s.Basis.Passive != nil {
		return models.BasisPassivelyAccepted{}, false
	}
	deemed := r.PassiveAcceptance.DeemedAt(s.Basis.NoticeDate)
	if asOf.Before(deemed) {
		return models.BasisPassivelyAccepted{}, false
	}
	return models.BasisPassivelyAccepted{
		Clause:     r.PassiveAcceptance.Clause,
		NoticeDate: s.Basis.NoticeDate,
		DeemedAt:   deemed,
	}, true
}
