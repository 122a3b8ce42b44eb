package projection

import "koe/internal/caseledger/models"

func derive(s State) (models.Status, []models.Track) {
	switch s.Kind {
	case models.KindClaim:
		return deriveClaim(s), activeTracks(s)
	case models.KindAcceleration:
		if s.Closure != nil || s.Acceleration.Stopped {
			return models.StatusClosed, nil
		}
		return models.StatusAccelerating, nil
	case models.KindChangeOrder:
		return deriveChangeOrder(s), nil
	}
	return models.StatusDraft, nil
}

// deriveClaim applies the claim status precedence: closure, revision,
// pending claims, basis position, settlement.
func deriveClaim(s State) models.Status {
	if s.Closure != nil {
		return models.StatusClosed
	}
	if s.Deadline.Status == models.TrackUnderRevision || s.Compensation.Status == models.TrackUnderRevision {
		return models.StatusUnderRevision
	}
	if s.Deadline.Status == models.TrackPending || s.Compensation.Status == models.TrackPending {
		if s.Basis.Status == models.TrackPending {
			return models.StatusClaimSent
		}
		return models.StatusAwaitingResponse
	}
	switch s.Basis.Status {
	case models.TrackDisputed:
		return models.StatusDisputed
	case models.TrackPending:
		return models.StatusBasisPending
	}
	if s.Deadline.Status == models.TrackApproved || s.Compensation.Status == models.TrackApproved {
		return models.StatusSettled
	}
	return models.StatusAccepted
}

func activeTracks(s State) []models.Track {
	if s.Closure != nil {
		return nil
	}
	var out []models.Track
	if s.Basis.Status == models.TrackPending || s.Basis.Status == models.TrackDisputed {
		out = append(out, models.TrackBasis)
	}
	if isOpen(s.Deadline.Status) {
		out = append(out, models.TrackDeadline)
	}
	if isOpen(s.Compensation.Status) {
		out = append(out, models.TrackCompensation)
	}
	return out
}

func isOpen(t models.TrackStatus) bool {
	return t == models.TrackPending || t == models.TrackUnderRevision
}

func deriveChangeOrder(s State) models.Status {
	if s.Closure != nil {
		return models.StatusClosed
	}
	co := s.ChangeOrder
	if co.Issue == 0 {
		return models.StatusPreparing
	}
	if n := len(co.Decisions); n > 0 && co.Decisions[n-1].Issue == co.Issue {
		if co.Decisions[n-1].Accepted {
			return models.StatusSettled
		}
		return models.StatusDisputed
	}
	return models.StatusAwaitingResponse
}
