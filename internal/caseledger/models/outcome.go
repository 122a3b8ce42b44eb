package models

// RequiresRevision reports whether o sends the claim track back to the
// contractor for revision instead of settling it.
func (o ResponseOutcome) RequiresRevision() bool {
	switch o {
	case OutcomePartiallyApproved, OutcomeRejectedDisputed, OutcomeRejectedLate, OutcomePendingMoreInfo:
		return true
	}
	return false
}

// ComputeOutcome derives the deadline outcome from the owner's assessment of
// claim. A late neutral notice precludes the claim; unmet conditions reject
// it; otherwise the approved days decide between full, partial and no
// approval.
func (r DeadlineResponse) ComputeOutcome(claim DeadlineClaim) ResponseOutcome {
	if r.Outcome == OutcomePendingMoreInfo {
		return OutcomePendingMoreInfo
	}
	if _, ok := claim.Notices.Find(NoticeNeutral); ok && isFalse(r.Timeliness.Neutral) {
		return OutcomeRejectedLate
	}
	if !r.ConditionsMet {
		return OutcomeRejectedDisputed
	}
	switch {
	case r.ApprovedDays >= claim.RequestedDays:
		return OutcomeApproved
	case r.ApprovedDays == 0 && isFalse(r.Timeliness.Itemized):
		return OutcomeRejectedLate
	case r.ApprovedDays == 0:
		return OutcomeRejectedDisputed
	default:
		return OutcomePartiallyApproved
	}
}

func isFalse(b *bool) bool {
	return b != nil && !*b
}
