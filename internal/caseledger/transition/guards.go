package transition

import (
	"fmt"
	"time"

	"koe/internal/caseledger/models"
	"koe/internal/caseledger/projection"
	dErrors "koe/pkg/domain-errors"
)

// RequiresRevision reports whether any of outcomes sends its track back to
// the contractor.
func RequiresRevision(outcomes ...models.ResponseOutcome) bool {
	for _, o := range outcomes {
		if o.RequiresRevision() {
			return true
		}
	}
	return false
}

func illegal(format string, args ...any) error {
	return dErrors.New(dErrors.CodeIllegalTransition, fmt.Sprintf(format, args...))
}

// guard applies the per-track rules that the status table cannot express.
func (e *Engine) guard(s projection.State, evt models.Event, payload models.Payload, asOf time.Time) error {
	switch p := payload.(type) {
	case *models.BasisResponse:
		if s.Basis.Status != models.TrackPending {
			return illegal("basis is %s, not awaiting a response", s.Basis.Status)
		}
	case *models.BasisUpdated:
		if s.Basis.Status != models.TrackPending && s.Basis.Status != models.TrackDisputed {
			return illegal("basis is %s and cannot be updated", s.Basis.Status)
		}
	case *models.BasisPassivelyAccepted:
		due, ok := projection.PassiveAcceptanceDue(s, asOf, e.rules)
		if !ok {
			return illegal("basis is not due for passive acceptance")
		}
		if !p.DeemedAt.Equal(due.DeemedAt) || p.Clause != due.Clause {
			return dErrors.Validation("passive acceptance does not match contract rules",
				dErrors.FieldError{Field: "deemed_at", Message: "expected " + due.DeemedAt.Format("2006-01-02")})
		}
	case *models.CombinedClaim:
		if p.Deadline != nil {
			if err := guardNewDeadline(s); err != nil {
				return err
			}
		}
		if p.Compensation != nil {
			if err := guardNewCompensation(s); err != nil {
				return err
			}
		}
	case *models.DeadlineClaim:
		if evt.Type == models.TypeDeadlineClaimSent {
			return guardNewDeadline(s)
		}
		return guardDeadlineUpdate(s, *p)
	case *models.CompensationClaim:
		if evt.Type == models.TypeCompensationClaimSent {
			return guardNewCompensation(s)
		}
		if !updatable(s.Compensation.Status) {
			return illegal("compensation claim is %s and cannot be revised", s.Compensation.Status)
		}
	case *models.DeadlineResponse:
		return guardDeadlineResponse(s, *p)
	case *models.CompensationResponse:
		return guardCompensationResponse(s, *p)
	case *models.AccelerationDeclared:
		if p.CapPercent != e.rules.Acceleration.CapPercent {
			return dErrors.Validation("invalid acceleration", dErrors.FieldError{
				Field: "cap_percent", Message: fmt.Sprintf("cap_percent must be %d", e.rules.Acceleration.CapPercent),
			})
		}
	case *models.AccelerationCostUpdated:
		if p.AccruedCost < s.Acceleration.AccruedCost {
			return dErrors.Validation("invalid acceleration cost", dErrors.FieldError{
				Field: "accrued_cost", Message: "accrued_cost is cumulative and cannot decrease",
			})
		}
	case *models.ChangeOrderClaimAdded:
		if s.ChangeOrder.Includes(p.Claim.CaseID) {
			return dErrors.Validation("invalid change order claim", dErrors.FieldError{
				Field: "claim.case_id", Message: "claim is already part of the change order",
			})
		}
	}
	return nil
}

func updatable(t models.TrackStatus) bool {
	switch t {
	case models.TrackNotified, models.TrackPending, models.TrackUnderRevision:
		return true
	}
	return false
}

func guardNewDeadline(s projection.State) error {
	if s.Deadline.Status != models.TrackNotClaimed {
		return illegal("deadline claim already %s; submit a revision instead", s.Deadline.Status)
	}
	return nil
}

func guardNewCompensation(s projection.State) error {
	if s.ForceMajeure {
		return illegal("force majeure cases carry deadline claims only")
	}
	if s.Compensation.Status != models.TrackNotClaimed {
		return illegal("compensation claim already %s; submit a revision instead", s.Compensation.Status)
	}
	return nil
}

func guardDeadlineUpdate(s projection.State, claim models.DeadlineClaim) error {
	if !updatable(s.Deadline.Status) {
		return illegal("deadline claim is %s and cannot be revised", s.Deadline.Status)
	}
	if cur, ok := s.Deadline.Current(); ok && cur.Claim.IsItemized() && !claim.IsItemized() {
		return dErrors.Validation("invalid deadline claim", dErrors.FieldError{
			Field: "notice_type", Message: "an itemized claim cannot be revised into a neutral notice",
		})
	}
	return nil
}

func guardDeadlineResponse(s projection.State, resp models.DeadlineResponse) error {
	if s.Deadline.Status != models.TrackPending {
		return illegal("deadline claim is %s, not awaiting a response", s.Deadline.Status)
	}
	cur, _ := s.Deadline.Current()
	var f dErrors.Fields
	f.Check(resp.ApprovedDays <= cur.Claim.RequestedDays, "approved_days",
		fmt.Sprintf("approved_days cannot exceed the %d requested days", cur.Claim.RequestedDays))
	if _, ok := cur.Claim.Notices.Find(models.NoticeNeutral); ok {
		f.Check(resp.Timeliness.Neutral != nil, "notice_timeliness.neutral", "assess whether the neutral notice was timely")
	}
	if _, ok := cur.Claim.Notices.Find(models.NoticeItemized); ok {
		f.Check(resp.Timeliness.Itemized != nil, "notice_timeliness.itemized", "assess whether the itemized notice was timely")
	}
	computed := resp.ComputeOutcome(cur.Claim)
	if resp.Outcome != "" {
		f.Check(resp.Outcome == computed, "outcome",
			fmt.Sprintf("outcome %s is inconsistent with the assessment, expected %s", resp.Outcome, computed))
	}
	if computed != models.OutcomeApproved && computed != models.OutcomePartiallyApproved {
		f.Check(resp.ApprovedDays == 0, "approved_days", fmt.Sprintf("approved_days must be 0 when %s", computed))
	}
	return f.Err("invalid deadline response")
}

func guardCompensationResponse(s projection.State, resp models.CompensationResponse) error {
	if s.Compensation.Status != models.TrackPending {
		return illegal("compensation claim is %s, not awaiting a response", s.Compensation.Status)
	}
	cur, _ := s.Compensation.Current()
	requested := cur.Claim.RequestedAmount()
	var f dErrors.Fields
	if requested != nil {
		f.Check(resp.ApprovedAmount <= *requested, "approved_amount",
			fmt.Sprintf("approved_amount cannot exceed the requested %d", *requested))
	}
	switch resp.Outcome {
	case models.OutcomeApproved:
		if requested != nil {
			f.Check(resp.ApprovedAmount == *requested, "outcome", "approved requires the full requested amount")
		}
	case models.OutcomePartiallyApproved:
		f.Check(resp.ApprovedAmount > 0, "approved_amount", "partially_approved requires a positive amount")
		if requested != nil {
			f.Check(resp.ApprovedAmount < *requested, "outcome", "full amount approved; use approved")
		}
	default:
		f.Check(resp.ApprovedAmount == 0, "approved_amount", fmt.Sprintf("approved_amount must be 0 when %s", resp.Outcome))
	}
	return f.Err("invalid compensation response")
}
