package models

import (
	"slices"
	"strings"
	"time"

	dErrors "koe/pkg/domain-errors"
)

// AccelerationCap is the maximum recoverable acceleration cost: the
// liquidated damages the rejected days would have incurred, plus the
// configured allowance (130 means damages + 30 %).
func AccelerationCap(rejectedDays int, dailyRate int64, capPercent int) int64 {
	return int64(rejectedDays) * dailyRate * int64(capPercent) / 100
}

// AccelerationBasis snapshots the rejected days of one referenced claim at
// the time of declaration.
type AccelerationBasis struct {
	CaseID       string `json:"case_id"`
	RejectedDays int    `json:"rejected_days"`
}

// AccelerationDeclared opens an acceleration case.
type AccelerationDeclared struct {
	BasisCaseIDs         []string            `json:"basis_case_ids"`
	Basis                []AccelerationBasis `json:"basis,omitempty"`
	RejectedDaysTotal    int                 `json:"rejected_days_total"`
	EstimatedCost        int64               `json:"estimated_cost"`
	DailyDamagesRate     int64               `json:"daily_damages_rate"`
	CapPercent           int                 `json:"cap_percent"`
	CostCap              int64               `json:"cost_cap"`
	Confirm30PercentRule bool                `json:"confirm_30_percent_rule"`
	Rationale            string              `json:"rationale"`
}

func (p AccelerationDeclared) Validate() error {
	var f dErrors.Fields
	checkCaseIDs(&f, "basis_case_ids", p.BasisCaseIDs)
	f.Check(p.RejectedDaysTotal > 0, "rejected_days_total", "rejected_days_total must be positive")
	f.Check(p.DailyDamagesRate > 0, "daily_damages_rate", "daily_damages_rate must be positive")
	f.Check(p.EstimatedCost >= 0, "estimated_cost", "estimated_cost cannot be negative")
	f.Check(p.CapPercent >= 100, "cap_percent", "cap_percent must be at least 100")
	f.Check(p.Confirm30PercentRule, "confirm_30_percent_rule",
		"the contractor must confirm the cost stays within damages plus 30 %")
	if p.RejectedDaysTotal > 0 && p.DailyDamagesRate > 0 && p.CapPercent > 0 {
		limit := AccelerationCap(p.RejectedDaysTotal, p.DailyDamagesRate, p.CapPercent)
		f.Check(p.CostCap == limit, "cost_cap", "cost_cap does not match rejected days and damages rate")
		f.Check(p.EstimatedCost <= limit, "estimated_cost", "estimated_cost exceeds the acceleration cost cap")
	}
	checkRationale(&f, p.Rationale, false)
	return f.Err("invalid acceleration")
}

// AccelerationCostUpdated appends the accrued (cumulative) cost.
type AccelerationCostUpdated struct {
	AccruedCost int64  `json:"accrued_cost"`
	Comment     string `json:"comment,omitempty"`
}

func (p AccelerationCostUpdated) Validate() error {
	var f dErrors.Fields
	f.Check(p.AccruedCost >= 0, "accrued_cost", "accrued_cost cannot be negative")
	return f.Err("invalid acceleration cost")
}

// AccelerationStopped ends the acceleration.
type AccelerationStopped struct {
	Reason string `json:"reason,omitempty"`
}

func (p AccelerationStopped) Validate() error { return nil }

// ChangeOrderClaim snapshots the approved figures of a claim included in a
// change order.
type ChangeOrderClaim struct {
	CaseID         string `json:"case_id"`
	ApprovedAmount int64  `json:"approved_amount"`
	ApprovedDays   int    `json:"approved_days"`
}

// ChangeOrderCreated opens a change order aggregating approved claims.
type ChangeOrderCreated struct {
	Title        string             `json:"title"`
	BasisCaseIDs []string           `json:"basis_case_ids"`
	Claims       []ChangeOrderClaim `json:"claims,omitempty"`
}

func (p ChangeOrderCreated) Validate() error {
	var f dErrors.Fields
	checkCaseIDs(&f, "basis_case_ids", p.BasisCaseIDs)
	f.Check(len(p.Title) <= 200, "title", "title must be 200 characters or less")
	return f.Err("invalid change order")
}

// ChangeOrderClaimAdded includes another approved claim.
type ChangeOrderClaimAdded struct {
	Claim ChangeOrderClaim `json:"claim"`
}

func (p ChangeOrderClaimAdded) Validate() error {
	var f dErrors.Fields
	f.Check(strings.TrimSpace(p.Claim.CaseID) != "", "claim.case_id", "case id is required")
	return f.Err("invalid change order claim")
}

// ImpactFlags record which contract terms the change order alters.
type ImpactFlags struct {
	Schedule bool `json:"schedule"`
	Price    bool `json:"price"`
}

// ChangeOrderTerms are the figures fixed by issuing (or revising) a change
// order.
type ChangeOrderTerms struct {
	Compensation   int64            `json:"compensation"`
	Days           int              `json:"days"`
	NewEndDate     *time.Time       `json:"new_end_date,omitempty"`
	SettlementForm SettlementMethod `json:"settlement_form"`
	Impact         ImpactFlags      `json:"impact"`
	Rationale      string           `json:"rationale,omitempty"`
}

func (p ChangeOrderTerms) Validate() error {
	var f dErrors.Fields
	f.Check(p.Compensation >= 0, "compensation", "compensation cannot be negative")
	f.Check(p.Days >= 0, "days", "days cannot be negative")
	f.Check(p.SettlementForm.IsValid(), "settlement_form", "unknown settlement form")
	if p.Days > 0 {
		f.Check(p.NewEndDate != nil, "new_end_date", "new_end_date is required when days are granted")
		f.Check(p.Impact.Schedule, "impact.schedule", "schedule impact must be set when days are granted")
	} else {
		f.Check(!p.Impact.Schedule || p.NewEndDate != nil, "new_end_date",
			"schedule impact requires a new end date")
	}
	if p.Compensation > 0 {
		f.Check(p.Impact.Price, "impact.price", "price impact must be set when compensation is granted")
	}
	checkRationale(&f, p.Rationale, false)
	return f.Err("invalid change order terms")
}

// ChangeOrderAccepted is the contractor accepting the issued change order.
type ChangeOrderAccepted struct {
	Comment string `json:"comment,omitempty"`
}

func (p ChangeOrderAccepted) Validate() error { return nil }

// ChangeOrderRejected is the contractor rejecting the issued change order.
type ChangeOrderRejected struct {
	Rationale string `json:"rationale"`
}

func (p ChangeOrderRejected) Validate() error {
	var f dErrors.Fields
	checkRationale(&f, p.Rationale, true)
	return f.Err("invalid change order rejection")
}

func checkCaseIDs(f *dErrors.Fields, field string, ids []string) {
	if len(ids) == 0 {
		f.Add(field, "at least one case id is required")
		return
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			f.Add(field, "case ids cannot be empty")
			return
		}
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	if len(slices.Compact(sorted)) != len(ids) {
		f.Add(field, "case ids must be unique")
	}
}
