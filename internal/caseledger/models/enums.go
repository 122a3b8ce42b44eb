package models

import (
	"fmt"
	"strings"
)

// ResponseOutcome is the owner's verdict on a deadline or compensation claim.
type ResponseOutcome string

const (
	OutcomeApproved          ResponseOutcome = "approved"
	OutcomePartiallyApproved ResponseOutcome = "partially_approved"
	OutcomeRejectedDisputed  ResponseOutcome = "rejected_disputed"
	OutcomeRejectedLate      ResponseOutcome = "rejected_late"
	OutcomePendingMoreInfo   ResponseOutcome = "pending_more_info"
)

// IsValid reports whether o is a recognised outcome code.
func (o ResponseOutcome) IsValid() bool {
	switch o {
	case OutcomeApproved, OutcomePartiallyApproved, OutcomeRejectedDisputed,
		OutcomeRejectedLate, OutcomePendingMoreInfo:
		return true
	}
	return false
}

// IsRejection reports whether o denies (part of) the claim.
func (o ResponseOutcome) IsRejection() bool {
	switch o {
	case OutcomePartiallyApproved, OutcomeRejectedDisputed, OutcomeRejectedLate:
		return true
	}
	return false
}

// UnmarshalText rejects unrecognised codes at the boundary.
func (o *ResponseOutcome) UnmarshalText(b []byte) error {
	v := ResponseOutcome(strings.TrimSpace(string(b)))
	if v != "" && !v.IsValid() {
		return fmt.Errorf("unknown response outcome %q", v)
	}
	*o = v
	return nil
}

// BasisOutcome is the owner's verdict on the basis notice.
type BasisOutcome string

const (
	BasisApproved BasisOutcome = "approved"
	BasisRejected BasisOutcome = "rejected"
)

func (o BasisOutcome) IsValid() bool {
	return o == BasisApproved || o == BasisRejected
}

func (o *BasisOutcome) UnmarshalText(b []byte) error {
	v := BasisOutcome(strings.TrimSpace(string(b)))
	if v != "" && !v.IsValid() {
		return fmt.Errorf("unknown basis outcome %q", v)
	}
	*o = v
	return nil
}

// NoticeKind is the stage of the two-step notice requirement.
type NoticeKind string

const (
	NoticeNeutral  NoticeKind = "neutral"
	NoticeItemized NoticeKind = "itemized"
)

func (k NoticeKind) IsValid() bool {
	return k == NoticeNeutral || k == NoticeItemized
}

func (k *NoticeKind) UnmarshalText(b []byte) error {
	v := NoticeKind(strings.TrimSpace(string(b)))
	if v != "" && !v.IsValid() {
		return fmt.Errorf("unknown notice kind %q", v)
	}
	*k = v
	return nil
}

// NoticeMethod records how a notice was delivered.
type NoticeMethod string

const (
	MethodEmail          NoticeMethod = "email"
	MethodLetter         NoticeMethod = "letter"
	MethodMeetingMinutes NoticeMethod = "meeting_minutes"
	MethodProjectPortal  NoticeMethod = "project_portal"
)

func (m NoticeMethod) IsValid() bool {
	switch m {
	case MethodEmail, MethodLetter, MethodMeetingMinutes, MethodProjectPortal:
		return true
	}
	return false
}

func (m *NoticeMethod) UnmarshalText(b []byte) error {
	v := NoticeMethod(strings.TrimSpace(string(b)))
	if v != "" && !v.IsValid() {
		return fmt.Errorf("unknown notice method %q", v)
	}
	*m = v
	return nil
}

// SettlementMethod is how a compensation claim or change order is priced.
type SettlementMethod string

const (
	SettlementUnitPrices       SettlementMethod = "unit_prices"
	SettlementAgreedPrice      SettlementMethod = "agreed_price"
	SettlementTimeAndMaterials SettlementMethod = "time_and_materials"
	SettlementLumpSum          SettlementMethod = "lump_sum"
)

func (m SettlementMethod) IsValid() bool {
	switch m {
	case SettlementUnitPrices, SettlementAgreedPrice, SettlementTimeAndMaterials, SettlementLumpSum:
		return true
	}
	return false
}

func (m *SettlementMethod) UnmarshalText(b []byte) error {
	v := SettlementMethod(strings.TrimSpace(string(b)))
	if v != "" && !v.IsValid() {
		return fmt.Errorf("unknown settlement method %q", v)
	}
	*m = v
	return nil
}

// SpecialClaimKind names an itemized special compensation claim.
type SpecialClaimKind string

const (
	SpecialSiteOverhead     SpecialClaimKind = "site_overhead"
	SpecialProductivityLoss SpecialClaimKind = "productivity_loss"
)

func (k SpecialClaimKind) IsValid() bool {
	return k == SpecialSiteOverhead || k == SpecialProductivityLoss
}

func (k *SpecialClaimKind) UnmarshalText(b []byte) error {
	v := SpecialClaimKind(strings.TrimSpace(string(b)))
	if v != "" && !v.IsValid() {
		return fmt.Errorf("unknown special claim kind %q", v)
	}
	*k = v
	return nil
}

// RelationKind labels a cross-case reference.
type RelationKind string

const (
	RelationAcceleration RelationKind = "acceleration"
	RelationChangeOrder  RelationKind = "change_order"
)

func (k RelationKind) IsValid() bool {
	return k == RelationAcceleration || k == RelationChangeOrder
}

func (k *RelationKind) UnmarshalText(b []byte) error {
	v := RelationKind(strings.TrimSpace(string(b)))
	if v != "" && !v.IsValid() {
		return fmt.Errorf("unknown relation kind %q", v)
	}
	*k = v
	return nil
}
