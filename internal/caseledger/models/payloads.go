package models

import (
	"strings"
	"time"

	dErrors "koe/pkg/domain-errors"
)

const maxRationaleLength = 10000

// Notice records one prior notice given by the contractor.
type Notice struct {
	Kind   NoticeKind   `json:"kind"`
	SentAt time.Time    `json:"sent_at"`
	Method NoticeMethod `json:"method"`
}

// Notices is an ordered list of notices with lookup helpers.
type Notices []Notice

// Find returns the notice of kind k.
func (n Notices) Find(k NoticeKind) (Notice, bool) {
	for _, notice := range n {
		if notice.Kind == k {
			return notice, true
		}
	}
	return Notice{}, false
}

func (n Notices) validate() dErrors.Fields {
	var f dErrors.Fields
	seen := make(map[NoticeKind]bool, len(n))
	for _, notice := range n {
		if !notice.Kind.IsValid() {
			f.Add("notices.kind", "kind must be neutral or itemized")
			continue
		}
		if seen[notice.Kind] {
			f.Add("notices.kind", "duplicate "+string(notice.Kind)+" notice")
		}
		seen[notice.Kind] = true
		f.Check(!notice.SentAt.IsZero(), "notices.sent_at", string(notice.Kind)+" notice date is required")
		f.Check(notice.Method.IsValid(), "notices.method", string(notice.Kind)+" notice method is required")
	}
	neutral, hasNeutral := n.Find(NoticeNeutral)
	itemized, hasItemized := n.Find(NoticeItemized)
	if hasNeutral && hasItemized && itemized.SentAt.Before(neutral.SentAt) {
		f.Add("notices.sent_at", "itemized notice cannot precede the neutral notice")
	}
	return f
}

func checkRationale(f *dErrors.Fields, rationale string, required bool) {
	if required && strings.TrimSpace(rationale) == "" {
		f.Add("rationale", "rationale is required")
	}
	if len(rationale) > maxRationaleLength {
		f.Add("rationale", "rationale is too long")
	}
}

// CaseCreated opens a claim case with its basis notice.
type CaseCreated struct {
	Title         string     `json:"title"`
	Categories    Categories `json:"categories"`
	Subcategories Categories `json:"subcategories,omitempty"`
	Description   string     `json:"description"`
	DiscoveredAt  time.Time  `json:"discovered_at"`
	NotifiedAt    time.Time  `json:"notified_at"`
}

// IsForceMajeure reports whether the basis is a force majeure event.
func (p CaseCreated) IsForceMajeure() bool {
	return p.Categories.Has(CategoryForceMajeure)
}

func (p CaseCreated) Validate() error {
	var f dErrors.Fields
	f.Check(strings.TrimSpace(p.Title) != "", "title", "title is required")
	f.Check(len(p.Title) <= 200, "title", "title must be 200 characters or less")
	f.Check(len(p.Categories) > 0, "categories", "at least one category is required")
	for _, c := range p.Categories {
		f.Check(IsMainCategory(c), "categories", "unknown category "+c)
	}
	f.Check(!p.NotifiedAt.IsZero(), "notified_at", "notice date is required")
	if !p.DiscoveredAt.IsZero() && !p.NotifiedAt.IsZero() {
		f.Check(!p.NotifiedAt.Before(p.DiscoveredAt), "notified_at", "notice cannot precede discovery")
	}
	checkRationale(&f, p.Description, true)
	return f.Err("invalid case")
}

// BasisResponse is the owner's position on the basis notice.
type BasisResponse struct {
	Outcome   BasisOutcome `json:"outcome"`
	Rationale string       `json:"rationale"`
}

func (p BasisResponse) Validate() error {
	var f dErrors.Fields
	f.Check(p.Outcome.IsValid(), "outcome", "outcome must be approved or rejected")
	checkRationale(&f, p.Rationale, p.Outcome == BasisRejected)
	return f.Err("invalid basis response")
}

// BasisUpdated revises the basis notice after a dispute.
type BasisUpdated struct {
	Description string     `json:"description"`
	Categories  Categories `json:"categories,omitempty"`
	Rationale   string     `json:"rationale"`
}

func (p BasisUpdated) Validate() error {
	var f dErrors.Fields
	checkRationale(&f, p.Description, true)
	for _, c := range p.Categories {
		f.Check(IsMainCategory(c), "categories", "unknown category "+c)
	}
	return f.Err("invalid basis update")
}

// BasisPassivelyAccepted persists a deemed acceptance of the basis notice.
type BasisPassivelyAccepted struct {
	Clause     string    `json:"clause"`
	NoticeDate time.Time `json:"notice_date"`
	DeemedAt   time.Time `json:"deemed_at"`
}

func (p BasisPassivelyAccepted) Validate() error {
	var f dErrors.Fields
	f.Check(p.Clause != "", "clause", "clause is required")
	f.Check(!p.DeemedAt.IsZero(), "deemed_at", "deemed_at is required")
	f.Check(!p.DeemedAt.Before(p.NoticeDate), "deemed_at", "deemed_at cannot precede the notice date")
	return f.Err("invalid passive acceptance")
}

// DeadlineClaim requests a deadline extension. A neutral submission only
// warns; an itemized submission quantifies the days.
type DeadlineClaim struct {
	NoticeType    NoticeKind `json:"notice_type"`
	Notices       Notices    `json:"notices"`
	RequestedDays int        `json:"requested_days"`
	Rationale     string     `json:"rationale"`
}

// IsItemized reports whether the claim quantifies the extension.
func (p DeadlineClaim) IsItemized() bool { return p.NoticeType == NoticeItemized }

func (p DeadlineClaim) fields() dErrors.Fields {
	var f dErrors.Fields
	f.Check(p.NoticeType.IsValid(), "notice_type", "notice_type must be neutral or itemized")
	f = append(f, p.Notices.validate()...)
	_, hasNeutral := p.Notices.Find(NoticeNeutral)
	_, hasItemized := p.Notices.Find(NoticeItemized)
	switch p.NoticeType {
	case NoticeNeutral:
		f.Check(hasNeutral, "notices", "neutral notice date is required")
		f.Check(!hasItemized, "notices", "a neutral claim cannot carry an itemized notice")
		f.Check(p.RequestedDays == 0, "requested_days", "requested_days belongs on the itemized claim")
	case NoticeItemized:
		f.Check(hasItemized, "notices", "itemized notice date is required")
		f.Check(p.RequestedDays > 0, "requested_days", "requested_days must be positive")
		checkRationale(&f, p.Rationale, true)
	}
	return f
}

func (p DeadlineClaim) Validate() error {
	return p.fields().Err("invalid deadline claim")
}

// NoticeTimeliness holds the owner's assessment per notice. Nil means the
// notice was not given and therefore not assessed.
type NoticeTimeliness struct {
	Neutral  *bool `json:"neutral,omitempty"`
	Itemized *bool `json:"itemized,omitempty"`
}

// DeadlineResponse is the owner's answer to the current deadline claim.
type DeadlineResponse struct {
	Timeliness    NoticeTimeliness `json:"notice_timeliness"`
	ConditionsMet bool             `json:"conditions_met"`
	Outcome       ResponseOutcome  `json:"outcome,omitempty"`
	ApprovedDays  int              `json:"approved_days"`
	Rationale     string           `json:"rationale"`
}

func (p DeadlineResponse) Validate() error {
	var f dErrors.Fields
	f.Check(p.ApprovedDays >= 0, "approved_days", "approved_days cannot be negative")
	f.Check(p.Outcome == "" || p.Outcome.IsValid(), "outcome", "unknown outcome")
	checkRationale(&f, p.Rationale, p.Outcome != OutcomeApproved)
	return f.Err("invalid deadline response")
}

// SpecialClaim is an itemized compensation item with its own notice date.
type SpecialClaim struct {
	Kind         SpecialClaimKind `json:"kind"`
	Amount       int64            `json:"amount"`
	NoticeSentAt time.Time        `json:"notice_sent_at"`
}

// CompensationClaim requests payment for the consequences of the basis.
// EstimatedAmount may be omitted for time-and-materials settlement.
type CompensationClaim struct {
	Method          SettlementMethod `json:"method"`
	Notices         Notices          `json:"notices"`
	EstimatedAmount *int64           `json:"estimated_amount,omitempty"`
	SpecialClaims   []SpecialClaim   `json:"special_claims,omitempty"`
	Rationale       string           `json:"rationale"`
}

// RequestedAmount is the estimate plus special claims, or nil when neither
// was quantified.
func (p CompensationClaim) RequestedAmount() *int64 {
	if p.EstimatedAmount == nil && len(p.SpecialClaims) == 0 {
		return nil
	}
	var total int64
	if p.EstimatedAmount != nil {
		total = *p.EstimatedAmount
	}
	for _, sc := range p.SpecialClaims {
		total += sc.Amount
	}
	return &total
}

func (p CompensationClaim) fields() dErrors.Fields {
	var f dErrors.Fields
	f.Check(p.Method.IsValid(), "method", "unknown settlement method")
	f.Check(len(p.Notices) > 0, "notices", "at least one notice date is required")
	f = append(f, p.Notices.validate()...)
	if p.EstimatedAmount != nil {
		f.Check(*p.EstimatedAmount >= 0, "estimated_amount", "estimated_amount cannot be negative")
	} else {
		f.Check(p.Method == SettlementTimeAndMaterials, "estimated_amount",
			"estimated_amount is required unless settled as time and materials")
	}
	seen := make(map[SpecialClaimKind]bool, len(p.SpecialClaims))
	for _, sc := range p.SpecialClaims {
		if !sc.Kind.IsValid() {
			f.Add("special_claims.kind", "unknown special claim kind")
			continue
		}
		f.Check(!seen[sc.Kind], "special_claims.kind", "duplicate "+string(sc.Kind)+" claim")
		seen[sc.Kind] = true
		f.Check(sc.Amount >= 0, "special_claims.amount", string(sc.Kind)+" amount cannot be negative")
		f.Check(!sc.NoticeSentAt.IsZero(), "special_claims.notice_sent_at", string(sc.Kind)+" notice date is required")
	}
	checkRationale(&f, p.Rationale, true)
	return f
}

func (p CompensationClaim) Validate() error {
	return p.fields().Err("invalid compensation claim")
}

// CompensationResponse is the owner's answer to the current compensation
// claim.
type CompensationResponse struct {
	Outcome        ResponseOutcome   `json:"outcome"`
	ApprovedAmount int64             `json:"approved_amount"`
	AcceptedMethod *SettlementMethod `json:"accepted_method,omitempty"`
	Rationale      string            `json:"rationale"`
}

func (p CompensationResponse) Validate() error {
	var f dErrors.Fields
	f.Check(p.Outcome.IsValid(), "outcome", "outcome is required")
	f.Check(p.ApprovedAmount >= 0, "approved_amount", "approved_amount cannot be negative")
	if p.AcceptedMethod != nil {
		f.Check(p.AcceptedMethod.IsValid(), "accepted_method", "unknown settlement method")
	}
	checkRationale(&f, p.Rationale, p.Outcome != OutcomeApproved)
	return f.Err("invalid compensation response")
}

// CombinedClaim submits deadline and compensation claims in one event.
type CombinedClaim struct {
	ClaimsDeadline     bool               `json:"claims_deadline"`
	ClaimsCompensation bool               `json:"claims_compensation"`
	Deadline           *DeadlineClaim     `json:"deadline,omitempty"`
	Compensation       *CompensationClaim `json:"compensation,omitempty"`
}

func (p CombinedClaim) Validate() error {
	var f dErrors.Fields
	f.Check(p.ClaimsDeadline || p.ClaimsCompensation, "claims",
		"at least one of claims_deadline or claims_compensation must be set")
	f.Check(p.ClaimsDeadline == (p.Deadline != nil), "deadline", "deadline claim must match claims_deadline")
	f.Check(p.ClaimsCompensation == (p.Compensation != nil), "compensation",
		"compensation claim must match claims_compensation")
	if p.Deadline != nil {
		f.Merge("deadline", p.Deadline.fields())
	}
	if p.Compensation != nil {
		f.Merge("compensation", p.Compensation.fields())
	}
	return f.Err("invalid combined claim")
}

// CaseWithdrawn is the contractor withdrawing the case.
type CaseWithdrawn struct {
	Reason string `json:"reason"`
}

func (p CaseWithdrawn) Validate() error {
	var f dErrors.Fields
	checkRationale(&f, p.Reason, false)
	return f.Err("invalid withdrawal")
}

// CaseClosed terminates any case kind.
type CaseClosed struct {
	Reason string `json:"reason"`
}

func (p CaseClosed) Validate() error {
	var f dErrors.Fields
	checkRationale(&f, p.Reason, true)
	return f.Err("invalid close")
}
