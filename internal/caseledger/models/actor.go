package models

// Role identifies the party an actor acts for.
type Role string

// Claim ledger roles.
const (
	RoleContractor    Role = "TE"
	RoleOwner         Role = "BH"
	RoleSystem        Role = "SYSTEM"
	RoleAdministrator Role = "PL"
)

// Exemption-application roles. They share the event schema but are not
// accepted on claim cases.
const (
	RoleApplicant    Role = "SOKER"
	RoleBoard        Role = "RADGIVER"
	RoleProjectOwner Role = "PROSJEKTEIER"
)

// IsValid reports whether r is any known role.
func (r Role) IsValid() bool {
	switch r {
	case RoleContractor, RoleOwner, RoleSystem, RoleAdministrator,
		RoleApplicant, RoleBoard, RoleProjectOwner:
		return true
	}
	return false
}

// IsClaimRole reports whether r may act on claim ledger cases.
func (r Role) IsClaimRole() bool {
	switch r {
	case RoleContractor, RoleOwner, RoleSystem, RoleAdministrator:
		return true
	}
	return false
}

// Actor is the authenticated party behind a submission.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// SystemActor is used by background workers.
var SystemActor = Actor{ID: "system", Role: RoleSystem}
