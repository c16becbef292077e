// Package models defines the domain types for Hearth.
package models

import "time"

// PersonKind distinguishes live account-backed members from historical
// ancestors that exist only as tree records.
type PersonKind string

// Person kinds.
const (
	KindMember   PersonKind = "member"
	KindAncestor PersonKind = "ancestor"
)

// PlaceholderName is the sentinel stored for a member whose canonical
// profile has not been resolved yet. The reconciler replaces it once the
// account directory returns a real name.
const PlaceholderName = "New Member"

// Person is a node in the family graph. For members the ID is the account
// id; for ancestors it is generated at creation time.
//
// FatherID/MotherID each reference at most one other person. SpouseID is
// symmetric and single-valued: a person has at most one recorded spouse at
// a time, and the store keeps both back-pointers in sync. Edge targets are
// not validated at write time; the graph assembler flags dangling targets
// and cycles when it builds the forest.
type Person struct {
	ID           string     `json:"id"`
	HouseholdID  string     `json:"household_id"`
	Kind         PersonKind `json:"kind"`
	DisplayName  string     `json:"display_name"`
	FullName     string     `json:"full_name,omitempty"`
	BirthDate    string     `json:"birth_date,omitempty"`
	RoleTag      string     `json:"role,omitempty"`
	FatherID     string     `json:"father_id,omitempty"`
	MotherID     string     `json:"mother_id,omitempty"`
	SpouseID     string     `json:"spouse_id,omitempty"`
	Profession   string     `json:"profession,omitempty"`
	Bio          string     `json:"bio,omitempty"`
	HealthIssues []string   `json:"health_issues,omitempty"`
	GroupScope   string     `json:"group_scope,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Role returns the closed role variant parsed from the free-text tag.
func (p *Person) Role() Role {
	return ParseRole(p.RoleTag)
}

// NameUnresolved reports whether the person still carries placeholder or
// empty name fields and needs reconciliation.
func (p *Person) NameUnresolved() bool {
	return p.DisplayName == "" || p.DisplayName == PlaceholderName ||
		p.FullName == "" || p.FullName == PlaceholderName
}

// PersonPatch is a partial update applied with merge semantics: nil fields
// are left untouched. Last write wins per field; no history is kept.
type PersonPatch struct {
	Kind         *PersonKind
	DisplayName  *string
	FullName     *string
	BirthDate    *string
	RoleTag      *string
	FatherID     *string
	MotherID     *string
	SpouseID     *string
	Profession   *string
	Bio          *string
	HealthIssues *[]string
	GroupScope   *string
}

// StringPtr is a convenience for building patches.
func StringPtr(s string) *string { return &s }
