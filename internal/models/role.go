package models

import "strings"

// Gender is a hint derived from the self-reported role tag. It is used
// only to pick gendered wording for relationship labels, never as ground
// truth about a person.
type Gender string

// Gender hints.
const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderNeutral Gender = "neutral"
)

// RoleKind is the closed set of generation positions a role tag can imply.
type RoleKind string

// Role kinds.
const (
	RoleParent      RoleKind = "parent"
	RoleChild       RoleKind = "child"
	RoleGrandparent RoleKind = "grandparent"
	RoleSpouse      RoleKind = "spouse"
	RoleOther       RoleKind = "other"
)

// Role is the tagged variant behind a person's free-text role tag. The
// relationship engine and any rendering layer consume this type; raw role
// strings are parsed exactly once, here.
type Role struct {
	Kind   RoleKind
	Gender Gender
}

var roleTags = map[string]Role{
	"father":      {Kind: RoleParent, Gender: GenderMale},
	"dad":         {Kind: RoleParent, Gender: GenderMale},
	"mother":      {Kind: RoleParent, Gender: GenderFemale},
	"mom":         {Kind: RoleParent, Gender: GenderFemale},
	"parent":      {Kind: RoleParent, Gender: GenderNeutral},
	"son":         {Kind: RoleChild, Gender: GenderMale},
	"daughter":    {Kind: RoleChild, Gender: GenderFemale},
	"child":       {Kind: RoleChild, Gender: GenderNeutral},
	"grandfather": {Kind: RoleGrandparent, Gender: GenderMale},
	"grandmother": {Kind: RoleGrandparent, Gender: GenderFemale},
	"grandparent": {Kind: RoleGrandparent, Gender: GenderNeutral},
	"husband":     {Kind: RoleSpouse, Gender: GenderMale},
	"wife":        {Kind: RoleSpouse, Gender: GenderFemale},
	"brother":     {Kind: RoleOther, Gender: GenderMale},
	"sister":      {Kind: RoleOther, Gender: GenderFemale},
	"uncle":       {Kind: RoleOther, Gender: GenderMale},
	"aunt":        {Kind: RoleOther, Gender: GenderFemale},
}

// ParseRole maps a free-text role tag to its closed variant. Unknown tags
// parse as {Other, Neutral} so display code can still fall back to the raw
// tag while the relationship engine stays string-free.
func ParseRole(tag string) Role {
	if r, ok := roleTags[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return r
	}
	return Role{Kind: RoleOther, Gender: GenderNeutral}
}
