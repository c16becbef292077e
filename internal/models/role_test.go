package models

import "testing"

func TestParseRoleKnownTags(t *testing.T) {
	tests := []struct {
		tag    string
		kind   RoleKind
		gender Gender
	}{
		{"father", RoleParent, GenderMale},
		{"Mom", RoleParent, GenderFemale},
		{"  DAUGHTER ", RoleChild, GenderFemale},
		{"grandparent", RoleGrandparent, GenderNeutral},
		{"wife", RoleSpouse, GenderFemale},
		{"uncle", RoleOther, GenderMale},
	}
	for _, tt := range tests {
		got := ParseRole(tt.tag)
		if got.Kind != tt.kind || got.Gender != tt.gender {
			t.Errorf("ParseRole(%q) = %+v, want {%s %s}", tt.tag, got, tt.kind, tt.gender)
		}
	}
}

func TestParseRoleUnknownFallsBack(t *testing.T) {
	for _, tag := range []string{"", "astronaut", "cool-dad-2000"} {
		got := ParseRole(tag)
		if got.Kind != RoleOther || got.Gender != GenderNeutral {
			t.Errorf("ParseRole(%q) = %+v, want neutral other", tag, got)
		}
	}
}

func TestNameUnresolved(t *testing.T) {
	p := Person{DisplayName: PlaceholderName, FullName: "Real Name"}
	if !p.NameUnresolved() {
		t.Error("placeholder display name must count as unresolved")
	}
	p = Person{DisplayName: "Real", FullName: "Real Name"}
	if p.NameUnresolved() {
		t.Error("fully named person reported unresolved")
	}
	p = Person{DisplayName: "Real"}
	if !p.NameUnresolved() {
		t.Error("empty full name must count as unresolved")
	}
}
