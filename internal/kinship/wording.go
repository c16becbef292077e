package kinship

import (
	"fmt"
	"strings"

	"github.com/hearthhq/hearth/internal/models"
)

// Wording is derived from the closed Role variant parsed off each node's
// self-reported role tag; the tag is a gender hint for phrasing only,
// never ground truth, so every gendered form has a neutral fallback.

func pick(g models.Gender, male, female, neutral string) string {
	switch g {
	case models.GenderMale:
		return male
	case models.GenderFemale:
		return female
	default:
		return neutral
	}
}

func spouseLabel(to *models.Person) Label {
	return Label{Kind: KindSpouse, Text: pick(to.Role().Gender, "husband", "wife", "spouse")}
}

func descendantLabel(depth int, role models.Role, to *models.Person) Label {
	g := role.Gender
	switch depth {
	case 1:
		return Label{Kind: KindChild, Text: pick(g, "son", "daughter", "child")}
	case 2:
		return Label{Kind: KindGrandchild, Text: pick(g, "grandson", "granddaughter", "grandchild")}
	default:
		text := greatPrefix(depth-2) + pick(g, "grandson", "granddaughter", "grandchild")
		return Label{Kind: KindDescendant, Generations: depth, Text: text}
	}
}

func ancestorLabel(depth int, role models.Role, to *models.Person) Label {
	g := role.Gender
	switch depth {
	case 1:
		return Label{Kind: KindParent, Text: pick(g, "father", "mother", "parent")}
	case 2:
		return Label{Kind: KindGrandparent, Text: pick(g, "grandfather", "grandmother", "grandparent")}
	default:
		text := greatPrefix(depth-2) + pick(g, "grandfather", "grandmother", "grandparent")
		return Label{Kind: KindAncestor, Generations: depth, Text: text}
	}
}

func siblingText(role models.Role, full bool) string {
	base := pick(role.Gender, "brother", "sister", "sibling")
	if !full {
		return "half-" + base
	}
	return base
}

func auntUncleText(role models.Role) string {
	return pick(role.Gender, "uncle", "aunt", "aunt or uncle")
}

func nieceNephewText(role models.Role) string {
	return pick(role.Gender, "nephew", "niece", "niece or nephew")
}

func cousinText(degree, removed int) string {
	text := fmt.Sprintf("%s cousin", ordinal(degree))
	switch removed {
	case 0:
	case 1:
		text += " once removed"
	case 2:
		text += " twice removed"
	default:
		text += fmt.Sprintf(" %d times removed", removed)
	}
	return text
}

func greatPrefix(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("great-", n)
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "first"
	case 2:
		return "second"
	case 3:
		return "third"
	default:
		suffix := "th"
		switch n % 10 {
		case 1:
			if n%100 != 11 {
				suffix = "st"
			}
		case 2:
			if n%100 != 12 {
				suffix = "nd"
			}
		case 3:
			if n%100 != 13 {
				suffix = "rd"
			}
		}
		return fmt.Sprintf("%d%s", n, suffix)
	}
}

// reword rebuilds a label's text for a different target person, used by
// the in-law pass so "brother-in-law" takes its gender hint from the
// in-law, not from the blood relative the label was computed against.
func reword(lbl Label, to *models.Person) Label {
	role := to.Role()
	switch lbl.Kind {
	case KindChild, KindGrandchild, KindDescendant:
		depth := lbl.Generations
		if lbl.Kind == KindChild {
			depth = 1
		} else if lbl.Kind == KindGrandchild {
			depth = 2
		}
		out := descendantLabel(depth, role, to)
		out.InLaw = lbl.InLaw
		return out
	case KindParent, KindGrandparent, KindAncestor:
		depth := lbl.Generations
		if lbl.Kind == KindParent {
			depth = 1
		} else if lbl.Kind == KindGrandparent {
			depth = 2
		}
		out := ancestorLabel(depth, role, to)
		out.InLaw = lbl.InLaw
		return out
	case KindSibling:
		lbl.Text = siblingText(role, lbl.Full)
	case KindAuntUncle:
		lbl.Text = greatPrefix(lbl.Generations-1) + auntUncleText(role)
	case KindNieceNephew:
		lbl.Text = greatPrefix(lbl.Generations-1) + nieceNephewText(role)
	case KindCousin:
		lbl.Text = cousinText(lbl.Degree, lbl.Removed)
	}
	return lbl
}
