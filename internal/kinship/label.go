// Package kinship computes human-readable relationship labels between two
// nodes of an assembled family graph. Everything here is a pure function
// of the graph; there is no store or network access.
package kinship

import (
	"errors"

	"github.com/hearthhq/hearth/internal/familygraph"
	"github.com/hearthhq/hearth/internal/models"
)

// MaxDepth caps the upward walks even on graphs that were never run
// through Assemble.
const MaxDepth = 16

// Kind is the machine-readable relationship class. Wording is derived
// separately so symmetry properties can be checked on Kind alone.
type Kind string

// Relationship kinds, named for what the target node is relative to the
// starting node.
const (
	KindSpouse      Kind = "spouse"
	KindParent      Kind = "parent"
	KindChild       Kind = "child"
	KindSibling     Kind = "sibling"
	KindGrandparent Kind = "grandparent"
	KindGrandchild  Kind = "grandchild"
	KindAncestor    Kind = "ancestor"
	KindDescendant  Kind = "descendant"
	KindAuntUncle   Kind = "aunt_uncle"
	KindNieceNephew Kind = "niece_nephew"
	KindCousin      Kind = "cousin"
	KindUnrelated   Kind = "unrelated"
)

// Label describes what the target node is relative to the starting node:
// Label(g, A, B).Text reads as "B is A's <Text>".
type Label struct {
	Kind        Kind   `json:"kind"`
	Generations int    `json:"generations,omitempty"`
	Degree      int    `json:"degree,omitempty"`
	Removed     int    `json:"removed,omitempty"`
	Full        bool   `json:"full,omitempty"`
	InLaw       bool   `json:"in_law,omitempty"`
	Text        string `json:"text"`
}

// Errors returned for caller mistakes. Disconnected trees are not an
// error; they produce the unrelated fallback label.
var (
	ErrSameNode    = errors.New("kinship: from and to are the same node")
	ErrUnknownNode = errors.New("kinship: node not in graph")
)

// ComputeLabel returns the relationship of to relative to from.
func ComputeLabel(g *familygraph.Graph, fromID, toID string) (Label, error) {
	if fromID == toID {
		return Label{}, ErrSameNode
	}
	from := g.Node(fromID)
	to := g.Node(toID)
	if from == nil || to == nil {
		return Label{}, ErrUnknownNode
	}

	if sp := g.SpouseOf(fromID); sp != nil && sp.ID == toID {
		return spouseLabel(to), nil
	}
	if sp := g.SpouseOf(toID); sp != nil && sp.ID == fromID {
		return spouseLabel(to), nil
	}

	if lbl, ok := bloodLabel(g, fromID, toID); ok {
		return lbl, nil
	}

	// In-law pass: a blood relation to the target's spouse, or the
	// target's blood relation to our spouse, carries over with an
	// "-in-law" suffix.
	if sp := g.SpouseOf(toID); sp != nil && sp.ID != fromID {
		if lbl, ok := bloodLabel(g, fromID, sp.ID); ok {
			return inLaw(lbl, to), nil
		}
	}
	if sp := g.SpouseOf(fromID); sp != nil && sp.ID != toID {
		if lbl, ok := bloodLabel(g, sp.ID, toID); ok {
			return inLaw(lbl, to), nil
		}
	}

	return Label{Kind: KindUnrelated, Text: "no known relation"}, nil
}

// ancestorDistances walks upward from id, recording the minimum distance
// to every reachable ancestor (the node itself at distance 0), bounded by
// MaxDepth. It also records how many distinct parent edges of the start
// node lead to each ancestor, which feeds the full-vs-half tie-break.
func ancestorDistances(g *familygraph.Graph, id string) (map[string]int, map[string]int) {
	dist := map[string]int{id: 0}
	viaEdges := map[string]int{}

	type item struct {
		id   string
		d    int
		edge int // index of the start node's parent edge this path went through
	}
	var queue []item

	father, mother := g.ParentsOf(id)
	if father != nil {
		queue = append(queue, item{father.ID, 1, 0})
	}
	if mother != nil {
		queue = append(queue, item{mother.ID, 1, 1})
	}

	seenVia := map[string][2]bool{}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.d > MaxDepth {
			continue
		}
		if prev, ok := dist[cur.id]; !ok || cur.d < prev {
			dist[cur.id] = cur.d
		}
		via := seenVia[cur.id]
		if !via[cur.edge] {
			via[cur.edge] = true
			seenVia[cur.id] = via
			viaEdges[cur.id]++
			f, m := g.ParentsOf(cur.id)
			if f != nil {
				queue = append(queue, item{f.ID, cur.d + 1, cur.edge})
			}
			if m != nil {
				queue = append(queue, item{m.ID, cur.d + 1, cur.edge})
			}
		}
	}
	return dist, viaEdges
}

// bloodLabel finds the nearest common ancestor of the two nodes and
// classifies the relationship from the distance pair. Ties at equal total
// distance prefer an ancestor reached through both of the start node's
// parent edges, which distinguishes full siblings and cousins from half
// relations sharing a single parent line.
func bloodLabel(g *familygraph.Graph, fromID, toID string) (Label, bool) {
	fromDist, fromVia := ancestorDistances(g, fromID)
	toDist, toVia := ancestorDistances(g, toID)

	bestTotal := -1
	bestShared := 0
	var du, dv int
	sharedAtBest := 0

	for id, df := range fromDist {
		dt, ok := toDist[id]
		if !ok {
			continue
		}
		total := df + dt
		shared := fromVia[id]
		if tv := toVia[id]; tv < shared && tv > 0 {
			shared = tv
		}
		better := bestTotal < 0 || total < bestTotal ||
			(total == bestTotal && shared > bestShared) ||
			(total == bestTotal && shared == bestShared && absInt(df-dt) < absInt(du-dv))
		if better {
			bestTotal, bestShared = total, shared
			du, dv = df, dt
			sharedAtBest = 1
		} else if total == bestTotal && df == du && dt == dv {
			sharedAtBest++
		}
	}

	if bestTotal < 0 {
		return Label{}, false
	}

	to := g.Node(toID)
	full := bestShared >= 2 || sharedAtBest >= 2
	return classify(du, dv, full, to), true
}

// classify maps an (up-from, up-to) distance pair to a label. du is the
// distance from the start node up to the anchor ancestor, dv the same for
// the target; the smaller side sits closer to the ancestor.
func classify(du, dv int, full bool, to *models.Person) Label {
	role := to.Role()
	switch {
	case du == 0:
		// The start node is itself the anchor: the target sits dv
		// generations below it.
		return descendantLabel(dv, role, to)
	case dv == 0:
		return ancestorLabel(du, role, to)
	case du == 1 && dv == 1:
		return Label{Kind: KindSibling, Full: full, Text: siblingText(role, full)}
	case du == 2 && dv == 1:
		return Label{Kind: KindAuntUncle, Text: auntUncleText(role)}
	case du == 1 && dv == 2:
		return Label{Kind: KindNieceNephew, Text: nieceNephewText(role)}
	case du == dv:
		deg := du - 1
		return Label{Kind: KindCousin, Degree: deg, Full: full, Text: cousinText(deg, 0)}
	default:
		minUp := du
		if dv < minUp {
			minUp = dv
		}
		deg := minUp - 1
		removed := absInt(du - dv)
		if deg == 0 {
			// (k,1)/(1,k) with k>2: generalized aunt/uncle line.
			if du > dv {
				return Label{Kind: KindAuntUncle, Generations: du - 1, Text: greatPrefix(du-2) + auntUncleText(role)}
			}
			return Label{Kind: KindNieceNephew, Generations: dv - 1, Text: greatPrefix(dv-2) + nieceNephewText(role)}
		}
		return Label{Kind: KindCousin, Degree: deg, Removed: removed, Text: cousinText(deg, removed)}
	}
}

func inLaw(lbl Label, to *models.Person) Label {
	lbl.InLaw = true
	lbl = reword(lbl, to)
	lbl.Text = lbl.Text + "-in-law"
	return lbl
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
