// Package familygraph assembles member and ancestor records into one
// traversable family forest. Assembly is pure and deterministic: it is
// recomputed from scratch on every store snapshot and the resulting Graph
// is an immutable value, never patched in place.
package familygraph

import (
	"github.com/hearthhq/hearth/internal/models"
)

// Graph is an assembled family forest: a DAG forest where every node has
// at most two parent predecessors. Edges that would close a cycle or that
// point at an id missing from the input are excluded during assembly and
// counted; data-quality problems degrade the picture, they never fail it.
type Graph struct {
	nodes    map[string]*models.Person
	order    []string
	children map[string][]string

	droppedEdges  int
	danglingEdges int
}

// Assemble merges members and ancestors into a single addressable graph.
func Assemble(members, ancestors []models.Person) *Graph {
	g := &Graph{
		nodes:    make(map[string]*models.Person, len(members)+len(ancestors)),
		children: make(map[string][]string),
	}

	add := func(list []models.Person) {
		for i := range list {
			p := list[i]
			if _, ok := g.nodes[p.ID]; ok {
				continue
			}
			g.nodes[p.ID] = &p
			g.order = append(g.order, p.ID)
		}
	}
	add(members)
	add(ancestors)

	g.pruneEdges()

	// Reverse adjacency index, one pass.
	for _, id := range g.order {
		p := g.nodes[id]
		if p.FatherID != "" {
			g.children[p.FatherID] = append(g.children[p.FatherID], id)
		}
		if p.MotherID != "" {
			g.children[p.MotherID] = append(g.children[p.MotherID], id)
		}
	}

	return g
}

// pruneEdges drops dangling parent references and any parent edge that
// closes a cycle. Each node walks upward with a per-start visited set; an
// edge whose target is already on the current upward path is excluded.
func (g *Graph) pruneEdges() {
	// Dangling targets first, so the cycle walk only sees real nodes.
	for _, id := range g.order {
		p := g.nodes[id]
		if p.FatherID != "" {
			if _, ok := g.nodes[p.FatherID]; !ok {
				p.FatherID = ""
				g.danglingEdges++
			}
		}
		if p.MotherID != "" {
			if _, ok := g.nodes[p.MotherID]; !ok {
				p.MotherID = ""
				g.danglingEdges++
			}
		}
		if p.SpouseID != "" {
			if _, ok := g.nodes[p.SpouseID]; !ok {
				p.SpouseID = ""
				g.danglingEdges++
			}
		}
	}

	for _, id := range g.order {
		g.breakCyclesFrom(id)
	}
}

func (g *Graph) breakCyclesFrom(start string) {
	onPath := map[string]bool{}

	var walk func(id string)
	walk = func(id string) {
		onPath[id] = true
		p := g.nodes[id]
		if p.FatherID != "" {
			if onPath[p.FatherID] {
				p.FatherID = ""
				g.droppedEdges++
			} else {
				walk(p.FatherID)
			}
		}
		if p.MotherID != "" {
			if onPath[p.MotherID] {
				p.MotherID = ""
				g.droppedEdges++
			} else {
				walk(p.MotherID)
			}
		}
		onPath[id] = false
	}
	walk(start)
}

// Node returns the person with the given id, or nil.
func (g *Graph) Node(id string) *models.Person {
	return g.nodes[id]
}

// ParentsOf returns the recorded father and mother, either of which may
// be nil.
func (g *Graph) ParentsOf(id string) (father, mother *models.Person) {
	p := g.nodes[id]
	if p == nil {
		return nil, nil
	}
	if p.FatherID != "" {
		father = g.nodes[p.FatherID]
	}
	if p.MotherID != "" {
		mother = g.nodes[p.MotherID]
	}
	return father, mother
}

// ChildrenOf returns every node that records id as a parent.
func (g *Graph) ChildrenOf(id string) []*models.Person {
	ids := g.children[id]
	out := make([]*models.Person, 0, len(ids))
	for _, cid := range ids {
		out = append(out, g.nodes[cid])
	}
	return out
}

// SpouseOf returns the recorded spouse, or nil.
func (g *Graph) SpouseOf(id string) *models.Person {
	p := g.nodes[id]
	if p == nil || p.SpouseID == "" {
		return nil
	}
	return g.nodes[p.SpouseID]
}

// AllNodes returns every node in insertion order.
func (g *Graph) AllNodes() []*models.Person {
	out := make([]*models.Person, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Roots returns the nodes with no parent edges.
func (g *Graph) Roots() []*models.Person {
	var out []*models.Person
	for _, id := range g.order {
		p := g.nodes[id]
		if p.FatherID == "" && p.MotherID == "" {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the node count.
func (g *Graph) Len() int { return len(g.order) }

// DroppedEdges reports how many parent edges were excluded because they
// closed a cycle.
func (g *Graph) DroppedEdges() int { return g.droppedEdges }

// DanglingEdges reports how many edges referenced ids absent from the
// input.
func (g *Graph) DanglingEdges() int { return g.danglingEdges }
