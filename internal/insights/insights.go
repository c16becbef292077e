// Package insights is the boundary to the external narrative generator.
// The core builds an opaque context object, forwards it, and stores the
// returned text verbatim; it never interprets the content.
package insights

import (
	"context"

	"github.com/hearthhq/hearth/internal/overview"
)

// Context is the opaque context forwarded to the generator.
type Context struct {
	HouseholdName string            `json:"household_name"`
	MemberCount   int               `json:"member_count"`
	AncestorCount int               `json:"ancestor_count"`
	Overview      *overview.Summary `json:"overview,omitempty"`
}

// Generator produces narrative text from a household context.
type Generator interface {
	Generate(ctx context.Context, ic Context) (string, error)
}
