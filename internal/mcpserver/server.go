// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Hearth tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hearthhq/hearth/internal/familygraph"
	"github.com/hearthhq/hearth/internal/kinship"
	"github.com/hearthhq/hearth/internal/models"
	"github.com/hearthhq/hearth/internal/store"
)

// Server wraps the MCP server with Hearth tools.
type Server struct {
	mcp *server.MCPServer
	db  store.Store
}

// New creates a new MCP server with all Hearth tools registered.
func New(db store.Store) *Server {
	s := &Server{db: db}

	s.mcp = server.NewMCPServer(
		"Hearth",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_members",
		mcp.WithDescription("List the member persons of a household."),
		mcp.WithString("household_id", mcp.Required(), mcp.Description("Household id")),
	), s.listMembers)

	s.mcp.AddTool(mcp.NewTool("list_ancestors",
		mcp.WithDescription("List the historical ancestor nodes visible to a household."),
		mcp.WithString("household_id", mcp.Required(), mcp.Description("Household id")),
	), s.listAncestors)

	s.mcp.AddTool(mcp.NewTool("get_relationship",
		mcp.WithDescription("Compute the kinship label between two persons in a household, "+
			"e.g. what 'to' is relative to 'from' (son, grandmother, first cousin once removed...)."),
		mcp.WithString("household_id", mcp.Required(), mcp.Description("Household id")),
		mcp.WithString("from", mcp.Required(), mcp.Description("Person id of the reference point")),
		mcp.WithString("to", mcp.Required(), mcp.Description("Person id to describe")),
	), s.getRelationship)

	s.mcp.AddTool(mcp.NewTool("household_overview",
		mcp.WithDescription("Summarise a household's day: finance totals, meals, tasks, mood."),
		mcp.WithString("household_id", mcp.Required(), mcp.Description("Household id")),
		mcp.WithString("date", mcp.Required(), mcp.Description("Day to summarise (YYYY-MM-DD)")),
	), s.householdOverview)

	s.mcp.AddTool(mcp.NewTool("create_ancestor",
		mcp.WithDescription("Add a historical ancestor node to a household's family tree. "+
			"The record MUST follow the ancestor record contract; read it first via the "+
			"get_record_contract tool or the hearth://ancestor-record resource."),
		mcp.WithString("record", mcp.Required(),
			mcp.Description("JSON ancestor record following the Hearth record contract")),
	), s.createAncestor)

	s.mcp.AddTool(mcp.NewTool("get_record_contract",
		mcp.WithDescription("Returns the canonical Hearth ancestor record contract. "+
			"Call this before creating ancestor records to ensure correct structure."),
	), s.getRecordContract)

	// Resource: ancestor record contract.
	s.mcp.AddResource(
		mcp.NewResource("hearth://ancestor-record", "Ancestor Record Contract",
			mcp.WithResourceDescription("Canonical genealogy record format for ancestor nodes."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readRecordContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) listMembers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	householdID, err := req.RequireString("household_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	members, err := s.db.ListMembers(householdID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(members, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listAncestors(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	householdID, err := req.RequireString("household_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ancestors, err := s.db.ListAncestors(householdID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(ancestors, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getRelationship(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	householdID, err := req.RequireString("household_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	from, err := req.RequireString("from")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	to, err := req.RequireString("to")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	members, err := s.db.ListMembers(householdID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ancestors, err := s.db.ListAncestors(householdID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	g := familygraph.Assemble(members, ancestors)
	label, err := kinship.ComputeLabel(g, from, to)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(label, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) householdOverview(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	householdID, err := req.RequireString("household_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sum, err := s.db.DayOverview(householdID, date)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(sum, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) createAncestor(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("record")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var rec struct {
		ID          string `json:"id"`
		HouseholdID string `json:"household_id"`
		DisplayName string `json:"display_name"`
		FullName    string `json:"full_name"`
		BirthDate   string `json:"birth_date"`
		Role        string `json:"role"`
		FatherID    string `json:"father_id"`
		MotherID    string `json:"mother_id"`
		SpouseID    string `json:"spouse_id"`
		Bio         string `json:"bio"`
		GroupScope  string `json:"group_scope"`
	}
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid record JSON: %v", err)), nil
	}
	if rec.HouseholdID == "" || rec.DisplayName == "" {
		return mcp.NewToolResultError("household_id and display_name are required"), nil
	}

	id := rec.ID
	if id == "" {
		id = "anc-" + uuid.NewString()
	}
	scope := rec.GroupScope
	if scope == "" {
		scope = rec.HouseholdID
	}
	kind := models.KindAncestor
	patch := models.PersonPatch{
		Kind:        &kind,
		DisplayName: &rec.DisplayName,
		FullName:    &rec.FullName,
		BirthDate:   &rec.BirthDate,
		RoleTag:     &rec.Role,
		FatherID:    &rec.FatherID,
		MotherID:    &rec.MotherID,
		SpouseID:    &rec.SpouseID,
		Bio:         &rec.Bio,
		GroupScope:  &scope,
	}
	if _, err := s.db.PutPerson(rec.HouseholdID, id, patch); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s", id)), nil
}

func (s *Server) getRecordContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(AncestorRecordContract), nil
}

func (s *Server) readRecordContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "hearth://ancestor-record",
			MIMEType: "text/markdown",
			Text:     AncestorRecordContract,
		},
	}, nil
}
