package mcpserver

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hearthhq/hearth/internal/models"
	"github.com/hearthhq/hearth/internal/store"
)

func testServer(t *testing.T) (*Server, *store.DB) {
	t.Helper()

	dbFile, err := os.CreateTemp("", "hearth-mcp-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	err = db.CreateHousehold(
		models.Household{ID: "hh", OwnerID: "owner", Name: "Bergs"},
		models.Person{ID: "owner", Kind: models.KindMember, DisplayName: "Olaf", RoleTag: "father"},
	)
	if err != nil {
		t.Fatal(err)
	}

	return New(db), db
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper; the handlers are
	// exercised directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_members":
		result, err = srv.listMembers(ctx, req)
	case "list_ancestors":
		result, err = srv.listAncestors(ctx, req)
	case "get_relationship":
		result, err = srv.getRelationship(ctx, req)
	case "household_overview":
		result, err = srv.householdOverview(ctx, req)
	case "create_ancestor":
		result, err = srv.createAncestor(ctx, req)
	case "get_record_contract":
		result, err = srv.getRecordContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListMembersTool(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "list_members", map[string]interface{}{"household_id": "hh"})
	if r.IsError {
		t.Fatalf("list_members errored: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "Olaf") {
		t.Errorf("members output missing owner: %q", resultText(r))
	}
}

func TestCreateAncestorAndRelationship(t *testing.T) {
	srv, db := testServer(t)

	r := callTool(t, srv, "create_ancestor", map[string]interface{}{
		"record": `{"id": "anc-gf", "household_id": "hh", "display_name": "Gustav", "role": "grandfather"}`,
	})
	if r.IsError {
		t.Fatalf("create_ancestor errored: %s", resultText(r))
	}
	if resultText(r) != "created: anc-gf" {
		t.Errorf("create result = %q", resultText(r))
	}

	if _, err := db.PutPerson("hh", "owner", models.PersonPatch{
		FatherID: models.StringPtr("anc-gf"),
	}); err != nil {
		t.Fatal(err)
	}

	r = callTool(t, srv, "get_relationship", map[string]interface{}{
		"household_id": "hh",
		"from":         "owner",
		"to":           "anc-gf",
	})
	if r.IsError {
		t.Fatalf("get_relationship errored: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), `"father"`) {
		t.Errorf("relationship output = %q, want father", resultText(r))
	}
}

func TestCreateAncestorRejectsBadRecords(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "create_ancestor", map[string]interface{}{"record": `{{{`})
	if !r.IsError {
		t.Error("expected error for invalid JSON")
	}
	r = callTool(t, srv, "create_ancestor", map[string]interface{}{"record": `{"display_name": "Nameless"}`})
	if !r.IsError {
		t.Error("expected error for missing household_id")
	}
}

func TestRecordContractTool(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "get_record_contract", map[string]interface{}{})
	if !strings.Contains(resultText(r), "household_id") {
		t.Error("contract text missing required field docs")
	}
}
