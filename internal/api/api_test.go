package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hearthhq/hearth/internal/api"
	"github.com/hearthhq/hearth/internal/household"
	"github.com/hearthhq/hearth/internal/models"
	"github.com/hearthhq/hearth/internal/store"
	"github.com/hearthhq/hearth/internal/testutil"
)

func newTestRouter(t *testing.T) (chi.Router, *store.DB) {
	t.Helper()
	db := testutil.TestStore(t)
	svc := household.NewService(db, nil)
	return api.NewRouter(svc, db, nil, false, nil, nil), db
}

// do performs a request with the dev identity header and decodes the
// response body into out when non-nil.
func do(t *testing.T, r http.Handler, method, path, user string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if user != "" {
		req.Header.Set("X-Hearth-User", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if out != nil && w.Code < 300 {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return w.Code
}

func createHousehold(t *testing.T, r http.Handler) models.Household {
	t.Helper()
	var h models.Household
	code := do(t, r, http.MethodPost, "/households", "owner", api.CreateHouseholdRequest{
		Name: "Bergs",
		Founder: household.Profile{
			DisplayName: "Olaf",
			BirthDate:   "1980-04-02",
			Role:        "father",
		},
	}, &h)
	if code != http.StatusCreated {
		t.Fatalf("create household: status %d", code)
	}
	return h
}

func TestCreateHouseholdRequiresIdentity(t *testing.T) {
	r, _ := newTestRouter(t)
	code := do(t, r, http.MethodPost, "/households", "", api.CreateHouseholdRequest{Name: "x"}, nil)
	if code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", code)
	}
}

func TestCreateHouseholdValidatesFounder(t *testing.T) {
	r, _ := newTestRouter(t)
	code := do(t, r, http.MethodPost, "/households", "owner", api.CreateHouseholdRequest{
		Name:    "Bergs",
		Founder: household.Profile{DisplayName: "Olaf"},
	}, nil)
	if code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", code)
	}
}

func TestJoinLifecycleOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	h := createHousehold(t, r)
	base := "/households/" + h.ID

	if code := do(t, r, http.MethodPost, base+"/join-requests", "guest", nil, nil); code != http.StatusAccepted {
		t.Fatalf("join request: status %d", code)
	}

	// Non-owner decisions are forbidden.
	code := do(t, r, http.MethodPost, base+"/join-requests/guest/approve", "guest",
		api.ApproveJoinRequest{Role: "son"}, nil)
	if code != http.StatusForbidden {
		t.Fatalf("non-owner approve: status %d", code)
	}

	var p models.Person
	code = do(t, r, http.MethodPost, base+"/join-requests/guest/approve", "owner",
		api.ApproveJoinRequest{Role: "son", FatherID: "owner"}, &p)
	if code != http.StatusOK {
		t.Fatalf("approve: status %d", code)
	}
	if p.RoleTag != "son" || p.FatherID != "owner" {
		t.Errorf("approved person = %+v", p)
	}

	// Deciding the same request again is a conflict.
	code = do(t, r, http.MethodPost, base+"/join-requests/guest/approve", "owner",
		api.ApproveJoinRequest{Role: "son"}, nil)
	if code != http.StatusConflict {
		t.Errorf("double approve: status %d", code)
	}

	var members api.PersonsResponse
	if code := do(t, r, http.MethodGet, base+"/members", "owner", nil, &members); code != http.StatusOK {
		t.Fatalf("list members: status %d", code)
	}
	if len(members.Persons) != 2 {
		t.Errorf("members = %d, want 2", len(members.Persons))
	}
}

func TestRelationshipQuery(t *testing.T) {
	r, _ := newTestRouter(t)
	h := createHousehold(t, r)
	base := "/households/" + h.ID

	var gf models.Person
	code := do(t, r, http.MethodPost, base+"/ancestors", "owner", api.CreateAncestorRequest{
		Profile: household.Profile{DisplayName: "Gustav", Role: "grandfather", BirthDate: "1950-01-01"},
	}, &gf)
	if code != http.StatusCreated {
		t.Fatalf("create ancestor: status %d", code)
	}

	// The owner wires themselves under the ancestor.
	code = do(t, r, http.MethodPatch, base+"/persons/owner", "owner", api.UpdatePersonRequest{
		FatherID: models.StringPtr(gf.ID),
	}, nil)
	if code != http.StatusOK {
		t.Fatalf("patch person: status %d", code)
	}

	var rel api.RelationshipResponse
	code = do(t, r, http.MethodGet, base+"/relationship?from=owner&to="+gf.ID, "owner", nil, &rel)
	if code != http.StatusOK {
		t.Fatalf("relationship: status %d", code)
	}
	if rel.Label.Text != "father" {
		t.Errorf("label = %+v, want father", rel.Label)
	}
	if rel.Nodes != 2 {
		t.Errorf("nodes = %d, want 2", rel.Nodes)
	}

	// Same node is a caller error; unknown node is not found.
	if code := do(t, r, http.MethodGet, base+"/relationship?from=owner&to=owner", "owner", nil, nil); code != http.StatusBadRequest {
		t.Errorf("same node: status %d", code)
	}
	if code := do(t, r, http.MethodGet, base+"/relationship?from=owner&to=nobody", "owner", nil, nil); code != http.StatusNotFound {
		t.Errorf("unknown node: status %d", code)
	}
}

func TestUpdatePersonPolicyOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	h := createHousehold(t, r)
	base := "/households/" + h.ID

	do(t, r, http.MethodPost, base+"/join-requests", "guest", nil, nil)
	do(t, r, http.MethodPost, base+"/join-requests/guest/approve", "owner",
		api.ApproveJoinRequest{Role: "son"}, nil)

	// A member may edit their own descriptive fields.
	code := do(t, r, http.MethodPatch, base+"/persons/guest", "guest", api.UpdatePersonRequest{
		Bio: models.StringPtr("student"),
	}, nil)
	if code != http.StatusOK {
		t.Errorf("self edit: status %d", code)
	}

	// Edge fields are owner-only.
	code = do(t, r, http.MethodPatch, base+"/persons/guest", "guest", api.UpdatePersonRequest{
		FatherID: models.StringPtr("owner"),
	}, nil)
	if code != http.StatusForbidden {
		t.Errorf("member edge edit: status %d", code)
	}
}

func TestRecordsAndOverviewOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	h := createHousehold(t, r)
	base := "/households/" + h.ID

	code := do(t, r, http.MethodPost, base+"/records/finance", "owner", api.RecordEntryRequest{
		Date: "2026-03-01", Kind: "income", Amount: "42.10",
	}, nil)
	if code != http.StatusCreated {
		t.Fatalf("add finance: status %d", code)
	}
	code = do(t, r, http.MethodPost, base+"/records/tasks", "owner", api.RecordEntryRequest{
		Date: "2026-03-01", Title: "laundry", Done: true,
	}, nil)
	if code != http.StatusCreated {
		t.Fatalf("add task: status %d", code)
	}
	// Non-members cannot write records.
	code = do(t, r, http.MethodPost, base+"/records/mood", "stranger", api.RecordEntryRequest{
		Date: "2026-03-01", Score: 5,
	}, nil)
	if code != http.StatusForbidden {
		t.Errorf("stranger record: status %d", code)
	}

	if code := do(t, r, http.MethodGet, base+"/overview", "owner", nil, nil); code != http.StatusBadRequest {
		t.Errorf("overview without date: status %d", code)
	}

	var sum struct {
		Finance struct {
			Income string `json:"income"`
		} `json:"finance"`
		Tasks struct {
			Done  int `json:"done"`
			Total int `json:"total"`
		} `json:"tasks"`
	}
	code = do(t, r, http.MethodGet, base+"/overview?date=2026-03-01", "owner", nil, &sum)
	if code != http.StatusOK {
		t.Fatalf("overview: status %d", code)
	}
	if sum.Finance.Income != "42.1" {
		t.Errorf("income = %q", sum.Finance.Income)
	}
	if sum.Tasks.Done != 1 || sum.Tasks.Total != 1 {
		t.Errorf("tasks = %+v", sum.Tasks)
	}
}

func TestArchiveRestoreOverHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	h := createHousehold(t, r)
	base := "/households/" + h.ID

	if code := do(t, r, http.MethodDelete, base, "stranger", nil, nil); code != http.StatusForbidden {
		t.Errorf("stranger archive: status %d", code)
	}
	if code := do(t, r, http.MethodDelete, base, "owner", nil, nil); code != http.StatusNoContent {
		t.Fatalf("archive: status %d", code)
	}
	// Mutations bounce while archived.
	if code := do(t, r, http.MethodPost, base+"/join-requests", "guest", nil, nil); code != http.StatusConflict {
		t.Errorf("join while archived: status %d", code)
	}
	// Reads still work.
	if code := do(t, r, http.MethodGet, base, "guest", nil, nil); code != http.StatusOK {
		t.Errorf("read while archived: status %d", code)
	}

	if code := do(t, r, http.MethodPost, base+"/restore", "owner", nil, nil); code != http.StatusNoContent {
		t.Fatalf("restore: status %d", code)
	}
	if code := do(t, r, http.MethodPost, base+"/join-requests", "guest", nil, nil); code != http.StatusAccepted {
		t.Errorf("join after restore: status %d", code)
	}
}

func TestInsightsDisabledProvider(t *testing.T) {
	r, _ := newTestRouter(t)
	h := createHousehold(t, r)
	base := "/households/" + h.ID

	code := do(t, r, http.MethodPost, base+"/insights", "owner", api.InsightRequest{Date: "2026-03-01"}, nil)
	if code != http.StatusServiceUnavailable {
		t.Errorf("generate with disabled provider: status %d", code)
	}

	var out struct {
		Insights []store.Insight `json:"insights"`
	}
	if code := do(t, r, http.MethodGet, base+"/insights", "owner", nil, &out); code != http.StatusOK {
		t.Fatalf("list insights: status %d", code)
	}
	if len(out.Insights) != 0 {
		t.Errorf("insights = %d, want none", len(out.Insights))
	}
}

func TestTokenIdentityMode(t *testing.T) {
	db := testutil.TestStore(t)
	svc := household.NewService(db, nil)
	r := api.NewRouter(svc, db, nil, true, map[string]string{"secret-token": "owner"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/households/nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/households/nope", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/households/nope", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("valid token on missing household: status %d, want 404", w.Code)
	}
}
