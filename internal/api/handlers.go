package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hearthhq/hearth/internal/apperr"
	"github.com/hearthhq/hearth/internal/familygraph"
	"github.com/hearthhq/hearth/internal/household"
	"github.com/hearthhq/hearth/internal/insights"
	"github.com/hearthhq/hearth/internal/kinship"
	"github.com/hearthhq/hearth/internal/metrics"
	"github.com/hearthhq/hearth/internal/models"
	"github.com/hearthhq/hearth/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	svc *household.Service
	db  store.Store
	gen insights.Generator
}

// NewHandler creates a new Handler.
func NewHandler(svc *household.Service, db store.Store, gen insights.Generator) *Handler {
	if gen == nil {
		gen = insights.Disabled{}
	}
	return &Handler{svc: svc, db: db, gen: gen}
}

// writeError maps domain sentinels onto HTTP statuses. Authorization and
// incomplete-input failures surface to the caller; anything unexpected is
// logged and collapsed to a 500.
func writeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, apperr.ErrUnauthorized):
		writeJSON(w, http.StatusForbidden, errorBody("forbidden"))
	case errors.Is(err, apperr.ErrArchived):
		writeJSON(w, http.StatusConflict, errorBody("household is archived"))
	case errors.Is(err, apperr.ErrAlreadyExists):
		writeJSON(w, http.StatusConflict, errorBody("already exists"))
	case errors.Is(err, apperr.ErrAlreadyResolved):
		writeJSON(w, http.StatusConflict, errorBody("request already resolved"))
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusConflict, errorBody("conflict"))
	case errors.Is(err, apperr.ErrIncompleteProfile):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return false
	}
	return true
}

// CreateHousehold handles POST /households.
func (h *Handler) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	caller := CallerID(r)
	if caller == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody("identity required"))
		return
	}
	var req CreateHouseholdRequest
	if !decodeBody(w, r, &req) {
		return
	}
	hh, err := h.svc.Create(r.Context(), caller, req.Name, req.Founder)
	if err != nil {
		writeError(w, err, "create household")
		return
	}
	writeJSON(w, http.StatusCreated, hh)
}

// GetHousehold handles GET /households/{id}.
func (h *Handler) GetHousehold(w http.ResponseWriter, r *http.Request) {
	hh, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, "get household")
		return
	}
	writeJSON(w, http.StatusOK, hh)
}

// ArchiveHousehold handles DELETE /households/{id}.
func (h *Handler) ArchiveHousehold(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Archive(r.Context(), CallerID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err, "archive household")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreHousehold handles POST /households/{id}/restore.
func (h *Handler) RestoreHousehold(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Restore(r.Context(), CallerID(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err, "restore household")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RequestJoin handles POST /households/{id}/join-requests.
func (h *Handler) RequestJoin(w http.ResponseWriter, r *http.Request) {
	caller := CallerID(r)
	if caller == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody("identity required"))
		return
	}
	if err := h.svc.RequestJoin(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		writeError(w, err, "request join")
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// ApproveJoin handles POST /households/{id}/join-requests/{requesterID}/approve.
func (h *Handler) ApproveJoin(w http.ResponseWriter, r *http.Request) {
	var req ApproveJoinRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Role == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("role is required"))
		return
	}
	p, err := h.svc.ApproveJoin(r.Context(), CallerID(r), chi.URLParam(r, "id"),
		chi.URLParam(r, "requesterID"), req.Role,
		household.ParentEdges{FatherID: req.FatherID, MotherID: req.MotherID})
	if err != nil {
		writeError(w, err, "approve join")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// RejectJoin handles POST /households/{id}/join-requests/{requesterID}/reject.
func (h *Handler) RejectJoin(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RejectJoin(r.Context(), CallerID(r), chi.URLParam(r, "id"), chi.URLParam(r, "requesterID"))
	if err != nil {
		writeError(w, err, "reject join")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListMembers handles GET /households/{id}/members.
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	persons, err := h.svc.Members(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, "list members")
		return
	}
	writeJSON(w, http.StatusOK, PersonsResponse{Persons: persons})
}

// ListAncestors handles GET /households/{id}/ancestors.
func (h *Handler) ListAncestors(w http.ResponseWriter, r *http.Request) {
	persons, err := h.svc.Ancestors(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err, "list ancestors")
		return
	}
	writeJSON(w, http.StatusOK, PersonsResponse{Persons: persons})
}

// CreateAncestor handles POST /households/{id}/ancestors.
func (h *Handler) CreateAncestor(w http.ResponseWriter, r *http.Request) {
	var req CreateAncestorRequest
	if !decodeBody(w, r, &req) {
		return
	}
	p, err := h.svc.CreateAncestor(r.Context(), CallerID(r), chi.URLParam(r, "id"), req.Profile,
		household.ParentEdges{FatherID: req.FatherID, MotherID: req.MotherID})
	if err != nil {
		writeError(w, err, "create ancestor")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// UpdatePerson handles PATCH /households/{id}/persons/{personID}.
func (h *Handler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	var req UpdatePersonRequest
	if !decodeBody(w, r, &req) {
		return
	}
	patch := models.PersonPatch{
		DisplayName:  req.DisplayName,
		FullName:     req.FullName,
		BirthDate:    req.BirthDate,
		RoleTag:      req.Role,
		FatherID:     req.FatherID,
		MotherID:     req.MotherID,
		SpouseID:     req.SpouseID,
		Profession:   req.Profession,
		Bio:          req.Bio,
		HealthIssues: req.HealthIssues,
	}
	p, err := h.svc.UpdateProfile(r.Context(), CallerID(r), chi.URLParam(r, "id"),
		chi.URLParam(r, "personID"), patch)
	if err != nil {
		writeError(w, err, "update person")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// LinkSpouses handles POST /households/{id}/spouse-links.
func (h *Handler) LinkSpouses(w http.ResponseWriter, r *http.Request) {
	var req LinkSpousesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AID == "" || req.BID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("a_id and b_id are required"))
		return
	}
	if err := h.svc.LinkSpouses(r.Context(), CallerID(r), chi.URLParam(r, "id"), req.AID, req.BID); err != nil {
		writeError(w, err, "link spouses")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Relationship handles GET /households/{id}/relationship?from=&to=.
// Assembly and labeling are pure; the handler only fetches the snapshot.
func (h *Handler) Relationship(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "id")
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" || from == to {
		writeJSON(w, http.StatusBadRequest, errorBody("distinct from and to are required"))
		return
	}

	members, err := h.svc.Members(r.Context(), householdID)
	if err != nil {
		writeError(w, err, "relationship")
		return
	}
	ancestors, err := h.svc.Ancestors(r.Context(), householdID)
	if err != nil {
		writeError(w, err, "relationship")
		return
	}

	g := familygraph.Assemble(members, ancestors)
	if n := g.DroppedEdges(); n > 0 {
		metrics.DroppedEdges.Add(float64(n))
		slog.Warn("graph assembly dropped edges",
			slog.String("household_id", householdID),
			slog.Int("dropped", n))
	}
	if n := g.DanglingEdges(); n > 0 {
		metrics.DanglingEdges.Add(float64(n))
	}

	label, err := kinship.ComputeLabel(g, from, to)
	if err != nil {
		if errors.Is(err, kinship.ErrUnknownNode) {
			writeJSON(w, http.StatusNotFound, errorBody("person not in graph"))
		} else {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		}
		return
	}
	if label.Kind == kinship.KindUnrelated {
		metrics.FallbackLabels.Inc()
	}

	writeJSON(w, http.StatusOK, RelationshipResponse{
		From:          from,
		To:            to,
		Label:         label,
		Nodes:         g.Len(),
		DroppedEdges:  g.DroppedEdges(),
		DanglingEdges: g.DanglingEdges(),
	})
}

// AddRecord handles POST /households/{id}/records/{recordType}.
func (h *Handler) AddRecord(w http.ResponseWriter, r *http.Request) {
	var req RecordEntryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Date == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("date is required"))
		return
	}
	caller := CallerID(r)
	householdID := chi.URLParam(r, "id")

	var err error
	switch chi.URLParam(r, "recordType") {
	case "finance":
		err = h.svc.AddFinance(r.Context(), caller, householdID, req.Date, req.Kind, req.Amount)
	case "meals":
		err = h.svc.AddMeal(r.Context(), caller, householdID, req.Date, req.Name)
	case "tasks":
		err = h.svc.AddTask(r.Context(), caller, householdID, req.Date, req.Title, req.Done)
	case "mood":
		err = h.svc.AddMood(r.Context(), caller, householdID, req.Date, req.Score)
	default:
		writeJSON(w, http.StatusNotFound, errorBody("unknown record type"))
		return
	}
	if err != nil {
		writeError(w, err, "add record")
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Overview handles GET /households/{id}/overview?date=.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'date' is required"))
		return
	}
	sum, err := h.db.DayOverview(chi.URLParam(r, "id"), date)
	if err != nil {
		writeError(w, err, "overview")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// GenerateInsight handles POST /households/{id}/insights.
func (h *Handler) GenerateInsight(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "id")
	var req InsightRequest
	if !decodeBody(w, r, &req) {
		return
	}

	hh, err := h.svc.Get(r.Context(), householdID)
	if err != nil {
		writeError(w, err, "generate insight")
		return
	}
	members, err := h.svc.Members(r.Context(), householdID)
	if err != nil {
		writeError(w, err, "generate insight")
		return
	}
	ancestors, err := h.svc.Ancestors(r.Context(), householdID)
	if err != nil {
		writeError(w, err, "generate insight")
		return
	}

	ic := insights.Context{
		HouseholdName: hh.Name,
		MemberCount:   len(members),
		AncestorCount: len(ancestors),
	}
	if req.Date != "" {
		if sum, err := h.db.DayOverview(householdID, req.Date); err == nil {
			ic.Overview = sum
		}
	}

	text, err := h.gen.Generate(r.Context(), ic)
	if err != nil {
		if errors.Is(err, insights.ErrDisabled) {
			writeJSON(w, http.StatusServiceUnavailable, errorBody("insight generation is not configured"))
			return
		}
		writeError(w, err, "generate insight")
		return
	}

	id := uuid.NewString()
	if err := h.db.SaveInsight(householdID, id, text); err != nil {
		writeError(w, err, "save insight")
		return
	}
	writeJSON(w, http.StatusCreated, store.Insight{ID: id, HouseholdID: householdID, Content: text})
}

// ListInsights handles GET /households/{id}/insights.
func (h *Handler) ListInsights(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	out, err := h.db.ListInsights(chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, err, "list insights")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": out})
}
