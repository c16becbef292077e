package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hearthhq/hearth/internal/household"
	"github.com/hearthhq/hearth/internal/insights"
	"github.com/hearthhq/hearth/internal/store"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token identity is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the identity group.
func NewRouter(svc *household.Service, db store.Store, gen insights.Generator,
	authEnabled bool, tokens map[string]string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, db, gen)

	r := chi.NewRouter()
	r.Use(IdentityMiddleware(authEnabled, tokens))

	// Household lifecycle.
	r.Post("/households", h.CreateHousehold)
	r.Get("/households/{id}", h.GetHousehold)
	r.Delete("/households/{id}", h.ArchiveHousehold)
	r.Post("/households/{id}/restore", h.RestoreHousehold)

	// Join requests.
	r.Post("/households/{id}/join-requests", h.RequestJoin)
	r.Post("/households/{id}/join-requests/{requesterID}/approve", h.ApproveJoin)
	r.Post("/households/{id}/join-requests/{requesterID}/reject", h.RejectJoin)

	// Persons.
	r.Get("/households/{id}/members", h.ListMembers)
	r.Get("/households/{id}/ancestors", h.ListAncestors)
	r.Post("/households/{id}/ancestors", h.CreateAncestor)
	r.Patch("/households/{id}/persons/{personID}", h.UpdatePerson)
	r.Post("/households/{id}/spouse-links", h.LinkSpouses)

	// Relationship query.
	r.Get("/households/{id}/relationship", h.Relationship)

	// Daily records and overview.
	r.Post("/households/{id}/records/{recordType}", h.AddRecord)
	r.Get("/households/{id}/overview", h.Overview)

	// Insights.
	r.Post("/households/{id}/insights", h.GenerateInsight)
	r.Get("/households/{id}/insights", h.ListInsights)

	// SSE endpoint (protected by same identity middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
