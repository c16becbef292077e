// Package reconcile patches placeholder member data from the canonical
// account directory once it becomes available.
//
// The worker only ever writes resolved name fields, never counters or
// flags, so running it twice, or concurrently from several observers,
// converges on the same record.
package reconcile

import (
	"context"
	"log/slog"

	"github.com/hearthhq/hearth/internal/directory"
	"github.com/hearthhq/hearth/internal/metrics"
	"github.com/hearthhq/hearth/internal/models"
	"github.com/hearthhq/hearth/internal/store"
)

// Worker observes household snapshots and repairs unresolved member names.
type Worker struct {
	db     store.Store
	dir    directory.Directory
	logger *slog.Logger
}

// NewWorker creates a reconciliation worker.
func NewWorker(db store.Store, dir directory.Directory, logger *slog.Logger) *Worker {
	return &Worker{db: db, dir: dir, logger: logger}
}

// Run consumes snapshots for one household until ctx is cancelled.
// In-flight patches are allowed to complete on teardown; they are
// idempotent, so fire-and-forget is safe.
func (w *Worker) Run(ctx context.Context, householdID string) {
	ch := w.db.Watch(householdID)
	defer w.db.Unwatch(householdID, ch)

	// Repair whatever is already unresolved before the first change.
	if members, err := w.db.ListMembers(householdID); err == nil {
		w.Sweep(ctx, householdID, members)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			w.Sweep(ctx, householdID, snap.Members)
		}
	}
}

// Sweep patches every member in the snapshot whose name fields are empty
// or still carry the placeholder sentinel. Members with resolved names
// are skipped entirely, so a repeated sweep issues no writes.
func (w *Worker) Sweep(ctx context.Context, householdID string, members []models.Person) int {
	patched := 0
	for i := range members {
		m := &members[i]
		if m.Kind != models.KindMember || !m.NameUnresolved() {
			continue
		}

		profile, err := w.dir.Lookup(ctx, m.ID)
		if err != nil {
			w.logger.Debug("reconcile: lookup failed",
				slog.String("person_id", m.ID),
				slog.String("error", err.Error()))
			continue
		}

		patch := namePatch(m, profile)
		if patch == nil {
			continue
		}
		if _, err := w.db.PutPerson(householdID, m.ID, *patch); err != nil {
			w.logger.Warn("reconcile: patch failed",
				slog.String("person_id", m.ID),
				slog.String("error", err.Error()))
			continue
		}
		metrics.ReconcilePatches.Inc()
		patched++
		w.logger.Info("reconcile: name resolved",
			slog.String("household_id", householdID),
			slog.String("person_id", m.ID))
	}
	return patched
}

// namePatch builds a patch containing only the name fields that are both
// unresolved locally and non-placeholder in the canonical profile.
// Returns nil when there is nothing to write.
func namePatch(m *models.Person, profile directory.Profile) *models.PersonPatch {
	var patch models.PersonPatch
	wrote := false

	if resolved(profile.DisplayName) && unresolved(m.DisplayName) {
		patch.DisplayName = &profile.DisplayName
		wrote = true
	}
	if resolved(profile.FullName) && unresolved(m.FullName) {
		patch.FullName = &profile.FullName
		wrote = true
	}
	if !wrote {
		return nil
	}
	return &patch
}

func resolved(name string) bool {
	return name != "" && name != models.PlaceholderName
}

func unresolved(name string) bool {
	return name == "" || name == models.PlaceholderName
}
