package reconcile_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/hearthhq/hearth/internal/directory"
	"github.com/hearthhq/hearth/internal/models"
	"github.com/hearthhq/hearth/internal/reconcile"
	"github.com/hearthhq/hearth/internal/store"
	"github.com/hearthhq/hearth/internal/testutil"
)

func seed(t *testing.T, db *store.DB) {
	t.Helper()
	err := db.CreateHousehold(
		models.Household{ID: "hh", OwnerID: "owner", Name: "test"},
		models.Person{ID: "owner", Kind: models.KindMember, DisplayName: "Owner", FullName: "Owner Berg"},
	)
	if err != nil {
		t.Fatal(err)
	}
}

func TestSweepResolvesPlaceholders(t *testing.T) {
	db := testutil.TestStore(t)
	seed(t, db)

	placeholder := models.PlaceholderName
	if _, err := db.PutPerson("hh", "new", models.PersonPatch{DisplayName: &placeholder}); err != nil {
		t.Fatal(err)
	}

	dir := directory.NewMemory()
	dir.Set("new", directory.Profile{DisplayName: "Nils", FullName: "Nils Berg"})

	w := reconcile.NewWorker(db, dir, slog.Default())
	members, _ := db.ListMembers("hh")
	if n := w.Sweep(context.Background(), "hh", members); n != 1 {
		t.Fatalf("patched = %d, want 1", n)
	}

	p, err := db.GetPerson("hh", "new")
	if err != nil {
		t.Fatal(err)
	}
	if p.DisplayName != "Nils" || p.FullName != "Nils Berg" {
		t.Errorf("person after sweep = %+v", p)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	db := testutil.TestStore(t)
	seed(t, db)

	placeholder := models.PlaceholderName
	if _, err := db.PutPerson("hh", "new", models.PersonPatch{DisplayName: &placeholder}); err != nil {
		t.Fatal(err)
	}
	dir := directory.NewMemory()
	dir.Set("new", directory.Profile{DisplayName: "Nils", FullName: "Nils Berg"})

	w := reconcile.NewWorker(db, dir, slog.Default())
	members, _ := db.ListMembers("hh")
	if n := w.Sweep(context.Background(), "hh", members); n != 1 {
		t.Fatalf("first sweep patched = %d, want 1", n)
	}

	// The second sweep sees resolved names and issues no writes.
	members, _ = db.ListMembers("hh")
	if n := w.Sweep(context.Background(), "hh", members); n != 0 {
		t.Errorf("second sweep patched = %d, want 0", n)
	}
}

func TestSweepSkipsUnknownAndResolved(t *testing.T) {
	db := testutil.TestStore(t)
	seed(t, db)

	placeholder := models.PlaceholderName
	// One member the directory does not know.
	if _, err := db.PutPerson("hh", "mystery", models.PersonPatch{DisplayName: &placeholder}); err != nil {
		t.Fatal(err)
	}
	// One ancestor that must never be touched even if unresolved.
	ancKind := models.KindAncestor
	if _, err := db.PutPerson("hh", "anc-1", models.PersonPatch{Kind: &ancKind}); err != nil {
		t.Fatal(err)
	}

	dir := directory.NewMemory()
	w := reconcile.NewWorker(db, dir, slog.Default())

	members, _ := db.ListMembers("hh")
	ancestors, _ := db.ListAncestors("hh")
	all := append(members, ancestors...)
	if n := w.Sweep(context.Background(), "hh", all); n != 0 {
		t.Errorf("patched = %d, want 0", n)
	}

	p, _ := db.GetPerson("hh", "mystery")
	if p.DisplayName != models.PlaceholderName {
		t.Errorf("unknown member was modified: %+v", p)
	}
}

func TestSweepNeverOverwritesResolvedName(t *testing.T) {
	db := testutil.TestStore(t)
	seed(t, db)

	dir := directory.NewMemory()
	// The directory knows the owner under a different name, but the local
	// record is already resolved; only the missing full name may be filled.
	dir.Set("owner", directory.Profile{DisplayName: "Different", FullName: "Different Name"})

	w := reconcile.NewWorker(db, dir, slog.Default())
	members, _ := db.ListMembers("hh")
	if n := w.Sweep(context.Background(), "hh", members); n != 0 {
		t.Errorf("patched = %d, want 0 for fully resolved member", n)
	}

	p, _ := db.GetPerson("hh", "owner")
	if p.DisplayName != "Owner" || p.FullName != "Owner Berg" {
		t.Errorf("resolved names overwritten: %+v", p)
	}
}

func TestRunReactsToSnapshots(t *testing.T) {
	db := testutil.TestStore(t)
	seed(t, db)

	dir := directory.NewMemory()
	dir.Set("new", directory.Profile{DisplayName: "Nils", FullName: "Nils Berg"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := reconcile.NewWorker(db, dir, slog.Default())
	done := make(chan struct{})
	go func() {
		w.Run(ctx, "hh")
		close(done)
	}()

	// Give the worker time to register its watch.
	time.Sleep(50 * time.Millisecond)

	// Adding a placeholder member triggers a snapshot, which the worker
	// turns into a name patch.
	placeholder := models.PlaceholderName
	if _, err := db.PutPerson("hh", "new", models.PersonPatch{DisplayName: &placeholder}); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(3 * time.Second)
	for {
		p, err := db.GetPerson("hh", "new")
		if err == nil && p.DisplayName == "Nils" {
			break
		}
		select {
		case <-deadline:
			t.Fatal("worker never resolved the placeholder")
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	<-done
}
