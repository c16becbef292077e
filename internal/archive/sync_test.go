package archive_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hearthhq/hearth/internal/archive"
	"github.com/hearthhq/hearth/internal/models"
	"github.com/hearthhq/hearth/internal/store"
	"github.com/hearthhq/hearth/internal/testutil"
)

func seedHousehold(t *testing.T, db *store.DB, id string) {
	t.Helper()
	err := db.CreateHousehold(
		models.Household{ID: id, OwnerID: "owner", Name: "test"},
		models.Person{ID: "owner", Kind: models.KindMember, DisplayName: "Owner"},
	)
	if err != nil {
		t.Fatal(err)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSyncImportsRecords(t *testing.T) {
	db := testutil.TestStore(t)
	dir, files := testutil.TestArchive(t)
	seedHousehold(t, db, "hh")

	writeFile(t, dir, "bergs.json", `[
		{"id": "anc-gf", "household_id": "hh", "display_name": "Gustav", "role": "grandfather"},
		{"household_id": "hh", "display_name": "Greta", "role": "grandmother"}
	]`)

	if err := archive.Sync(db, files, slog.Default()); err != nil {
		t.Fatal(err)
	}

	ancestors, err := db.ListAncestors("hh")
	if err != nil {
		t.Fatal(err)
	}
	if len(ancestors) != 2 {
		t.Fatalf("ancestors = %d, want 2", len(ancestors))
	}

	gf, err := db.GetPerson("hh", "anc-gf")
	if err != nil {
		t.Fatal(err)
	}
	if gf.Kind != models.KindAncestor || gf.DisplayName != "Gustav" {
		t.Errorf("imported record = %+v", gf)
	}
	if gf.GroupScope != "hh" {
		t.Errorf("group scope = %q, want defaulted household id", gf.GroupScope)
	}
}

func TestSyncSkipsUnchangedFiles(t *testing.T) {
	db := testutil.TestStore(t)
	dir, files := testutil.TestArchive(t)
	seedHousehold(t, db, "hh")

	writeFile(t, dir, "a.json", `[{"id": "anc-1", "household_id": "hh", "display_name": "Anna"}]`)
	if err := archive.Sync(db, files, slog.Default()); err != nil {
		t.Fatal(err)
	}

	first, err := db.GetPerson("hh", "anc-1")
	if err != nil {
		t.Fatal(err)
	}

	// Second pass with an unchanged file must not rewrite the record.
	if err := archive.Sync(db, files, slog.Default()); err != nil {
		t.Fatal(err)
	}
	second, _ := db.GetPerson("hh", "anc-1")
	if !second.UpdatedAt.Equal(first.UpdatedAt) {
		t.Errorf("unchanged file was re-imported: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}

	// A changed file is re-imported.
	writeFile(t, dir, "a.json", `[{"id": "anc-1", "household_id": "hh", "display_name": "Anna Updated"}]`)
	if err := archive.Sync(db, files, slog.Default()); err != nil {
		t.Fatal(err)
	}
	updated, _ := db.GetPerson("hh", "anc-1")
	if updated.DisplayName != "Anna Updated" {
		t.Errorf("changed file not re-imported: %+v", updated)
	}
}

func TestSyncSkipsMalformedRecordsNotFiles(t *testing.T) {
	db := testutil.TestStore(t)
	dir, files := testutil.TestArchive(t)
	seedHousehold(t, db, "hh")

	// One record is missing its display name; the valid one still lands.
	writeFile(t, dir, "mixed.json", `[
		{"household_id": "hh"},
		{"id": "anc-ok", "household_id": "hh", "display_name": "Valid"}
	]`)
	// A file that is not JSON at all is logged and skipped.
	writeFile(t, dir, "broken.json", `{{{not json`)

	if err := archive.Sync(db, files, slog.Default()); err != nil {
		t.Fatal(err)
	}

	if _, err := db.GetPerson("hh", "anc-ok"); err != nil {
		t.Errorf("valid record not imported: %v", err)
	}
	ancestors, _ := db.ListAncestors("hh")
	if len(ancestors) != 1 {
		t.Errorf("ancestors = %d, want 1", len(ancestors))
	}
}

func TestSyncForgetsRemovedFiles(t *testing.T) {
	db := testutil.TestStore(t)
	dir, files := testutil.TestArchive(t)
	seedHousehold(t, db, "hh")

	writeFile(t, dir, "gone.json", `[{"id": "anc-1", "household_id": "hh", "display_name": "Anna"}]`)
	if err := archive.Sync(db, files, slog.Default()); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(filepath.Join(dir, "gone.json")); err != nil {
		t.Fatal(err)
	}
	if err := archive.Sync(db, files, slog.Default()); err != nil {
		t.Fatal(err)
	}

	checksums, err := db.ArchiveChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := checksums["gone.json"]; ok {
		t.Error("removed file still has an import record")
	}
	// The persons it created stay; archive files are inputs, not owners.
	if _, err := db.GetPerson("hh", "anc-1"); err != nil {
		t.Errorf("imported person was deleted: %v", err)
	}
}
