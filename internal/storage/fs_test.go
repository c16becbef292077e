package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func newFS(t *testing.T) (*FS, string) {
	t.Helper()
	dir := t.TempDir()
	f, err := NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return f, dir
}

func TestListOnlyJSONFiles(t *testing.T) {
	f, dir := newFS(t)

	if err := os.WriteFile(filepath.Join(dir, "a.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "b.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`skip`), 0o644); err != nil {
		t.Fatal(err)
	}

	metas, err := f.List("")
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) != 2 {
		t.Fatalf("listed %d files, want 2", len(metas))
	}
	for _, m := range metas {
		if m.Checksum == "" {
			t.Errorf("missing checksum for %s", m.Path)
		}
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	f, _ := newFS(t)

	if err := f.Write("deep/nested/out.json", []byte(`[{"x":1}]`)); err != nil {
		t.Fatal(err)
	}
	data, err := f.Read("deep/nested/out.json")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `[{"x":1}]` {
		t.Errorf("read back %q", data)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	f, dir := newFS(t)

	if err := f.Write("a.json", []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "a.json" {
		t.Errorf("dir entries = %v, want only a.json", entries)
	}
}

func TestPathTraversalRejected(t *testing.T) {
	f, _ := newFS(t)

	for _, p := range []string{"../escape.json", "a/../../escape.json", "/etc/passwd"} {
		if _, err := f.Read(p); err == nil {
			t.Errorf("Read(%q) succeeded, want traversal rejection", p)
		}
		if err := f.Write(p, []byte(`x`)); err == nil {
			t.Errorf("Write(%q) succeeded, want traversal rejection", p)
		}
	}
}
