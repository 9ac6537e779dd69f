package config

import (
	"os"
	"path/filepath"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScanForDocuments(t *testing.T) {
	root := t.TempDir()

	doc1 := filepath.Join(root, "friends.connections")
	doc2 := filepath.Join(root, "sub", "family.connections")
	touch(t, doc1)
	touch(t, doc2)
	touch(t, filepath.Join(root, "notes.txt"))

	results := scanForDocuments(root, 3)
	if len(results) != 2 {
		t.Fatalf("expected 2 documents, got %d: %v", len(results), results)
	}
	found := make(map[string]bool)
	for _, r := range results {
		found[r] = true
	}
	if !found[doc1] || !found[doc2] {
		t.Errorf("missing documents in %v", results)
	}
}

func TestScanForDocuments_DepthLimit(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "a", "b", "c", "d", "deep.connections"))
	shallow := filepath.Join(root, "shallow", "s.connections")
	touch(t, shallow)

	results := scanForDocuments(root, 2)
	if len(results) != 1 || results[0] != shallow {
		t.Fatalf("expected only the shallow document, got %v", results)
	}
}

func TestScanForDocuments_SkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, ".hidden", "x.connections"))

	if results := scanForDocuments(root, 3); len(results) != 0 {
		t.Errorf("expected hidden dirs to be skipped, got %v", results)
	}
}

func TestScanForDocuments_MissingRoot(t *testing.T) {
	if results := scanForDocuments(filepath.Join(t.TempDir(), "nope"), 3); len(results) != 0 {
		t.Errorf("got %v", results)
	}
}

func TestDiscoverDocuments_Dedup(t *testing.T) {
	root := t.TempDir()
	doc := filepath.Join(root, "g.connections")
	touch(t, doc)

	cfg := Default()
	cfg.ScanPaths = []string{root, root}
	got := DiscoverDocuments(cfg)
	if len(got) != 1 || got[0] != doc {
		t.Errorf("DiscoverDocuments = %v", got)
	}
}

func TestScanForDocuments_RespectsGitignore(t *testing.T) {
	root := t.TempDir()
	keep := filepath.Join(root, "people", "keep.connections")
	touch(t, keep)
	touch(t, filepath.Join(root, "build", "out.connections"))
	touch(t, filepath.Join(root, "docs", "tmp", "x.connections"))
	touch(t, filepath.Join(root, "node_modules", "pkg", "y.connections"))
	touch(t, filepath.Join(root, "cache-2024", "z.connections"))

	gitignore := "# generated\nbuild/\n/docs/tmp\ncache-*\n!people\n"
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		t.Fatal(err)
	}

	results := scanForDocuments(root, 3)
	if len(results) != 1 || results[0] != keep {
		t.Errorf("expected only %s, got %v", keep, results)
	}
}

func TestIgnoreRules(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("dist/**\n/a/b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	r := loadIgnoreRules(root)

	tests := []struct {
		path string
		want bool
	}{
		{filepath.Join(root, "dist"), true},
		{filepath.Join(root, "x", "dist"), true},
		{filepath.Join(root, "a", "b"), true},
		{filepath.Join(root, "x", "a", "b"), false},
		{filepath.Join(root, "vendor"), true},
		{filepath.Join(root, "people"), false},
	}
	for _, tt := range tests {
		if got := r.skip(tt.path); got != tt.want {
			t.Errorf("skip(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
