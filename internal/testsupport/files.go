// Package testsupport holds shared helpers for building fixture trees in
// tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path (and any missing parent directories) with the
// provided content.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MkdirAll creates a directory tree rooted at path.
func MkdirAll(t testing.TB, path string) {
	t.Helper()

	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

// BuildTree creates a fixture tree under root. Keys ending in "/" become
// directories; other keys become files holding the mapped content.
func BuildTree(t testing.TB, root string, entries map[string]string) {
	t.Helper()

	for rel, content := range entries {
		target := filepath.Join(root, filepath.FromSlash(rel))
		if len(rel) > 0 && rel[len(rel)-1] == '/' {
			MkdirAll(t, target)
			continue
		}
		WriteFile(t, target, []byte(content))
	}
}
