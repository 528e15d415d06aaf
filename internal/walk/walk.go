package walk

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MawKKe/copy-tree-map/internal/runerr"
)

// Entry is one filesystem object discovered under the input root. RelPath
// is relative to the root; the root itself is not an entry.
type Entry struct {
	RelPath string
	IsDir   bool
}

// Scan enumerates the tree under root and returns the fully materialized
// entry list in pre-order: every directory appears before anything nested
// inside it. Within a directory the order is lexical, which keeps it
// stable for the duration of a run.
//
// The full list is built before the caller performs any output-side
// mutation. That ordering is deliberate: when the output tree nests inside
// the input tree, a lazy interleaved scan would observe its own output.
// Any read error during the scan aborts with no side effects, since
// nothing has been written yet.
func Scan(root string) ([]Entry, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, runerr.Wrap(runerr.ErrPath, "walk", "stat input root", root, err)
	}
	if !info.IsDir() {
		return nil, runerr.Wrap(runerr.ErrPath, "walk", "input root", root+" is not a directory", nil)
	}

	var entries []Entry
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		entries = append(entries, Entry{RelPath: rel, IsDir: d.IsDir()})
		return nil
	})
	if walkErr != nil {
		return nil, runerr.Wrap(runerr.ErrPath, "walk", "scan", root, walkErr)
	}
	return entries, nil
}

// CountFiles returns the number of non-directory entries.
func CountFiles(entries []Entry) int {
	count := 0
	for _, entry := range entries {
		if !entry.IsDir {
			count++
		}
	}
	return count
}
