package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/MawKKe/copy-tree-map/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckInputRoot verifies the input root exists, is a directory, and is
// readable and traversable.
func CheckInputRoot(path string) Result {
	const name = "Input directory"
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckOutputTarget verifies the output root does not exist yet and that
// its closest existing ancestor is writable.
func CheckOutputTarget(path string) Result {
	const name = "Output directory"
	if _, err := os.Stat(path); err == nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: already exists)", path)}
	} else if !os.IsNotExist(err) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	ancestor := existingAncestor(path)
	if ancestor == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing ancestor)", path)}
	}
	if err := unix.Access(ancestor, unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s not writable: %v)", path, ancestor, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (absent, parent writable)", path)}
}

// CheckFreeSpace reports the space available to the output target. It is
// informational: the check passes whenever the filesystem can be queried
// and reports a non-zero number of free bytes.
func CheckFreeSpace(path string) Result {
	const name = "Free space"
	ancestor := existingAncestor(path)
	if ancestor == "" {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no existing ancestor)", path)}
	}
	var stat unix.Statfs_t
	if err := unix.Statfs(ancestor, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", ancestor, err)}
	}
	avail := stat.Bavail * uint64(stat.Bsize)
	if avail == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: filesystem full)", ancestor)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB available)", ancestor, avail/(1<<20))}
}

// CheckEngine reports whether the transcoding engine binary is resolvable.
// Runs with no transcode rules do not need it; callers gate on that.
func CheckEngine(binary string) Result {
	statuses := deps.CheckBinaries([]deps.Requirement{{
		Name:        "FFmpeg",
		Command:     binary,
		Description: "Required for transcode rules",
	}})
	status := statuses[0]
	detail := status.Command
	if !status.Available {
		detail = status.Detail
	}
	return Result{Name: status.Name, Passed: status.Available, Detail: detail}
}

func existingAncestor(path string) string {
	current := filepath.Clean(path)
	for {
		if _, err := os.Stat(current); err == nil {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}
