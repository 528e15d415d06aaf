// Package runerr defines the error taxonomy shared by the pipeline and the
// CLI. Fatal pre-flight problems (bad configuration, unusable paths) are
// wrapped with a sentinel marker so callers can classify them; per-file
// failures never travel as errors, they become job results.
package runerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks unusable run configuration: malformed
	// transcode rules, unsupported codecs, invalid glob patterns.
	ErrConfiguration = errors.New("configuration error")

	// ErrPath marks an unusable input or output root.
	ErrPath = errors.New("path error")

	// ErrOutputExists marks a pre-existing output root. The run refuses to
	// merge into stale data.
	ErrOutputExists = errors.New("output path already exists")

	// ErrExternalTool marks a missing or broken external binary.
	ErrExternalTool = errors.New("external tool error")

	// ErrJobsFailed marks a run that completed with one or more failed
	// file actions. The summary carries the detail.
	ErrJobsFailed = errors.New("jobs failed")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrConfiguration
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsFatal reports whether err belongs to the pre-flight class that must
// abort the run before any filesystem side effect.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrPath) ||
		errors.Is(err, ErrOutputExists) ||
		errors.Is(err, ErrExternalTool)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "run failure"
	}
	return strings.Join(parts, ": ")
}
