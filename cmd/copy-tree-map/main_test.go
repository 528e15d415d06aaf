package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeCommand runs the CLI with the given arguments and captures the
// combined stdout/stderr output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

// writeTestConfig writes a configuration file under a temp dir and returns
// its path.
func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// missingConfig returns a path that resolves to no file, so runs use pure
// defaults regardless of the host environment.
func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "absent.toml")
}

// fakeFFmpeg installs a shell script that mimics the engine argv contract:
// it copies the input (argument 4) to the destination (last argument).
func fakeFFmpeg(t *testing.T) string {
	t.Helper()

	script := "#!/bin/sh\n" +
		"src=\"$4\"\n" +
		"eval \"dst=\\${$#}\"\n" +
		"cp \"$src\" \"$dst\"\n"
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	return path
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
