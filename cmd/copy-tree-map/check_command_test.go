package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/MawKKe/copy-tree-map/internal/testsupport"
)

func TestCheckPassesForUsableDirectories(t *testing.T) {
	base := t.TempDir()
	indir := filepath.Join(base, "in")
	testsupport.BuildTree(t, indir, map[string]string{"a.txt": "alpha"})

	configPath := writeTestConfig(t, "[transcode]\nffmpeg_binary = \""+fakeFFmpeg(t)+"\"\n")

	out, err := executeCommand(t, "check",
		"--indir", indir,
		"--outdir", filepath.Join(base, "out"),
		"--config", configPath,
	)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "Input directory")
	requireContains(t, out, "Free space")
	requireContains(t, out, "FFmpeg")
}

func TestCheckFailsWhenOutputExists(t *testing.T) {
	base := t.TempDir()
	indir := filepath.Join(base, "in")
	outdir := filepath.Join(base, "out")
	testsupport.BuildTree(t, indir, map[string]string{"a.txt": "alpha"})
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	configPath := writeTestConfig(t, "[transcode]\nffmpeg_binary = \""+fakeFFmpeg(t)+"\"\n")

	out, err := executeCommand(t, "check",
		"--indir", indir,
		"--outdir", outdir,
		"--config", configPath,
	)
	if err == nil {
		t.Fatalf("expected check to fail, output:\n%s", out)
	}
	requireContains(t, out, "FAIL")
	requireContains(t, out, "already exists")
}

func TestCheckFailsForMissingInput(t *testing.T) {
	base := t.TempDir()

	configPath := writeTestConfig(t, "[transcode]\nffmpeg_binary = \""+fakeFFmpeg(t)+"\"\n")

	out, err := executeCommand(t, "check",
		"--indir", filepath.Join(base, "nope"),
		"--outdir", filepath.Join(base, "out"),
		"--config", configPath,
	)
	if err == nil {
		t.Fatalf("expected check to fail, output:\n%s", out)
	}
	requireContains(t, out, "does not exist")
}
