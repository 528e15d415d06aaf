package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/MawKKe/copy-tree-map/internal/runerr"
	"github.com/MawKKe/copy-tree-map/internal/testsupport"
)

func TestRootCopiesTree(t *testing.T) {
	base := t.TempDir()
	indir := filepath.Join(base, "in")
	outdir := filepath.Join(base, "out")
	testsupport.BuildTree(t, indir, map[string]string{
		"a.txt":     "alpha",
		"sub/b.jpg": "bravo",
	})

	out, err := executeCommand(t,
		"--indir", indir,
		"--outdir", outdir,
		"--config", missingConfig(t),
	)
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}

	requireContains(t, out, "Finished. Copied: 2, Transcoded: 0, Dropped: 0, Failed: 0 (Total: 2)")
	for _, rel := range []string{"a.txt", "sub/b.jpg"} {
		if _, err := os.Stat(filepath.Join(outdir, rel)); err != nil {
			t.Fatalf("expected %s in output tree: %v", rel, err)
		}
	}
}

func TestRootIgnorePattern(t *testing.T) {
	base := t.TempDir()
	indir := filepath.Join(base, "in")
	outdir := filepath.Join(base, "out")
	testsupport.BuildTree(t, indir, map[string]string{
		"keep.txt":  "keep",
		"debug.log": "noise",
	})

	out, err := executeCommand(t,
		"--indir", indir,
		"--outdir", outdir,
		"--ignore", "*.log",
		"--config", missingConfig(t),
	)
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}

	requireContains(t, out, "Copied: 1, Transcoded: 0, Dropped: 1")
	if _, err := os.Stat(filepath.Join(outdir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("ignored file must not be copied, stat err = %v", err)
	}
}

func TestRootTranscodesWithRule(t *testing.T) {
	base := t.TempDir()
	indir := filepath.Join(base, "in")
	outdir := filepath.Join(base, "out")
	testsupport.BuildTree(t, indir, map[string]string{
		"song.flac": "pcm-data",
		"cover.jpg": "art",
	})

	configPath := writeTestConfig(t, "[transcode]\nffmpeg_binary = \""+fakeFFmpeg(t)+"\"\n")

	out, err := executeCommand(t,
		"--indir", indir,
		"--outdir", outdir,
		"--ffmpeg", "flac:libmp3lame:mp3:256k",
		"--config", configPath,
	)
	if err != nil {
		t.Fatalf("execute: %v\n%s", err, out)
	}

	requireContains(t, out, "Copied: 1, Transcoded: 1, Dropped: 0, Failed: 0")
	data, err := os.ReadFile(filepath.Join(outdir, "song.mp3"))
	if err != nil {
		t.Fatalf("expected transcoded song.mp3: %v", err)
	}
	if string(data) != "pcm-data" {
		t.Fatalf("unexpected transcoded payload %q", data)
	}
	if _, err := os.Stat(filepath.Join(outdir, "song.flac")); !os.IsNotExist(err) {
		t.Fatalf("source extension must not survive a matching rule, stat err = %v", err)
	}
}

func TestRootRejectsExistingOutput(t *testing.T) {
	base := t.TempDir()
	indir := filepath.Join(base, "in")
	outdir := filepath.Join(base, "out")
	testsupport.BuildTree(t, indir, map[string]string{"a.txt": "alpha"})
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, err := executeCommand(t,
		"--indir", indir,
		"--outdir", outdir,
		"--config", missingConfig(t),
	)
	if !errors.Is(err, runerr.ErrOutputExists) {
		t.Fatalf("expected ErrOutputExists, got %v", err)
	}
}

func TestRootRejectsMalformedRule(t *testing.T) {
	base := t.TempDir()
	indir := filepath.Join(base, "in")
	testsupport.BuildTree(t, indir, map[string]string{"a.txt": "alpha"})

	_, err := executeCommand(t,
		"--indir", indir,
		"--outdir", filepath.Join(base, "out"),
		"--ffmpeg", "flac-libmp3lame-mp3",
		"--config", missingConfig(t),
	)
	if !errors.Is(err, runerr.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(base, "out")); !os.IsNotExist(statErr) {
		t.Fatalf("bad configuration must not create output, stat err = %v", statErr)
	}
}

func TestRootRequiresDirectories(t *testing.T) {
	if _, err := executeCommand(t); err == nil {
		t.Fatal("expected an error when --indir and --outdir are missing")
	}
}
