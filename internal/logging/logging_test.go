package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	scoped := NewComponentLogger(logger, "pipeline")
	scoped.Info("copy done", Args(String("path", "a/b.txt"), Int("bytes", 12))...)

	line := buf.String()
	if !strings.Contains(line, "INFO pipeline: copy done") {
		t.Fatalf("missing component prefix: %q", line)
	}
	if !strings.Contains(line, "path=a/b.txt") || !strings.Contains(line, "bytes=12") {
		t.Fatalf("missing attrs: %q", line)
	}
}

func TestNewConsoleQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Error("job failed", Args(Error(errors.New("no such codec")))...)
	if !strings.Contains(buf.String(), `error="no such codec"`) {
		t.Fatalf("expected quoted error value, got %q", buf.String())
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("scan complete", Args(Int("files", 3))...)

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json output: %v (%q)", err, buf.String())
	}
	if payload["msg"] != "scan complete" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level: %v", payload["level"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("quiet")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	logger.Warn("loud")
	if buf.Len() == 0 {
		t.Fatal("warn should pass at warn level")
	}
}

func TestNewNopDiscards(t *testing.T) {
	logger := NewNop()
	logger.Info("nothing happens")
	// NewComponentLogger must tolerate nil bases.
	NewComponentLogger(nil, "x").Info("still nothing")
}
