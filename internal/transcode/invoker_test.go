package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MawKKe/copy-tree-map/internal/runerr"
)

func setHelperCommand(t *testing.T, mode string, dest string) *[]string {
	t.Helper()
	captured := new([]string)
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		*captured = append([]string{name}, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], "-test.run=TestHelperProcess")
		cmd.Env = append(os.Environ(),
			"GO_WANT_HELPER_PROCESS=1",
			"FFMPEG_HELPER_MODE="+mode,
			"FFMPEG_HELPER_DEST="+dest,
		)
		return cmd
	}
	t.Cleanup(func() {
		commandContext = original
	})
	return captured
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	dest := os.Getenv("FFMPEG_HELPER_DEST")
	switch os.Getenv("FFMPEG_HELPER_MODE") {
	case "success":
		if dest != "" {
			_ = os.WriteFile(dest, []byte("encoded"), 0o644)
		}
		os.Exit(0)
	case "failure":
		// Leave a partial artifact behind, like a crashed encoder would.
		if dest != "" {
			_ = os.WriteFile(dest, []byte("partial"), 0o644)
		}
		fmt.Fprintln(os.Stderr, "Invalid data found when processing input")
		os.Exit(1)
	}
	os.Exit(0)
}

func TestIsSupportedCodec(t *testing.T) {
	for _, codec := range []string{"libmp3lame", "libopus"} {
		if !IsSupportedCodec(codec) {
			t.Errorf("expected %q to be supported", codec)
		}
	}
	for _, codec := range []string{"", "flac", "libvorbis", "LIBOPUS"} {
		if IsSupportedCodec(codec) {
			t.Errorf("expected %q to be rejected", codec)
		}
	}
}

func TestSupportedCodecsStableOrder(t *testing.T) {
	got := strings.Join(SupportedCodecs(), ",")
	if got != "libmp3lame,libopus" {
		t.Fatalf("unexpected codec list: %s", got)
	}
}

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/ffmpeg"))
	if cli.Binary() != "/opt/ffmpeg" {
		t.Fatalf("expected binary override, got %q", cli.Binary())
	}
}

func TestTranscodeRequiresPaths(t *testing.T) {
	cli := NewCLI()
	if err := cli.Transcode(context.Background(), Request{Dest: "out.mp3", Codec: "libopus", Bitrate: "192k"}); err == nil {
		t.Fatal("expected error for empty source")
	}
	if err := cli.Transcode(context.Background(), Request{Source: "in.flac", Codec: "libopus", Bitrate: "192k"}); err == nil {
		t.Fatal("expected error for empty destination")
	}
}

func TestTranscodeRejectsUnsupportedCodec(t *testing.T) {
	cli := NewCLI()
	err := cli.Transcode(context.Background(), Request{Source: "a.flac", Dest: "a.ogg", Codec: "libvorbis", Bitrate: "128k"})
	if err == nil {
		t.Fatal("expected error for unsupported codec")
	}
	if !errors.Is(err, runerr.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTranscodeBuildsExpectedArgs(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "song.mp3")
	captured := setHelperCommand(t, "success", dest)

	cli := NewCLI()
	req := Request{Source: filepath.Join(dir, "song.flac"), Dest: dest, Codec: "libmp3lame", Bitrate: "128k"}
	if err := cli.Transcode(context.Background(), req); err != nil {
		t.Fatalf("Transcode returned error: %v", err)
	}

	want := []string{"ffmpeg", "-loglevel", "warning", "-i", req.Source, "-c:a", "libmp3lame", "-b:a", "128k", "-vn", dest}
	if strings.Join(*captured, " ") != strings.Join(want, " ") {
		t.Fatalf("args = %v, want %v", *captured, want)
	}

	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected destination artifact: %v", err)
	}
}

func TestTranscodeFailureReportsStderrAndRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "song.ogg")
	setHelperCommand(t, "failure", dest)

	cli := NewCLI()
	err := cli.Transcode(context.Background(), Request{
		Source: filepath.Join(dir, "song.flac"), Dest: dest, Codec: "libopus", Bitrate: "192k",
	})
	if err == nil {
		t.Fatal("expected engine failure")
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected captured stderr in error, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("partial destination should have been removed, stat err: %v", statErr)
	}
}
