package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/MawKKe/copy-tree-map/internal/runerr"
)

var commandContext = exec.CommandContext

// supportedCodecs is the closed set of codec identifiers this contract
// accepts. Anything else is a configuration error raised before work
// begins, never a per-file failure.
var supportedCodecs = map[string]struct{}{
	"libmp3lame": {},
	"libopus":    {},
}

// IsSupportedCodec reports whether codec may appear in a transcode rule.
func IsSupportedCodec(codec string) bool {
	_, ok := supportedCodecs[codec]
	return ok
}

// SupportedCodecs lists the accepted codec identifiers in stable order.
func SupportedCodecs() []string {
	names := make([]string, 0, len(supportedCodecs))
	for name := range supportedCodecs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Request describes one transcode invocation. Dest carries the target
// container extension; the engine derives nothing from the source name.
type Request struct {
	Source  string
	Dest    string
	Codec   string
	Bitrate string
}

// Engine abstracts the external transcoding engine so the pipeline can be
// exercised without a real binary.
type Engine interface {
	Transcode(ctx context.Context, req Request) error
}

// Option configures the CLI engine.
type Option func(*CLI)

// WithBinary overrides the default ffmpeg binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line encoder.
type CLI struct {
	binary string
}

// NewCLI constructs a CLI engine using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Binary returns the configured engine binary name.
func (c *CLI) Binary() string {
	return c.binary
}

// Transcode runs one ffmpeg encode to completion and reports its outcome.
// On engine failure the partially written destination is removed so a
// failed job never leaves an output that looks like a success.
func (c *CLI) Transcode(ctx context.Context, req Request) error {
	if req.Source == "" {
		return errors.New("source path required")
	}
	if req.Dest == "" {
		return errors.New("destination path required")
	}
	if !IsSupportedCodec(req.Codec) {
		return runerr.Wrap(runerr.ErrConfiguration, "transcode", "codec",
			fmt.Sprintf("unsupported codec %q (supported: %s)", req.Codec, strings.Join(SupportedCodecs(), ", ")), nil)
	}

	args := []string{
		"-loglevel", "warning",
		"-i", req.Source,
		"-c:a", req.Codec,
		"-b:a", req.Bitrate,
		"-vn",
		req.Dest,
	}
	cmd := commandContext(ctx, c.binary, args...)

	var stderr bytes.Buffer
	cmd.Stdout = nil
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Whatever ffmpeg left behind is not a valid artifact.
		_ = os.Remove(req.Dest)
		diag := strings.TrimSpace(stderr.String())
		if diag != "" {
			return fmt.Errorf("ffmpeg: %w: %s", err, diag)
		}
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

var _ Engine = (*CLI)(nil)
