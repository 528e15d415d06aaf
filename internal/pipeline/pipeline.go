package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/MawKKe/copy-tree-map/internal/fileutil"
	"github.com/MawKKe/copy-tree-map/internal/logging"
	"github.com/MawKKe/copy-tree-map/internal/rules"
	"github.com/MawKKe/copy-tree-map/internal/runerr"
	"github.com/MawKKe/copy-tree-map/internal/transcode"
	"github.com/MawKKe/copy-tree-map/internal/walk"
)

// Options configures one run.
type Options struct {
	InputRoot  string
	OutputRoot string
	Matcher    *rules.Matcher
	Engine     transcode.Engine
	Workers    int
	Logger     *slog.Logger
}

// Runner replicates the input tree to the output root, applying the
// per-file policy computed by the matcher.
type Runner struct {
	opts   Options
	logger *slog.Logger
}

// NewRunner validates the configuration and builds a runner. Unsupported
// codecs in the rule list are rejected here, before any work begins.
func NewRunner(opts Options) (*Runner, error) {
	if opts.InputRoot == "" || opts.OutputRoot == "" {
		return nil, runerr.Wrap(runerr.ErrConfiguration, "pipeline", "options", "input and output roots are required", nil)
	}
	if opts.Matcher == nil {
		return nil, runerr.Wrap(runerr.ErrConfiguration, "pipeline", "options", "matcher is required", nil)
	}
	for _, rule := range opts.Matcher.Rules() {
		if !transcode.IsSupportedCodec(rule.Codec) {
			return nil, runerr.Wrap(runerr.ErrConfiguration, "pipeline", "rule "+rule.String(),
				fmt.Sprintf("unsupported codec %q", rule.Codec), nil)
		}
	}
	if len(opts.Matcher.Rules()) > 0 && opts.Engine == nil {
		return nil, runerr.Wrap(runerr.ErrConfiguration, "pipeline", "options", "transcode rules configured but no engine provided", nil)
	}
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	return &Runner{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "pipeline"),
	}, nil
}

// Run executes the whole batch and returns the aggregated summary.
//
// The input tree is scanned and classified in full before the output root
// is created; a fatal error from that phase leaves zero filesystem side
// effects. Directories and copies run synchronously on the calling
// goroutine, transcodes go through the bounded worker pool. The returned
// error is nil even when individual jobs failed; callers inspect the
// summary for that.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	started := time.Now()

	entries, err := walk.Scan(r.opts.InputRoot)
	if err != nil {
		return Summary{}, err
	}

	// Classify every file exactly once, up front. The action is carried
	// through the rest of the pipeline instead of being re-derived.
	actions := make([]rules.FileAction, len(entries))
	for i, entry := range entries {
		if !entry.IsDir {
			actions[i] = r.opts.Matcher.Classify(entry.RelPath)
		}
	}

	if err := r.createOutputRoot(); err != nil {
		return Summary{}, err
	}

	results := make(chan JobResult)
	aggDone := make(chan struct{})
	var summary Summary
	go func() {
		defer close(aggDone)
		for res := range results {
			summary.add(res)
			if !res.Success {
				r.logger.Error("job failed", logging.Args(
					logging.String("path", res.Path),
					logging.String("action", res.Action.String()),
					logging.String("detail", res.Detail),
				)...)
			}
		}
	}()

	coord := startCoordinator(ctx, r.opts.Engine, r.opts.Workers, results)
	failed := newFailedSubtrees()

	for i, entry := range entries {
		if entry.IsDir {
			r.materializeDir(entry.RelPath, failed)
			continue
		}
		r.dispatchFile(entry.RelPath, actions[i], failed, coord, results)
	}

	coord.drain()
	close(results)
	<-aggDone

	summary.Duration = time.Since(started)
	return summary, nil
}

func (r *Runner) createOutputRoot() error {
	target := r.opts.OutputRoot
	if _, err := os.Stat(target); err == nil {
		return runerr.Wrap(runerr.ErrOutputExists, "pipeline", "create output root", target, nil)
	} else if !errors.Is(err, os.ErrNotExist) {
		return runerr.Wrap(runerr.ErrPath, "pipeline", "stat output root", target, err)
	}
	if err := os.MkdirAll(target, 0o755); err != nil {
		return runerr.Wrap(runerr.ErrPath, "pipeline", "create output root", target, err)
	}
	return nil
}

// materializeDir creates one output directory. Failure poisons the whole
// subtree: descendant file actions are recorded as failed without being
// attempted, while sibling subtrees continue untouched.
func (r *Runner) materializeDir(relPath string, failed *failedSubtrees) {
	if detail, covered := failed.covers(relPath); covered {
		failed.add(relPath, detail)
		return
	}
	target := filepath.Join(r.opts.OutputRoot, relPath)
	if err := os.Mkdir(target, 0o755); err != nil {
		detail := fmt.Sprintf("create directory %s: %v", relPath, err)
		failed.add(relPath, detail)
		r.logger.Error("directory creation failed", logging.Args(
			logging.String("path", relPath),
			logging.Error(err),
		)...)
		return
	}
	r.logger.Debug("mkdir", logging.Args(logging.String("path", relPath))...)
}

func (r *Runner) dispatchFile(relPath string, action rules.FileAction, failed *failedSubtrees, coord *coordinator, results chan<- JobResult) {
	if action.Kind == rules.ActionDrop {
		r.logger.Debug("ignr", logging.Args(logging.String("path", relPath))...)
		results <- JobResult{Path: relPath, Action: rules.ActionDrop, Success: true}
		return
	}

	if detail, covered := failed.covers(relPath); covered {
		results <- JobResult{
			Path:    relPath,
			Action:  action.Kind,
			Success: false,
			Detail:  "parent directory creation failed: " + detail,
		}
		return
	}

	src := filepath.Join(r.opts.InputRoot, relPath)
	dst := filepath.Join(r.opts.OutputRoot, action.Dest)

	switch action.Kind {
	case rules.ActionCopy:
		r.logger.Debug("copy", logging.Args(
			logging.String("src", relPath),
			logging.String("dst", action.Dest),
		)...)
		res := JobResult{Path: relPath, Action: rules.ActionCopy, Success: true}
		if err := fileutil.CopyFilePreserve(src, dst); err != nil {
			res.Success = false
			res.Detail = err.Error()
		}
		results <- res
	case rules.ActionTranscode:
		r.logger.Debug("conv", logging.Args(
			logging.String("src", relPath),
			logging.String("dst", action.Dest),
			logging.String("codec", action.Rule.Codec),
			logging.String("bitrate", action.Rule.Bitrate),
		)...)
		coord.submit(transcodeJob{
			relPath: relPath,
			req: transcode.Request{
				Source:  src,
				Dest:    dst,
				Codec:   action.Rule.Codec,
				Bitrate: action.Rule.Bitrate,
			},
		})
	}
}

// failedSubtrees tracks relative directories whose creation failed, so
// everything beneath them is marked failed without being attempted.
type failedSubtrees struct {
	dirs map[string]string
}

func newFailedSubtrees() *failedSubtrees {
	return &failedSubtrees{dirs: make(map[string]string)}
}

func (f *failedSubtrees) add(relPath, detail string) {
	f.dirs[relPath] = detail
}

// covers reports whether any ancestor of relPath has failed, returning the
// recorded detail of the nearest one.
func (f *failedSubtrees) covers(relPath string) (string, bool) {
	if len(f.dirs) == 0 {
		return "", false
	}
	for dir := filepath.Dir(relPath); dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
		if detail, ok := f.dirs[dir]; ok {
			return detail, true
		}
	}
	return "", false
}
