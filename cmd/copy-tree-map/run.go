package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MawKKe/copy-tree-map/internal/config"
	"github.com/MawKKe/copy-tree-map/internal/logging"
	"github.com/MawKKe/copy-tree-map/internal/pipeline"
	"github.com/MawKKe/copy-tree-map/internal/preflight"
	"github.com/MawKKe/copy-tree-map/internal/report"
	"github.com/MawKKe/copy-tree-map/internal/rules"
	"github.com/MawKKe/copy-tree-map/internal/runerr"
	"github.com/MawKKe/copy-tree-map/internal/transcode"
)

type runOptions struct {
	indir       string
	outdir      string
	ffmpegRules []string
	ignore      []string
	concurrency int
	verbose     bool
	configPath  string
}

// loadRunConfig loads the configuration file and layers explicitly set
// command line flags on top. Flags always win over file values.
func loadRunConfig(cmd *cobra.Command, opts runOptions) (*config.Config, error) {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		return nil, runerr.Wrap(runerr.ErrConfiguration, "cli", "load-config", err.Error(), err)
	}

	flags := cmd.Flags()
	if flags.Changed("ffmpeg") {
		cfg.Transcode.Rules = opts.ffmpegRules
	}
	if flags.Changed("ignore") {
		cfg.Transcode.Ignore = opts.ignore
	}
	if flags.Changed("concurrency") {
		cfg.Transcode.Concurrency = opts.concurrency
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, runerr.Wrap(runerr.ErrConfiguration, "cli", "validate-config", err.Error(), err)
	}
	return cfg, nil
}

func runCopy(cmd *cobra.Command, opts runOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, unix.SIGTERM)
	defer stop()

	cfg, err := loadRunConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	ruleList, err := rules.ParseRules(cfg.Transcode.Rules)
	if err != nil {
		return err
	}
	matcher, err := rules.NewMatcher(cfg.Transcode.Ignore, ruleList)
	if err != nil {
		return err
	}

	if err := gatePreflight(opts.indir, opts.outdir, cfg.Transcode.FFmpegBinary, len(ruleList) > 0); err != nil {
		return err
	}

	var engine transcode.Engine
	if len(ruleList) > 0 {
		engine = transcode.NewCLI(transcode.WithBinary(cfg.Transcode.FFmpegBinary))
	}

	runner, err := pipeline.NewRunner(pipeline.Options{
		InputRoot:  opts.indir,
		OutputRoot: opts.outdir,
		Matcher:    matcher,
		Engine:     engine,
		Workers:    cfg.Transcode.Concurrency,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	startedAt := time.Now()
	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printFailures(out, summary)
	printSummary(out, summary)

	if cfg.Report.Enabled {
		if err := recordRun(ctx, cfg.Report.Path, opts, startedAt, summary); err != nil {
			logger.Warn("recording run history failed",
				logging.Args(logging.String(logging.FieldComponent, "cli"), logging.Error(err))...)
		}
	}

	if !summary.OK() {
		return runerr.Wrap(runerr.ErrJobsFailed, "cli", "run",
			fmt.Sprintf("%d of %d file actions failed", summary.Failed, summary.Total()), nil)
	}
	return nil
}

// gatePreflight aborts the run before any filesystem mutation when the
// roots or the engine binary are unusable.
func gatePreflight(indir, outdir, ffmpegBinary string, needEngine bool) error {
	if res := preflight.CheckInputRoot(indir); !res.Passed {
		return runerr.Wrap(runerr.ErrPath, "cli", "preflight", res.Detail, nil)
	}
	if res := preflight.CheckOutputTarget(outdir); !res.Passed {
		marker := runerr.ErrPath
		if strings.Contains(res.Detail, "already exists") {
			marker = runerr.ErrOutputExists
		}
		return runerr.Wrap(marker, "cli", "preflight", res.Detail, nil)
	}
	if needEngine {
		if res := preflight.CheckEngine(ffmpegBinary); !res.Passed {
			return runerr.Wrap(runerr.ErrExternalTool, "cli", "preflight", res.Detail, nil)
		}
	}
	return nil
}

func printFailures(out io.Writer, summary pipeline.Summary) {
	if len(summary.Failures) == 0 {
		return
	}
	if stdoutIsTerminal(out) {
		rows := make([][]string, 0, len(summary.Failures))
		for _, failure := range summary.Failures {
			rows = append(rows, []string{failure.Path, failure.Action.String(), failure.Detail})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Path", "Action", "Detail"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft},
		))
		return
	}
	for _, failure := range summary.Failures {
		fmt.Fprintf(out, "failed: %s (%s): %s\n", failure.Path, failure.Action, failure.Detail)
	}
}

func printSummary(out io.Writer, summary pipeline.Summary) {
	printer := message.NewPrinter(language.English)
	printer.Fprintf(out, "Finished. Copied: %d, Transcoded: %d, Dropped: %d, Failed: %d (Total: %d)\n",
		summary.Copied, summary.Transcoded, summary.Dropped, summary.Failed, summary.Total())
}

func stdoutIsTerminal(out io.Writer) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

func recordRun(ctx context.Context, path string, opts runOptions, startedAt time.Time, summary pipeline.Summary) error {
	store, err := report.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	failures := make([]report.Failure, 0, len(summary.Failures))
	for _, failure := range summary.Failures {
		failures = append(failures, report.Failure{
			Path:   failure.Path,
			Action: failure.Action.String(),
			Detail: failure.Detail,
		})
	}

	_, err = store.RecordRun(ctx, report.Run{
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(summary.Duration),
		InputRoot:  opts.indir,
		OutputRoot: opts.outdir,
		Copied:     summary.Copied,
		Transcoded: summary.Transcoded,
		Dropped:    summary.Dropped,
		Failed:     summary.Failed,
	}, failures)
	return err
}
