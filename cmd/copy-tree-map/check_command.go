package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MawKKe/copy-tree-map/internal/config"
	"github.com/MawKKe/copy-tree-map/internal/preflight"
	"github.com/MawKKe/copy-tree-map/internal/runerr"
)

func newCheckCommand() *cobra.Command {
	var indir string
	var outdir string
	var configPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify a run could start with the given directories",
		Long: `Run the same pre-flight checks a real invocation performs, without
touching the filesystem. Reports input readability, output availability,
free space, and the transcoding engine binary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(configPath)
			if err != nil {
				return err
			}

			results := []preflight.Result{
				preflight.CheckInputRoot(indir),
				preflight.CheckOutputTarget(outdir),
				preflight.CheckFreeSpace(outdir),
				preflight.CheckEngine(cfg.Transcode.FFmpegBinary),
			}

			rows := make([][]string, 0, len(results))
			failed := 0
			for _, res := range results {
				verdict := "OK"
				if !res.Passed {
					verdict = "FAIL"
					failed++
				}
				rows = append(rows, []string{res.Name, verdict, res.Detail})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"Check", "Result", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if failed > 0 {
				return runerr.Wrap(runerr.ErrPath, "cli", "check",
					fmt.Sprintf("%d of %d checks failed", failed, len(results)), nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&indir, "indir", "", "Input directory to check")
	cmd.Flags().StringVar(&outdir, "outdir", "", "Output directory to check")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	_ = cmd.MarkFlagRequired("indir")
	_ = cmd.MarkFlagRequired("outdir")

	return cmd
}
