package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/MawKKe/copy-tree-map/internal/config"
	"github.com/MawKKe/copy-tree-map/internal/report"
)

func newRunsCommand() *cobra.Command {
	var limit int
	var configPath string

	cmd := &cobra.Command{
		Use:   "runs [run-id]",
		Short: "Show recorded run history",
		Long: `List recent runs from the history database, newest first. With a run ID
argument, show the failed file actions of that run instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if !cfg.Report.Enabled {
				return errors.New("run history is disabled; set report.enabled = true in the configuration")
			}

			store, err := report.Open(cfg.Report.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if len(args) == 1 {
				return printRunFailures(cmd, store, args[0])
			}

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No recorded runs.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.ID,
					run.StartedAt.Local().Format(time.DateTime),
					run.InputRoot,
					run.OutputRoot,
					strconv.Itoa(run.Copied),
					strconv.Itoa(run.Transcoded),
					strconv.Itoa(run.Dropped),
					strconv.Itoa(run.Failed),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Started", "Input", "Output", "Copied", "Transcoded", "Dropped", "Failed"},
				rows,
				[]columnAlignment{
					alignLeft, alignLeft, alignLeft, alignLeft,
					alignRight, alignRight, alignRight, alignRight,
				},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")

	return cmd
}

func printRunFailures(cmd *cobra.Command, store *report.Store, runID string) error {
	failures, err := store.RunFailures(cmd.Context(), runID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(failures) == 0 {
		fmt.Fprintf(out, "No recorded failures for run %s.\n", runID)
		return nil
	}
	rows := make([][]string, 0, len(failures))
	for _, failure := range failures {
		rows = append(rows, []string{failure.Path, failure.Action, failure.Detail})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Path", "Action", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft},
	))
	return nil
}
