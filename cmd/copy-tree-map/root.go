package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var opts runOptions

	rootCmd := &cobra.Command{
		Use:   "copy-tree-map",
		Short: "Clone a directory tree while filtering and transcoding files",
		Long: `Copy directory structure and files, possibly filtering and/or mapping
(converting) from one format to another.

The --ffmpeg flag transcodes matching audio files through ffmpeg. The rule
expects the colon-delimited pattern

    <INPUT-EXTENSION>:<OUTPUT-CODEC>:<OUTPUT-EXTENSION>:<OUTPUT-BITRATE>

for example "flac:libopus:ogg:192k" converts all FLAC files into opus in
.ogg containers at 192 kbps. Files matching no rule are copied unchanged;
files matching an --ignore glob are skipped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(cmd, opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.indir, "indir", "", "Input directory. Files in this directory are not modified.")
	flags.StringVar(&opts.outdir, "outdir", "", "Output directory. Files from INDIR are copied or mapped here. Must not exist yet.")
	flags.StringArrayVar(&opts.ffmpegRules, "ffmpeg", nil, "Transcode matching audio files with ffmpeg (rule: EXT:CODEC:EXT:BITRATE, repeatable)")
	flags.StringArrayVar(&opts.ignore, "ignore", nil, "Neither copy nor map files matching this basename glob (repeatable)")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "Number of parallel transcode workers (default: logical core count)")
	flags.BoolVar(&opts.verbose, "verbose", false, "Be more verbose")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")

	_ = rootCmd.MarkFlagRequired("indir")
	_ = rootCmd.MarkFlagRequired("outdir")

	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newRunsCommand())

	return rootCmd
}
