package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var workersFlag int

	ctx := newCommandContext(&configFlag, &workersFlag)

	rootCmd := &cobra.Command{
		Use:   "viddl [url [size] [2fa]]...",
		Short: "Download videos with yt-dlp and shrink them to a size budget",
		Long: `viddl downloads each URL with yt-dlp. A size such as 5M, 600K or 8mbit
after a URL re-encodes the download with ffmpeg to fit that budget; a
following token is passed to yt-dlp as a two-factor code.

Without arguments viddl processes urls.txt in the download directory when it
exists, and prompts for URLs otherwise.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownloads(cmd, ctx, args)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.Flags().IntVarP(&workersFlag, "workers", "w", 0, "Concurrent tasks (overrides workflow.workers)")

	rootCmd.AddCommand(newPlanCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}
