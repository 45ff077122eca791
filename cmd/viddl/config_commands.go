package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"viddl/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				target string
				err    error
			)
			if strings.TrimSpace(targetPath) == "" {
				target, err = config.DefaultConfigPath()
			} else {
				target, err = config.ExpandPath(strings.TrimSpace(targetPath))
			}
			if err != nil {
				return fmt.Errorf("resolve config path: %w", err)
			}

			if err := config.WriteSample(target, overwrite); err != nil {
				return fmt.Errorf("%w (use --overwrite to replace it)", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

// newConfigValidateCommand loads the configuration itself so a broken file
// is reported with its path instead of failing in the pre-run hook.
func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Check the configuration and print the effective settings",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, source, err := config.Load(*ctx.configFlag)
			if err != nil {
				if source.Path != "" {
					return fmt.Errorf("%s: %w", source.Path, err)
				}
				return err
			}

			origin := source.Path
			if !source.Found {
				origin += " (not found, defaults)"
			}
			rows := [][]string{
				{"config", origin},
				{"paths.download_dir", cfg.Paths.DownloadDir},
				{"paths.batch_file", cfg.Paths.BatchFile},
				{"paths.cookies_file", cfg.Paths.CookiesFile},
				{"tools.ytdlp", cfg.Tools.YtDlp},
				{"tools.ffmpeg", cfg.Tools.FFmpeg},
				{"tools.ffprobe", cfg.Tools.FFprobe},
				{"workflow.workers", strconv.Itoa(cfg.WorkerCount())},
				{"encoding", cfg.Encoding.VideoCodec + " / " + cfg.Encoding.AudioCodec},
				{"logging", cfg.Logging.Format + " / " + cfg.Logging.Level},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}
