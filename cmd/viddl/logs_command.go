package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"viddl/internal/tasklog"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "logs [latest|<file>]",
		Long: `Without an argument, list the claimed batch files next to the batch file,
newest first. Each claimed file holds the original batch followed by the run
log. With "latest" or a file name, print the end of that run log.`,
		Short: "List claimed batch files or show the tail of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			runs, err := tasklog.ListRuns(cfg.Paths.BatchFile)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				if len(runs) == 0 {
					fmt.Fprintln(out, "No batch runs found")
					return nil
				}
				fmt.Fprintln(out, renderRunsTable(runs))
				return nil
			}

			path := strings.TrimSpace(args[0])
			switch {
			case path == "latest":
				if len(runs) == 0 {
					return fmt.Errorf("no batch runs found next to %s", cfg.Paths.BatchFile)
				}
				path = runs[0].Path
			case !filepath.IsAbs(path) && filepath.Base(path) == path:
				path = filepath.Join(filepath.Dir(cfg.Paths.BatchFile), path)
			}
			lines, err := tasklog.TailLines(path, limit)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "lines", "n", 20, "Number of lines to show (0 for all)")
	return cmd
}

func renderRunsTable(runs []tasklog.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			filepath.Base(run.Path),
			run.ClaimedAt.Format("2006-01-02 15:04:05"),
			humanize.Time(run.ClaimedAt),
			strconv.FormatInt(run.Size, 10),
		})
	}
	return renderTable(
		[]string{"File", "Claimed", "Age", "Bytes"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
	)
}
