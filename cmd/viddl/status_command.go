package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"viddl/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the download directory and external tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderStatusTable(preflight.RunAll(cfg), isTerminal(out)))
			return nil
		},
	}
}

func renderStatusTable(results []preflight.Result, colorize bool) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		kind := statusOK
		switch {
		case r.Passed:
		case r.Optional:
			kind = statusWarn
		default:
			kind = statusError
		}
		rows = append(rows, []string{r.Name, statusLabel(kind, colorize), r.Detail})
	}
	return renderTable([]string{"Check", "Status", "Detail"}, rows, nil)
}
