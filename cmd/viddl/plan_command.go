package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"viddl/internal/encoding"
	"viddl/internal/logging"
)

func newPlanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <file> <size>",
		Short: "Show how a file would be re-encoded to fit a size, without encoding",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			planner := encoding.NewPlanner(cfg.Tools.FFprobe, logging.NewNop())
			plan, err := planner.Plan(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("plan %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderPlanTable(args[0], plan))
			return nil
		},
	}
}

func renderPlanTable(path string, plan encoding.Plan) string {
	rows := [][]string{
		{"File", path},
		{"Duration", strconv.FormatFloat(plan.DurationSeconds, 'f', 1, 64) + "s"},
		{"Original size", humanize.Bytes(plan.OriginalBits / 8)},
		{"Target size", humanize.Bytes(plan.TargetBits / 8)},
	}
	if plan.Decision != encoding.DecisionWithinTarget {
		rows = append(rows,
			[]string{"Audio bitrate", humanize.SI(float64(plan.AudioBitrate), "bps")},
			[]string{"Video bitrate", humanize.SI(float64(plan.VideoBitrate), "bps")},
			[]string{"Expected size", humanize.Bytes(plan.ExpectedBits / 8)},
		)
	}
	rows = append(rows, []string{"Decision", plan.Decision.String()})
	return renderTable([]string{"Field", "Value"}, rows, nil)
}
