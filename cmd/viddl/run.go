package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"viddl/internal/config"
	"viddl/internal/cookies"
	"viddl/internal/fileutil"
	"viddl/internal/logging"
	"viddl/internal/preflight"
	"viddl/internal/prompt"
	"viddl/internal/services"
	"viddl/internal/tasklog"
	"viddl/internal/tasks"
	"viddl/internal/workflow"
)

const (
	lockFileName = ".viddl.lock"
	staleTempAge = time.Hour
)

func runDownloads(cmd *cobra.Command, ctx *commandContext, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.newLogger(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	prepareRun(cfg, logger)

	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}

	switch {
	case len(args) > 0:
		return runArgs(runCtx, cmd, ctx, cfg, logger, args)
	case fileutil.Exists(cfg.Paths.BatchFile):
		return runBatchFile(runCtx, cmd, ctx, cfg, logger)
	default:
		return runInteractive(runCtx, cmd, ctx, cfg, logger)
	}
}

// prepareRun performs the startup chores shared by every mode. None of them
// is fatal.
func prepareRun(cfg *config.Config, logger *slog.Logger) {
	if fileutil.Exists(cfg.Paths.CookiesFile) {
		count, err := cookies.NormalizeFile(cfg.Paths.CookiesFile)
		if err != nil {
			logging.WarnWithContext(logger, "failed to normalize cookies file", "cookies_normalize_failed",
				logging.String("path", cfg.Paths.CookiesFile),
				logging.Error(err),
				logging.String(logging.FieldImpact, "yt-dlp receives the cookies file unchanged"),
			)
		} else {
			logger.Info("normalized cookies file",
				logging.String("path", cfg.Paths.CookiesFile),
				logging.Int("cookies", count),
			)
		}
	}

	for _, result := range preflight.Failed(preflight.RunAll(cfg)) {
		impact := "downloads will fail"
		if result.Optional {
			impact = "re-encoding will fail"
		}
		logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldImpact, impact),
		)
	}

	fileutil.CleanStaleTemps(cfg.Paths.DownloadDir, staleTempAge, logger)
}

func runArgs(ctx context.Context, cmd *cobra.Command, cc *commandContext, cfg *config.Config, logger *slog.Logger, args []string) error {
	batch := tasks.ParseArgs(args)
	if len(batch) == 0 {
		logging.WarnWithContext(logger, "no URLs in arguments", "no_tasks",
			logging.Int("arguments", len(args)),
			logging.String(logging.FieldImpact, "nothing to download"),
		)
		return nil
	}
	sink := tasklog.NewSink(cmd.ErrOrStderr())
	summary := cc.newManager(cmd, cfg, logger, sink).Run(ctx, batch, nil)
	renderSummary(cmd.OutOrStdout(), summary)
	return nil
}

// runBatchFile claims the batch file and uses the claimed file as the run
// log. The download-directory lock keeps a second process from claiming the
// same file.
func runBatchFile(ctx context.Context, cmd *cobra.Command, cc *commandContext, cfg *config.Config, logger *slog.Logger) error {
	lock := flock.New(filepath.Join(cfg.Paths.DownloadDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another viddl instance is processing %s", cfg.Paths.DownloadDir)
	}
	defer func() { _ = lock.Unlock() }()

	claim, err := tasks.ClaimBatch(cfg.Paths.BatchFile, time.Now())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			logger.Info("batch file already claimed", logging.String("path", cfg.Paths.BatchFile))
			return nil
		}
		return err
	}
	logger.Info("claimed batch file",
		logging.String("path", claim.Path),
		logging.Int("tasks", len(claim.Tasks)),
		logging.Int("skipped_lines", len(claim.Skipped)),
	)

	sink, err := tasklog.OpenFile(claim.Path)
	if err != nil {
		return err
	}
	defer sink.Close()

	summary := cc.newManager(cmd, cfg, logger, sink).Run(ctx, claim.Tasks, claim.Skipped)
	renderSummary(cmd.OutOrStdout(), summary)
	return nil
}

func runInteractive(ctx context.Context, cmd *cobra.Command, cc *commandContext, cfg *config.Config, logger *slog.Logger) error {
	out := cmd.OutOrStdout()
	sink := tasklog.NewSink(cmd.ErrOrStderr())
	manager := cc.newManager(cmd, cfg, logger, sink)

	return prompt.Run(ctx, lineReader(cmd.InOrStdin(), out), out, func(ctx context.Context, batch []tasks.Task) {
		renderSummary(out, manager.Run(ctx, batch, nil))
	})
}

func lineReader(in io.Reader, out io.Writer) prompt.LineReader {
	if file, ok := in.(*os.File); ok {
		return prompt.NewLineReader(file, out)
	}
	return prompt.NewScannerReader(in, out)
}

// renderSummary prints the result table when out is a terminal.
func renderSummary(out io.Writer, summary workflow.Summary) {
	if !isTerminal(out) || len(summary.Results) == 0 {
		return
	}
	fmt.Fprintln(out, renderResultsTable(summary))
}
