package encoding

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"viddl/internal/config"
	"viddl/internal/fileutil"
	"viddl/internal/logging"
	"viddl/internal/services"
)

// Outcome describes how a re-encode attempt ended without error.
type Outcome string

const (
	// OutcomeWithinTarget means the file already fit; ffmpeg was not run.
	OutcomeWithinTarget Outcome = "within_target"
	// OutcomeNoGain means the plan could not beat the original; ffmpeg was not run.
	OutcomeNoGain Outcome = "no_gain"
	// OutcomeDiscarded means ffmpeg ran but its output was not smaller.
	OutcomeDiscarded Outcome = "discarded"
	// OutcomeReplaced means the original was replaced by the smaller output.
	OutcomeReplaced Outcome = "replaced"
)

// Result reports a finished re-encode attempt.
type Result struct {
	Outcome   Outcome
	Plan      Plan
	FinalBits uint64
}

// Reencoder executes plans with ffmpeg.
type Reencoder struct {
	Planner    *Planner
	FFmpeg     string
	VideoCodec string
	AudioCodec string
	Stdout     io.Writer
	Stderr     io.Writer
	Logger     *slog.Logger
}

// NewReencoder wires a Reencoder from configuration. ffmpeg output is
// streamed to the process's stdout and stderr.
func NewReencoder(cfg *config.Config, logger *slog.Logger) *Reencoder {
	return &Reencoder{
		Planner:    NewPlanner(cfg.Tools.FFprobe, logger),
		FFmpeg:     cfg.Tools.FFmpeg,
		VideoCodec: cfg.Encoding.VideoCodec,
		AudioCodec: cfg.Encoding.AudioCodec,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Logger:     logging.NewComponentLogger(logger, "reencode"),
	}
}

// TempPath returns the sibling path ffmpeg writes to before validation.
func TempPath(path, sizeToken string) string {
	return fmt.Sprintf("%s.%s%s", path, strings.TrimSpace(sizeToken), fileutil.TempSuffix)
}

// Reencode shrinks path towards sizeToken. Errors mean the original is
// untouched; a non-error Result may still leave it unchanged (see Outcome).
func (r *Reencoder) Reencode(ctx context.Context, path, sizeToken string) (Result, error) {
	logger := logging.WithContext(ctx, r.logger())
	logger.Info("re-encoding", logging.String("path", path), logging.String("target", sizeToken))

	plan, err := r.Planner.Plan(ctx, path, sizeToken)
	if err != nil {
		return Result{}, err
	}
	switch plan.Decision {
	case DecisionWithinTarget:
		logger.Info("file already within target size", logging.String("path", path))
		return Result{Outcome: OutcomeWithinTarget, Plan: plan, FinalBits: plan.OriginalBits}, nil
	case DecisionNoGain:
		logger.Info("re-encoding would not shrink file, skipping",
			logging.String("path", path),
			logging.String("expected_size", humanize.Bytes(plan.ExpectedBits/8)),
			logging.String("original_size", humanize.Bytes(plan.OriginalBits/8)),
		)
		return Result{Outcome: OutcomeNoGain, Plan: plan, FinalBits: plan.OriginalBits}, nil
	}

	logger.Info("encoding",
		logging.Uint64("video_kbps", plan.VideoBitrate/1000),
		logging.Uint64("audio_kbps", plan.AudioBitrate/1000),
	)

	tmp := TempPath(path, sizeToken)
	if err := r.runFFmpeg(ctx, path, tmp, plan); err != nil {
		_ = fileutil.RemoveIfExists(tmp)
		return Result{}, err
	}

	finalBits, err := fileutil.SizeBits(tmp)
	if err != nil {
		return Result{}, services.Wrap(services.ErrNotFound, "reencode", "stat output",
			"output file missing", err)
	}

	if finalBits >= plan.OriginalBits {
		logger.Info("encoded file not smaller than original, discarding",
			logging.String("encoded_size", humanize.Bytes(finalBits/8)),
			logging.String("original_size", humanize.Bytes(plan.OriginalBits/8)),
		)
		if err := fileutil.RemoveIfExists(tmp); err != nil {
			logging.WarnWithContext(logger, "failed to remove discarded output",
				"temp_cleanup_failed",
				logging.String("path", tmp),
				logging.Error(err),
				logging.String(logging.FieldImpact, "temporary file left next to the download"),
			)
		}
		return Result{Outcome: OutcomeDiscarded, Plan: plan, FinalBits: plan.OriginalBits}, nil
	}

	if err := fileutil.ReplaceFile(tmp, path); err != nil {
		_ = fileutil.RemoveIfExists(tmp)
		return Result{}, services.Wrap(services.ErrTransient, "reencode", "replace original",
			"failed to move encoded file into place", err)
	}
	logger.Info("re-encoded and replaced original",
		logging.String("path", path),
		logging.String("final_size", humanize.Bytes(finalBits/8)),
	)
	return Result{Outcome: OutcomeReplaced, Plan: plan, FinalBits: finalBits}, nil
}

func (r *Reencoder) runFFmpeg(ctx context.Context, input, output string, plan Plan) error {
	binary := strings.TrimSpace(r.FFmpeg)
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, binary, ffmpegArgs(input, output, plan, r.VideoCodec, r.AudioCodec)...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return services.Wrap(services.ErrExternalTool, "reencode", "ffmpeg",
			"transcode failed", err)
	}
	return nil
}

func ffmpegArgs(input, output string, plan Plan, videoCodec, audioCodec string) []string {
	if videoCodec == "" {
		videoCodec = "libx264"
	}
	if audioCodec == "" {
		audioCodec = "aac"
	}
	video := strconv.FormatUint(plan.VideoBitrate, 10)
	return []string{
		"-loglevel", "error",
		"-y",
		"-i", input,
		"-c:v", videoCodec,
		"-b:v", video,
		"-maxrate:v", video,
		"-bufsize:v", strconv.FormatUint(plan.VideoBitrate*2, 10),
		"-c:a", audioCodec,
		"-b:a", strconv.FormatUint(plan.AudioBitrate, 10),
		output,
	}
}

func (r *Reencoder) logger() *slog.Logger {
	if r == nil || r.Logger == nil {
		return logging.NewNop()
	}
	return r.Logger
}
