package encoding

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/dustin/go-humanize"

	"viddl/internal/fileutil"
	"viddl/internal/logging"
	"viddl/internal/services"
	"viddl/internal/sizespec"
)

const (
	// FallbackAudioBitrate is used when the source audio bitrate cannot be probed.
	FallbackAudioBitrate uint64 = 320_000
	// MinVideoBitrate is the floor applied to the video stream.
	MinVideoBitrate uint64 = 1000
	// containerOverheadRatio is the share of the target reserved for muxing overhead.
	containerOverheadRatio = 0.01
)

// audioLadder lists the fallback audio bitrates tried after the source bitrate.
var audioLadder = []uint64{320_000, 256_000, 192_000}

// Decision is the planner's verdict for one file.
type Decision int

const (
	// DecisionEncode means the plan fits the budget and should be executed.
	DecisionEncode Decision = iota
	// DecisionWithinTarget means the file already fits the budget.
	DecisionWithinTarget
	// DecisionNoGain means the best achievable output would not be smaller.
	DecisionNoGain
)

func (d Decision) String() string {
	switch d {
	case DecisionEncode:
		return "encode"
	case DecisionWithinTarget:
		return "within_target"
	case DecisionNoGain:
		return "no_gain"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Plan captures the figures behind one re-encode attempt. It is computed
// fresh for every attempt and never persisted.
type Plan struct {
	DurationSeconds float64
	OriginalBits    uint64
	TargetBits      uint64
	AudioBitrate    uint64
	VideoBitrate    uint64
	ExpectedBits    uint64
	Decision        Decision
}

// Budget splits targetBits into audio and video bitrates for a file of the
// given duration. Audio candidates are the source bitrate followed by the
// fallback ladder; the first candidate leaving at least MinVideoBitrate for
// video wins. When none does, video is pinned to the floor and the last
// candidate is kept.
func Budget(durationSeconds float64, audioBitrate, originalBits, targetBits uint64) Plan {
	plan := Plan{
		DurationSeconds: durationSeconds,
		OriginalBits:    originalBits,
		TargetBits:      targetBits,
		AudioBitrate:    audioBitrate,
	}
	if originalBits <= targetBits {
		plan.Decision = DecisionWithinTarget
		return plan
	}

	overhead := clampBits(float64(targetBits) * containerOverheadRatio)
	budget := targetBits - overhead
	totalBitrate := clampBits(float64(budget) / durationSeconds)

	candidates := append([]uint64{audioBitrate}, audioLadder...)
	selected := false
	for _, audio := range candidates {
		plan.AudioBitrate = audio
		video := saturatingSub(totalBitrate, audio)
		if video >= MinVideoBitrate {
			plan.VideoBitrate = video
			selected = true
			break
		}
	}
	if !selected {
		plan.VideoBitrate = MinVideoBitrate
	}

	plan.ExpectedBits = clampBits(float64(plan.AudioBitrate+plan.VideoBitrate) * durationSeconds)
	if plan.ExpectedBits >= originalBits {
		plan.Decision = DecisionNoGain
		return plan
	}
	plan.Decision = DecisionEncode
	return plan
}

// clampBits converts v to uint64, saturating at both ends. NaN is 0.
func clampBits(v float64) uint64 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxUint64:
		return math.MaxUint64
	}
	return uint64(v)
}

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

// Planner gathers the inputs Budget needs for a file on disk.
type Planner struct {
	FFprobe string
	Logger  *slog.Logger
}

// NewPlanner builds a planner that probes with the given ffprobe binary.
func NewPlanner(ffprobeBinary string, logger *slog.Logger) *Planner {
	return &Planner{
		FFprobe: ffprobeBinary,
		Logger:  logging.NewComponentLogger(logger, "planner"),
	}
}

// Plan resolves sizeToken and probes path. Any error leaves the file
// untouched; the caller should abort the re-encode step for this task only.
func (p *Planner) Plan(ctx context.Context, path, sizeToken string) (Plan, error) {
	logger := logging.WithContext(ctx, p.logger())

	spec, ok := sizespec.Parse(sizeToken)
	if !ok {
		return Plan{}, services.Wrap(services.ErrValidation, "reencode", "parse target size",
			fmt.Sprintf("could not parse target size %q", sizeToken), nil)
	}
	if spec.Warning != "" {
		logging.WarnWithContext(logger, "target size unit assumed",
			"size_unit_fallback",
			logging.String("size", spec.Token),
			logging.String("reason", spec.Warning),
			logging.String(logging.FieldImpact, "target interpreted as bytes"),
		)
	}

	probe, err := encodeProbe(ctx, p.FFprobe, path)
	if err != nil {
		return Plan{}, services.Wrap(services.ErrExternalTool, "reencode", "probe duration",
			"ffprobe failed", err)
	}
	duration := probe.DurationSeconds()
	if math.IsNaN(duration) || math.IsInf(duration, 0) || duration <= 0 {
		return Plan{}, services.Wrap(services.ErrValidation, "reencode", "probe duration",
			"duration is zero or invalid", nil)
	}

	audio, ok := probe.AudioBitRate()
	if !ok {
		audio = FallbackAudioBitrate
		logging.WarnWithContext(logger, "failed to read audio bitrate",
			"audio_probe_fallback",
			logging.Uint64("fallback_bps", FallbackAudioBitrate),
			logging.String(logging.FieldImpact, "audio budget uses fallback bitrate"),
		)
	}

	originalBits, err := fileutil.SizeBits(path)
	if err != nil {
		return Plan{}, services.Wrap(services.ErrNotFound, "reencode", "stat source",
			"cannot stat file", err)
	}

	plan := Budget(duration, audio, originalBits, spec.Bits)
	logger.Debug("re-encode plan",
		logging.String("decision", plan.Decision.String()),
		logging.Float64("duration_seconds", plan.DurationSeconds),
		logging.String("original_size", humanize.Bytes(plan.OriginalBits/8)),
		logging.String("target_size", humanize.Bytes(plan.TargetBits/8)),
		logging.String("audio_bitrate", humanize.SI(float64(plan.AudioBitrate), "bps")),
		logging.String("video_bitrate", humanize.SI(float64(plan.VideoBitrate), "bps")),
		logging.String("expected_size", humanize.Bytes(plan.ExpectedBits/8)),
	)
	return plan, nil
}

func (p *Planner) logger() *slog.Logger {
	if p == nil || p.Logger == nil {
		return logging.NewNop()
	}
	return p.Logger
}
