package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// entries limits ffprobe to the fields the planner reads.
const entries = "format=duration:stream=codec_type,bit_rate"

// Result is the subset of ffprobe JSON output viddl uses.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

type Stream struct {
	CodecType string `json:"codec_type"`
	BitRate   string `json:"bit_rate"`
}

type Format struct {
	Duration string `json:"duration"`
}

// Inspect runs binary (default "ffprobe") against path. A failed run
// returns an error carrying ffprobe's stderr.
func Inspect(ctx context.Context, binary, path string) (Result, error) {
	if strings.TrimSpace(binary) == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe: empty path")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary,
		"-v", "error",
		"-show_entries", entries,
		"-of", "json",
		"--", path,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return Result{}, fmt.Errorf("ffprobe %s: %w: %s", path, err, detail)
		}
		return Result{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return Parse(stdout.Bytes())
}

// Parse decodes ffprobe JSON output.
func Parse(data []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe: decode output: %w", err)
	}
	return result, nil
}

// DurationSeconds is the container duration. Missing values are 0 and
// malformed ones NaN, so callers can tell them apart.
func (r Result) DurationSeconds() float64 {
	value := strings.TrimSpace(r.Format.Duration)
	if value == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return math.NaN()
	}
	return seconds
}

// AudioBitRate reports the first audio stream's bitrate in bits per second.
// Only the first audio stream is considered, even if it reports "N/A".
func (r Result) AudioBitRate() (uint64, bool) {
	for _, stream := range r.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		rate, err := strconv.ParseUint(strings.TrimSpace(stream.BitRate), 10, 64)
		return rate, err == nil
	}
	return 0, false
}
