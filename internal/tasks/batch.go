package tasks

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"viddl/internal/services"
)

// SkippedPrefix marks batch lines that could not be parsed.
const SkippedPrefix = "SKIPPED: "

// ReadBatch parses a batch file. Blank lines and lines starting with "#" or
// "//" are ignored. Lines that do not parse are returned as skip notes in
// input order, ready to be appended to the run log.
func ReadBatch(r io.Reader) ([]Task, []string, error) {
	var (
		out     []Task
		skipped []string
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		task, ok := ParseLine(line)
		if !ok {
			skipped = append(skipped, SkippedPrefix+line)
			continue
		}
		out = append(out, task)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, services.Wrap(services.ErrValidation, "batch", "read", "failed to read batch file", err)
	}
	return out, skipped, nil
}

// ClaimedName returns the name a batch file is renamed to once processing
// starts at now.
func ClaimedName(path string, now time.Time) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	if ext == "" {
		ext = ".txt"
	}
	return filepath.Join(filepath.Dir(path), fmt.Sprintf("%s_%d%s", base, now.Unix(), ext))
}

// ClaimBatch parses the batch file at path and renames it to its claimed
// name before any task runs. The renamed file doubles as the run log.
func ClaimBatch(path string, now time.Time) (Claim, error) {
	file, err := os.Open(path)
	if err != nil {
		marker := services.ErrConfiguration
		if errors.Is(err, fs.ErrNotExist) {
			marker = services.ErrNotFound
		}
		return Claim{}, services.Wrap(marker, "batch", "open", "failed to open batch file", err)
	}
	parsed, skipped, err := ReadBatch(file)
	_ = file.Close()
	if err != nil {
		return Claim{}, err
	}

	claimed := ClaimedName(path, now)
	if err := os.Rename(path, claimed); err != nil {
		return Claim{}, services.Wrap(services.ErrConfiguration, "batch", "claim", "failed to rename batch file", err)
	}
	return Claim{Path: claimed, Tasks: parsed, Skipped: skipped}, nil
}

// Claim is a batch file that has been read and moved out of the way.
type Claim struct {
	Path    string
	Tasks   []Task
	Skipped []string
}
