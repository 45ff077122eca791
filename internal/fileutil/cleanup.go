package fileutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"viddl/internal/logging"
	"viddl/internal/sizespec"
)

// TempSuffix ends every in-progress re-encode output.
const TempSuffix = ".tmp.mp4"

// IsTempName reports whether name has the exact shape of a re-encode output:
// "<source>.mp4.<size>.tmp.mp4" with a parseable size. A finished download
// such as "backup.tmp.mp4" does not match.
func IsTempName(name string) bool {
	rest, ok := strings.CutSuffix(name, TempSuffix)
	if !ok {
		return false
	}
	// The size token may itself contain dots ("5.6M"), so anchor on the
	// last ".mp4." rather than the last dot.
	idx := strings.LastIndex(rest, ".mp4.")
	if idx <= 0 {
		return false
	}
	return sizespec.IsSize(rest[idx+len(".mp4."):])
}

// CleanupResult lists what CleanStaleTemps removed and what it could not.
type CleanupResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its removal error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStaleTemps removes re-encode outputs in dir that have not been written
// for maxAge. An interrupted run exits without cleaning up, so these are left
// next to the downloads. A missing dir is not an error.
func CleanStaleTemps(dir string, maxAge time.Duration, logger *slog.Logger) CleanupResult {
	result := CleanupResult{}
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return result
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: dir, Error: err})
		}
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() || !IsTempName(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			if logger != nil {
				logging.WarnWithContext(logger, "failed to remove stale re-encode output", "temp_cleanup_failed",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldImpact, "disk space not reclaimed"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, path)
		if logger != nil {
			logger.Info("removed stale re-encode output",
				logging.String("path", path),
				logging.Duration("age", time.Since(info.ModTime()).Round(time.Second)),
				logging.String(logging.FieldEventType, "temp_cleanup"),
			)
		}
	}
	return result
}
