package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ReplaceFile moves src over dst. The rename is atomic when both paths live
// on the same filesystem: readers observe either the old dst or the complete
// src, never a missing file.
func ReplaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("replace %s: %w", dst, err)
	}
	return nil
}

// SizeBits returns the size of path in bits.
func SizeBits(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	if info.IsDir() {
		return 0, fmt.Errorf("%s is a directory", path)
	}
	return uint64(info.Size()) * 8, nil
}

// Exists reports whether path exists. Stat errors other than "not exist"
// count as existing so callers do not overwrite files they cannot inspect.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// RemoveIfExists deletes path, ignoring a missing file.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
