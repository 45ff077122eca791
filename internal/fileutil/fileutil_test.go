package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReplaceFileOverwritesDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "video.mp4.5M.tmp.mp4")
	dst := filepath.Join(dir, "video.mp4")
	if err := os.WriteFile(dst, []byte("original-content"), 0o644); err != nil {
		t.Fatalf("write dst: %v", err)
	}
	if err := os.WriteFile(src, []byte("small"), 0o644); err != nil {
		t.Fatalf("write src: %v", err)
	}

	if err := ReplaceFile(src, dst); err != nil {
		t.Fatalf("ReplaceFile: %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read dst: %v", err)
	}
	if string(data) != "small" {
		t.Fatalf("unexpected dst content %q", data)
	}
	if Exists(src) {
		t.Fatal("expected src to be gone after replace")
	}
}

func TestReplaceFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "video.mp4")
	if err := os.WriteFile(dst, []byte("keep"), 0o644); err != nil {
		t.Fatalf("write dst: %v", err)
	}
	if err := ReplaceFile(filepath.Join(dir, "missing"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "keep" {
		t.Fatalf("destination must be untouched, got %q", data)
	}
}

func TestSizeBits(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")
	if err := os.WriteFile(path, make([]byte, 125), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	bits, err := SizeBits(path)
	if err != nil {
		t.Fatalf("SizeBits: %v", err)
	}
	if bits != 1000 {
		t.Fatalf("expected 1000 bits, got %d", bits)
	}
	if _, err := SizeBits(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := SizeBits(dir); err == nil {
		t.Fatal("expected error for directory")
	}
}

func TestRemoveIfExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tmp")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("RemoveIfExists: %v", err)
	}
	if Exists(path) {
		t.Fatal("expected file removed")
	}
	if err := RemoveIfExists(path); err != nil {
		t.Fatalf("second RemoveIfExists should be a no-op: %v", err)
	}
}
