package deps

import (
	"os"
	"path/filepath"
	"testing"

	"viddl/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary to be unavailable with detail, got %#v", results[1])
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank command status %#v", results[2])
	}
}

func TestToolRequirementsFollowConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.YtDlp = "/opt/yt-dlp"
	reqs := ToolRequirements(&cfg)
	if len(reqs) != 3 || reqs[0].Command != "/opt/yt-dlp" || reqs[0].Optional {
		t.Fatalf("unexpected requirements %#v", reqs)
	}
}

func TestMissingIgnoresOptional(t *testing.T) {
	statuses := []Status{
		{Name: "yt-dlp", Available: false},
		{Name: "FFmpeg", Available: false, Optional: true},
		{Name: "FFprobe", Available: true},
	}
	missing := Missing(statuses)
	if len(missing) != 1 || missing[0].Name != "yt-dlp" {
		t.Fatalf("unexpected missing %#v", missing)
	}
}
