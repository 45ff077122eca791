package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"viddl/internal/config"
)

func TestLoadDefaultConfigDerivesPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VIDDL_DOWNLOAD_DIR", "")
	t.Chdir(t.TempDir())

	cfg, source, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if source.Path != filepath.Join(tempHome, ".config", "viddl", "config.toml") {
		t.Fatalf("unexpected resolved path: %q", source.Path)
	}
	if source.Found {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Paths.DownloadDir != "/dl" {
		t.Fatalf("unexpected download dir: %q", cfg.Paths.DownloadDir)
	}
	if cfg.Paths.BatchFile != "/dl/urls.txt" {
		t.Fatalf("unexpected batch file: %q", cfg.Paths.BatchFile)
	}
	if cfg.Paths.CookiesFile != "/dl/cookies.txt" {
		t.Fatalf("unexpected cookies file: %q", cfg.Paths.CookiesFile)
	}
	if cfg.Tools.YtDlp != "yt-dlp" || cfg.Tools.FFmpeg != "ffmpeg" || cfg.Tools.FFprobe != "ffprobe" {
		t.Fatalf("unexpected tool defaults: %+v", cfg.Tools)
	}
	if cfg.Encoding.VideoCodec != "libx264" || cfg.Encoding.AudioCodec != "aac" {
		t.Fatalf("unexpected codec defaults: %+v", cfg.Encoding)
	}
	if cfg.WorkerCount() != runtime.NumCPU() {
		t.Fatalf("expected auto worker count %d, got %d", runtime.NumCPU(), cfg.WorkerCount())
	}
}

func TestLoadCustomFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("VIDDL_DOWNLOAD_DIR", "")

	downloads := filepath.Join(tempHome, "videos")
	payload := struct {
		Paths struct {
			DownloadDir string `toml:"download_dir"`
		} `toml:"paths"`
		Workflow struct {
			Workers int `toml:"workers"`
		} `toml:"workflow"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
	}{}
	payload.Paths.DownloadDir = "~/videos"
	payload.Workflow.Workers = 3
	payload.Logging.Format = "JSON"
	payload.Logging.Level = "Debug"

	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(tempHome, "custom.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, source, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !source.Found || source.Path != path {
		t.Fatalf("expected custom path to be used, got %+v", source)
	}
	if cfg.Paths.DownloadDir != downloads {
		t.Fatalf("unexpected download dir: %q", cfg.Paths.DownloadDir)
	}
	if cfg.Paths.BatchFile != filepath.Join(downloads, "urls.txt") {
		t.Fatalf("batch file should follow download dir, got %q", cfg.Paths.BatchFile)
	}
	if cfg.WorkerCount() != 3 {
		t.Fatalf("expected 3 workers, got %d", cfg.WorkerCount())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging settings, got %+v", cfg.Logging)
	}
}

func TestLoadHonorsDownloadDirEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Setenv("VIDDL_DOWNLOAD_DIR", dir)

	cfg, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DownloadDir != dir {
		t.Fatalf("expected env download dir %q, got %q", dir, cfg.Paths.DownloadDir)
	}
	if cfg.Paths.CookiesFile != filepath.Join(dir, "cookies.txt") {
		t.Fatalf("unexpected cookies file: %q", cfg.Paths.CookiesFile)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := config.Default()
	cfg.Workflow.Workers = -1
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "workflow.workers") {
		t.Fatalf("expected workers validation error, got %v", err)
	}

	cfg = config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected format validation error, got %v", err)
	}

	cfg = config.Default()
	cfg.Logging.Level = "trace"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("expected level validation error, got %v", err)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "broken.toml")
	if err := os.WriteFile(path, []byte("[paths\ndownload_dir = "), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "typo.toml")
	if err := os.WriteFile(path, []byte("[workflow]\nworkres = 4\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "unknown keys") || !strings.Contains(err.Error(), "workres") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestLoadFallsBackToProjectFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VIDDL_DOWNLOAD_DIR", "")
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile("viddl.toml", []byte("[workflow]\nworkers = 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, source, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !source.Found || filepath.Base(source.Path) != "viddl.toml" || cfg.WorkerCount() != 5 {
		t.Fatalf("expected project config, got %+v workers=%d", source, cfg.WorkerCount())
	}
}

func TestWriteSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VIDDL_DOWNLOAD_DIR", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.WriteSample(path, false); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := config.WriteSample(path, false); !errors.Is(err, config.ErrSampleExists) {
		t.Fatalf("expected ErrSampleExists, got %v", err)
	}
	if err := config.WriteSample(path, true); err != nil {
		t.Fatalf("WriteSample overwrite: %v", err)
	}
	cfg, source, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !source.Found {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Paths.DownloadDir != "/dl" {
		t.Fatalf("unexpected sample download dir: %q", cfg.Paths.DownloadDir)
	}
}
