package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"viddl/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose download directory lives in a fresh
// temp directory. The directory is created; tools default to binaries that
// do not exist so nothing real is ever executed.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DownloadDir = filepath.Join(base, "dl")
	cfgVal.Paths.BatchFile = filepath.Join(cfgVal.Paths.DownloadDir, "urls.txt")
	cfgVal.Paths.CookiesFile = filepath.Join(cfgVal.Paths.DownloadDir, "cookies.txt")
	cfgVal.Tools.YtDlp = filepath.Join(base, "missing", "yt-dlp")
	cfgVal.Tools.FFmpeg = filepath.Join(base, "missing", "ffmpeg")
	cfgVal.Tools.FFprobe = filepath.Join(base, "missing", "ffprobe")
	cfgVal.Workflow.Workers = 2
	if err := os.MkdirAll(cfgVal.Paths.DownloadDir, 0o755); err != nil {
		t.Fatalf("mkdir download dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithWorkers overrides the worker pool size.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Workflow.Workers = n
	}
}

// WithToolScript writes script as an executable and points the named tool
// ("ytdlp", "ffmpeg" or "ffprobe") at it.
func WithToolScript(tool, script string) ConfigOption {
	return func(b *configBuilder) {
		path := writeExecutable(b.t, filepath.Join(b.baseDir, "bin"), tool, script)
		switch tool {
		case "ytdlp":
			b.cfg.Tools.YtDlp = path
		case "ffmpeg":
			b.cfg.Tools.FFmpeg = path
		case "ffprobe":
			b.cfg.Tools.FFprobe = path
		default:
			b.t.Fatalf("unknown tool %q", tool)
		}
	}
}

// WithStubbedBinaries points every tool at a script that exits 0.
func WithStubbedBinaries() ConfigOption {
	return func(b *configBuilder) {
		for _, tool := range []string{"ytdlp", "ffmpeg", "ffprobe"} {
			WithToolScript(tool, "#!/bin/sh\nexit 0\n")(b)
		}
	}
}

func writeExecutable(t testing.TB, dir, name, script string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DownloadDir)
}
