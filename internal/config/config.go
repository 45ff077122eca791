package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig []byte

// ErrSampleExists is returned by WriteSample when the target exists and
// overwrite was not requested.
var ErrSampleExists = errors.New("config file already exists")

// Paths contains the download directory and the well-known files inside it.
type Paths struct {
	DownloadDir string `toml:"download_dir"`
	BatchFile   string `toml:"batch_file"`
	CookiesFile string `toml:"cookies_file"`
}

// Tools names the external executables viddl drives.
type Tools struct {
	YtDlp   string `toml:"ytdlp"`
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// Workflow contains scheduler settings.
type Workflow struct {
	// Workers is the size of the task worker pool. Zero selects the number
	// of available CPUs.
	Workers int `toml:"workers"`
}

// Encoding contains codec choices for the re-encode stage.
type Encoding struct {
	VideoCodec string `toml:"video_codec"`
	AudioCodec string `toml:"audio_codec"`
}

type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for viddl.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Tools    Tools    `toml:"tools"`
	Workflow Workflow `toml:"workflow"`
	Encoding Encoding `toml:"encoding"`
	Logging  Logging  `toml:"logging"`
}

// Source records where a loaded configuration came from.
type Source struct {
	Path string
	// Found is false when Path did not exist and defaults were used.
	Found bool
}

// DefaultConfigPath returns ~/.config/viddl/config.toml, expanded.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/viddl/config.toml")
}

// Load reads the configuration at path, or the first of the default
// locations that exists when path is empty, on top of Default. Unknown keys
// are rejected. The result is normalized and validated.
func Load(path string) (*Config, Source, error) {
	source, err := locate(path)
	if err != nil {
		return nil, Source{}, err
	}

	cfg := Default()
	if source.Found {
		if err := decodeFile(source.Path, &cfg); err != nil {
			return nil, source, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, source, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, source, err
	}
	return &cfg, source, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config %s: unknown keys:\n%s", path, strict.String())
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// locate resolves an explicit path as-is; otherwise it tries the user config
// and then ./viddl.toml, reporting the user config path when neither exists.
func locate(path string) (Source, error) {
	var candidates []string
	if path = strings.TrimSpace(path); path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return Source{}, err
		}
		candidates = []string{expanded}
	} else {
		userPath, err := DefaultConfigPath()
		if err != nil {
			return Source{}, err
		}
		projectPath, err := filepath.Abs("viddl.toml")
		if err != nil {
			return Source{}, err
		}
		candidates = []string{userPath, projectPath}
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return Source{Path: candidate, Found: true}, nil
		case err != nil && !os.IsNotExist(err):
			return Source{}, fmt.Errorf("stat config: %w", err)
		}
	}
	return Source{Path: candidates[0]}, nil
}

// EnsureDirectories creates the download directory when it is missing.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Paths.DownloadDir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.DownloadDir, err)
	}
	return nil
}

// WorkerCount returns the effective worker pool size.
func (c *Config) WorkerCount() int {
	if c.Workflow.Workers > 0 {
		return c.Workflow.Workers
	}
	return runtime.NumCPU()
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if value == "~" || strings.HasPrefix(value, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = filepath.Join(home, strings.TrimPrefix(value, "~"))
	}
	absolute, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return absolute, nil
}

// WriteSample writes the embedded sample configuration to path, creating
// parent directories. An existing file is kept unless overwrite is set.
func WriteSample(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w at %s", ErrSampleExists, path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("check config path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, sampleConfig, 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
