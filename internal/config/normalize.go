package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeEncoding()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("VIDDL_DOWNLOAD_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DownloadDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DownloadDir) == "" {
		c.Paths.DownloadDir = defaultDownloadDir
	}
	var err error
	if c.Paths.DownloadDir, err = ExpandPath(strings.TrimSpace(c.Paths.DownloadDir)); err != nil {
		return fmt.Errorf("paths.download_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.BatchFile) == "" {
		c.Paths.BatchFile = filepath.Join(c.Paths.DownloadDir, defaultBatchName)
	}
	if c.Paths.BatchFile, err = ExpandPath(strings.TrimSpace(c.Paths.BatchFile)); err != nil {
		return fmt.Errorf("paths.batch_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.CookiesFile) == "" {
		c.Paths.CookiesFile = filepath.Join(c.Paths.DownloadDir, defaultCookiesName)
	}
	if c.Paths.CookiesFile, err = ExpandPath(strings.TrimSpace(c.Paths.CookiesFile)); err != nil {
		return fmt.Errorf("paths.cookies_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.YtDlp = fallback(c.Tools.YtDlp, defaultYtDlp)
	c.Tools.FFmpeg = fallback(c.Tools.FFmpeg, defaultFFmpeg)
	c.Tools.FFprobe = fallback(c.Tools.FFprobe, defaultFFprobe)
}

func (c *Config) normalizeEncoding() {
	c.Encoding.VideoCodec = fallback(c.Encoding.VideoCodec, defaultVideoCodec)
	c.Encoding.AudioCodec = fallback(c.Encoding.AudioCodec, defaultAudioCodec)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(fallback(c.Logging.Format, defaultLogFormat))
	c.Logging.Level = strings.ToLower(fallback(c.Logging.Level, defaultLogLevel))
}

func fallback(value, def string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	return value
}
