package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"viddl/internal/config"
	"viddl/internal/fileutil"
	"viddl/internal/logging"
	"viddl/internal/services"
	"viddl/internal/tasks"
)

// MaxNameBytes bounds the metadata-derived file name.
const MaxNameBytes = 120

// Driver fetches tasks into DownloadDir.
type Driver struct {
	YtDlp       string
	DownloadDir string
	CookiesFile string
	Stdout      io.Writer
	Stderr      io.Writer
	Logger      *slog.Logger
}

// NewDriver wires a Driver from configuration. Fetch progress is streamed
// to the process's stdout and stderr.
func NewDriver(cfg *config.Config, logger *slog.Logger) *Driver {
	return &Driver{
		YtDlp:       cfg.Tools.YtDlp,
		DownloadDir: cfg.Paths.DownloadDir,
		CookiesFile: cfg.Paths.CookiesFile,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Logger:      logging.NewComponentLogger(logger, "download"),
	}
}

// Fetch downloads task and returns the local file path. Failure details are
// appended to log using the run log wording.
func (d *Driver) Fetch(ctx context.Context, task tasks.Task, log io.Writer) (string, error) {
	logger := logging.WithContext(ctx, d.logger())
	logger.Info("downloading", logging.String(logging.FieldURL, task.URL))

	auth := d.authArgs(task)

	name, err := d.lookupName(ctx, task, auth, log)
	if err != nil {
		return "", err
	}
	output := filepath.Join(d.DownloadDir, name+".mp4")

	if fileutil.Exists(output) {
		logger.Info("already downloaded, skipping fetch", logging.String("path", output))
		return output, nil
	}

	args := []string{"--remux", "mp4", "--merge-output-format", "mp4", "-o", output}
	args = append(args, auth...)
	args = append(args, task.URL)

	cmd := exec.CommandContext(ctx, d.binary(), args...) //nolint:gosec
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(log, "%s FAILED: yt-dlp exited with status %s\n", task.URL, exitErr.ProcessState)
		} else {
			fmt.Fprintf(log, "%s FAILED: download error: %v\n", task.URL, err)
		}
		return "", services.Wrap(services.ErrExternalTool, "download", "fetch", "yt-dlp download failed", err)
	}
	logger.Info("download complete", logging.String("path", output))
	return output, nil
}

func (d *Driver) lookupName(ctx context.Context, task tasks.Task, auth []string, log io.Writer) (string, error) {
	args := []string{"--skip-download", "--print", "filename", "-o", "%(title)s", "--restrict-filenames"}
	args = append(args, auth...)
	args = append(args, task.URL)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.binary(), args...) //nolint:gosec
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(log, "%s FAILED: metadata status %s\nSTDOUT:\n%s\nSTDERR:\n%s\n",
				task.URL, exitErr.ProcessState, stdout.String(), stderr.String())
		} else {
			fmt.Fprintf(log, "%s FAILED: metadata fetch error: %v\n", task.URL, err)
		}
		return "", services.Wrap(services.ErrExternalTool, "download", "metadata", "yt-dlp metadata lookup failed", err)
	}

	name := SanitizeName(stdout.String())
	if name == "" {
		fmt.Fprintf(log, "%s FAILED: metadata lookup returned empty or invalid filename\n", task.URL)
		return "", services.Wrap(services.ErrValidation, "download", "metadata", "empty filename from metadata lookup", nil)
	}
	return name, nil
}

// SanitizeName reduces yt-dlp's printed filename to a single base name of at
// most MaxNameBytes bytes. Only the first printed line is used.
func SanitizeName(raw string) string {
	name := strings.TrimSpace(raw)
	if idx := strings.IndexByte(name, '\n'); idx >= 0 {
		name = strings.TrimSpace(name[:idx])
	}
	if name == "" {
		return ""
	}
	name = filepath.Base(name)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return ""
	}
	return truncateBytes(name, MaxNameBytes)
}

func truncateBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func (d *Driver) authArgs(task tasks.Task) []string {
	var args []string
	if cookies := strings.TrimSpace(d.CookiesFile); cookies != "" && fileutil.Exists(cookies) {
		args = append(args, "--cookies", cookies)
	}
	if task.TwoFactor != "" {
		args = append(args, "--twofactor", task.TwoFactor)
	}
	return args
}

func (d *Driver) binary() string {
	if b := strings.TrimSpace(d.YtDlp); b != "" {
		return b
	}
	return "yt-dlp"
}

func (d *Driver) logger() *slog.Logger {
	if d == nil || d.Logger == nil {
		return logging.NewNop()
	}
	return d.Logger
}
