package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"

	"viddl/internal/config"
	"viddl/internal/logging"
	"viddl/internal/services"
)

func TestNewFromConfigUsesConfiguredFormat(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "json"
	var buf bytes.Buffer
	logger, err := logging.NewFromConfig(&cfg, &buf)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("hello")
	if !strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Fatalf("expected json output, got %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleLinePrefix(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := services.WithTaskURL(context.Background(), "https://x/a")
	component := logging.NewComponentLogger(logger, "workflow")
	logging.WithContext(ctx, component).Info("download finished",
		logging.String("file", "My Video.mp4"),
		logging.Int("bytes", 42),
	)

	line := buf.String()
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no source location at info level, got %q", line)
	}
	want := `INFO  workflow https://x/a | download finished file="My Video.mp4" bytes=42`
	if !strings.Contains(line, want) {
		t.Fatalf("expected %q in %q", want, line)
	}
	if strings.Contains(line, "url=") || strings.Contains(line, "component=") {
		t.Fatalf("prefix fields repeated as attributes: %q", line)
	}
}

func TestConsoleWithoutURL(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := logging.New(logging.Options{Writer: &buf})
	logging.NewComponentLogger(logger, "startup").Warn("tool missing", logging.Error(errors.New("not found")))
	if !strings.Contains(buf.String(), `WARN  startup tool missing error="not found"`) {
		t.Fatalf("unexpected line %q", buf.String())
	}
}

func TestConsoleGroupsUseDottedKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := logging.New(logging.Options{Writer: &buf})
	logger.WithGroup("plan").Info("planned", logging.Int("audio", 128000))
	if !strings.Contains(buf.String(), "plan.audio=128000") {
		t.Fatalf("expected dotted key, got %q", buf.String())
	}
}

func TestConsoleIncludesSourceForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Debug("probe result")
	if !strings.Contains(buf.String(), "(logger_test.go:") {
		t.Fatalf("expected source location in debug logs, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestColorOnlyWhenRequested(t *testing.T) {
	text.EnableColors()
	var plain, colored bytes.Buffer
	p, _ := logging.New(logging.Options{Writer: &plain})
	c, _ := logging.New(logging.Options{Writer: &colored, Color: true})
	p.Error("boom")
	c.Error("boom")
	if strings.Contains(plain.String(), "\x1b[") {
		t.Fatalf("unexpected escape codes in %q", plain.String())
	}
	if !strings.Contains(colored.String(), "\x1b[") {
		t.Fatalf("expected escape codes in %q", colored.String())
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithTaskURL(ctx, "https://example.com/v")
	ctx = services.WithStage(ctx, "download")
	logging.WithContext(ctx, logger).Info("fetch started")

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, buf.String())
	}
	if payload["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", payload)
	}
	if payload[logging.FieldRunID] != "run-1" || payload[logging.FieldURL] != "https://example.com/v" || payload[logging.FieldStage] != "download" {
		t.Fatalf("missing context fields: %v", payload)
	}
}

func TestWarnWithContextDefaultsImpact(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := logging.New(logging.Options{Writer: &buf})

	logging.WarnWithContext(logger, "audio bitrate unavailable", "audio_probe_fallback")
	if !strings.Contains(buf.String(), "event_type=audio_probe_fallback") || !strings.Contains(buf.String(), `impact="operation continued"`) {
		t.Fatalf("expected injected fields, got %q", buf.String())
	}

	buf.Reset()
	logging.WarnWithContext(logger, "lock busy", "lock_busy", logging.String(logging.FieldImpact, "batch skipped"))
	if strings.Count(buf.String(), "impact=") != 1 || !strings.Contains(buf.String(), `impact="batch skipped"`) {
		t.Fatalf("expected caller impact only, got %q", buf.String())
	}
}

func TestIsTerminalRejectsBuffers(t *testing.T) {
	if logging.IsTerminal(&bytes.Buffer{}) {
		t.Fatal("buffer reported as terminal")
	}
}

func TestNopLogger(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), 12) {
		t.Fatal("nop logger should never be enabled")
	}
	logging.WarnWithContext(nil, "ignored", "none")
}
