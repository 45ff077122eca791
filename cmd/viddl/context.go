package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"viddl/internal/config"
	"viddl/internal/download"
	"viddl/internal/encoding"
	"viddl/internal/logging"
	"viddl/internal/tasklog"
	"viddl/internal/workflow"
)

type commandContext struct {
	configFlag  *string
	workersFlag *int

	configOnce sync.Once
	config     *config.Config
	configErr  error

	// section is shared by every batch this process runs, so interactive
	// batches never transcode concurrently either.
	section *workflow.ExclusiveSection
}

func newCommandContext(configFlag *string, workersFlag *int) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		workersFlag: workersFlag,
		section:     workflow.NewExclusiveSection(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger(out io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, out)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func (c *commandContext) workers(cfg *config.Config) int {
	if c.workersFlag != nil && *c.workersFlag > 0 {
		return *c.workersFlag
	}
	return cfg.WorkerCount()
}

// newManager wires the download and re-encode stages to sink. Tool output is
// streamed to the command's stdout and stderr.
func (c *commandContext) newManager(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, sink *tasklog.Sink) *workflow.Manager {
	driver := download.NewDriver(cfg, logger)
	driver.Stdout = cmd.OutOrStdout()
	driver.Stderr = cmd.ErrOrStderr()

	reencoder := encoding.NewReencoder(cfg, logger)
	reencoder.Stdout = cmd.OutOrStdout()
	reencoder.Stderr = cmd.ErrOrStderr()

	return workflow.NewManager(workflow.Options{
		Workers:    c.workers(cfg),
		Downloader: driver,
		Reencoder:  reencoder,
		Section:    c.section,
		Sink:       sink,
		Logger:     logger,
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
