package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/metcalfc/pantry/internal/config"
	"github.com/metcalfc/pantry/internal/editor"
	"github.com/metcalfc/pantry/internal/logging"
	"github.com/metcalfc/pantry/internal/state"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		def := config.Default()
		return &def
	}
	return cfg
}

// logger builds the command logger. Interactive sessions pass a fallback
// file so log lines never land on the terminal they draw on.
func (c *commandContext) logger(fallbackFile string) (*slog.Logger, error) {
	cfg := c.configValue()
	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.File,
	}
	if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
		opts.Level = *c.logLevelFlag
	}
	if opts.Output == "" {
		opts.Output = fallbackFile
	}
	logger, err := logging.New(opts)
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return logger, nil
}

// openEditor opens path with the configured document layout.
func (c *commandContext) openEditor(path string, logger *slog.Logger) (*editor.Editor, error) {
	cfg := c.configValue()
	ed, err := editor.Open(path, editor.Options{
		RangeName:    cfg.Document.RangeName,
		TitleHeading: cfg.TitleHeading(),
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return ed, nil
}

// withEditor runs fn against path with a stderr logger and closes the
// document afterwards.
func (c *commandContext) withEditor(path string, fn func(*editor.Editor) error) error {
	logger, err := c.logger("")
	if err != nil {
		return err
	}
	ed, err := c.openEditor(path, logger)
	if err != nil {
		return err
	}
	defer ed.Close()
	return fn(ed)
}

func sidebarLogFile() string {
	return filepath.Join(state.Dir(), "pantry.log")
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
