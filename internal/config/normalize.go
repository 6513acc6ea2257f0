package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRenderer()
	c.normalizeConversion()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	c.Paths.LogDir = strings.TrimSpace(c.Paths.LogDir)
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRenderer() {
	if value, ok := os.LookupEnv("DECKFLOW_SOFFICE"); ok && strings.TrimSpace(value) != "" {
		c.Renderer.Command = value
	}
	c.Renderer.Command = strings.TrimSpace(c.Renderer.Command)
	if c.Renderer.Command == "" {
		c.Renderer.Command = defaultRendererCommand
	}
	args := c.Renderer.ExtraArgs[:0]
	for _, arg := range c.Renderer.ExtraArgs {
		if arg = strings.TrimSpace(arg); arg != "" {
			args = append(args, arg)
		}
	}
	c.Renderer.ExtraArgs = args
}

func (c *Config) normalizeConversion() {
	c.Conversion.WorkspaceName = strings.TrimSpace(c.Conversion.WorkspaceName)
	if c.Conversion.WorkspaceName == "" {
		c.Conversion.WorkspaceName = defaultWorkspaceName
	}
	c.Conversion.ImageDeckPrefix = strings.TrimSpace(c.Conversion.ImageDeckPrefix)
	if c.Conversion.ImageDeckPrefix == "" {
		c.Conversion.ImageDeckPrefix = defaultImageDeckPrefix
	}
	if c.Conversion.PollIntervalMS <= 0 {
		c.Conversion.PollIntervalMS = defaultPollIntervalMS
	}
	if c.Conversion.RenderTickMS <= 0 {
		c.Conversion.RenderTickMS = defaultRenderTickMS
	}
	if c.Conversion.AssembleTickMS <= 0 {
		c.Conversion.AssembleTickMS = defaultAssembleTickMS
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
