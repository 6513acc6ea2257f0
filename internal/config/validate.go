package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRenderer(); err != nil {
		return err
	}
	if err := c.validateConversion(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRenderer() error {
	if strings.TrimSpace(c.Renderer.Command) == "" {
		return errors.New("renderer.command must be set")
	}
	if c.Renderer.TimeoutSeconds < 0 {
		return errors.New("renderer.timeout_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateConversion() error {
	conv := c.Conversion
	if conv.DefaultDPI <= 0 {
		return errors.New("conversion.default_dpi must be positive")
	}
	if conv.LowDPIWarning < 0 || conv.HighDPIWarning <= 0 {
		return errors.New("conversion.low_dpi_warning and high_dpi_warning must be positive")
	}
	if conv.LowDPIWarning > conv.HighDPIWarning {
		return fmt.Errorf("conversion.low_dpi_warning (%d) exceeds high_dpi_warning (%d)", conv.LowDPIWarning, conv.HighDPIWarning)
	}
	name := conv.WorkspaceName
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("conversion.workspace_name %q must be a plain directory name", name)
	}
	if strings.ContainsAny(conv.ImageDeckPrefix, `/\`) {
		return fmt.Errorf("conversion.image_deck_prefix %q must not contain path separators", conv.ImageDeckPrefix)
	}
	if conv.SlideWidthInches <= 0 || conv.SlideHeightInches <= 0 {
		return errors.New("conversion.slide_width_inches and slide_height_inches must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}
