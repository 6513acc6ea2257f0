package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Renderer configures the external deck-to-document renderer.
type Renderer struct {
	Command        string   `toml:"command"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
	ExtraArgs      []string `toml:"extra_args"`
}

// Conversion contains pipeline tuning knobs.
type Conversion struct {
	DefaultDPI        int     `toml:"default_dpi"`
	LowDPIWarning     int     `toml:"low_dpi_warning"`
	HighDPIWarning    int     `toml:"high_dpi_warning"`
	WorkspaceName     string  `toml:"workspace_name"`
	ImageDeckPrefix   string  `toml:"image_deck_prefix"`
	PollIntervalMS    int     `toml:"poll_interval_ms"`
	RenderTickMS      int     `toml:"render_tick_ms"`
	AssembleTickMS    int     `toml:"assemble_tick_ms"`
	SlideWidthInches  float64 `toml:"slide_width_inches"`
	SlideHeightInches float64 `toml:"slide_height_inches"`
	VerifyOutput      bool    `toml:"verify_output"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for deckflow.
//
// Configuration sections by subsystem:
//   - Paths: log directory
//   - Renderer: external deck renderer command and limits
//   - Conversion: resolution thresholds, workspace naming, progress cadence
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Renderer   Renderer   `toml:"renderer"`
	Conversion Conversion `toml:"conversion"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/deckflow/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("deckflow.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory when one is configured.
func (c *Config) EnsureDirectories() error {
	if dir := strings.TrimSpace(c.Paths.LogDir); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RendererBinary returns the deck renderer executable.
func (c *Config) RendererBinary() string {
	return strings.TrimSpace(c.Renderer.Command)
}

// RendererTimeout returns the renderer time limit, zero meaning unlimited.
func (c *Config) RendererTimeout() time.Duration {
	return time.Duration(c.Renderer.TimeoutSeconds) * time.Second
}

// PollInterval is how often a supervised stage checks for cancellation.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Conversion.PollIntervalMS) * time.Millisecond
}

// RenderTick is the simulated progress cadence for deck rendering.
func (c *Config) RenderTick() time.Duration {
	return time.Duration(c.Conversion.RenderTickMS) * time.Millisecond
}

// AssembleTick is the simulated progress cadence for deck assembly.
func (c *Config) AssembleTick() time.Duration {
	return time.Duration(c.Conversion.AssembleTickMS) * time.Millisecond
}

// DPIWarning describes why a resolution deserves confirmation, or returns ""
// when it is within the comfortable range.
func (c *Config) DPIWarning(dpi int) string {
	switch {
	case dpi <= 0:
		return ""
	case dpi < c.Conversion.LowDPIWarning:
		return fmt.Sprintf("resolution %d dpi is below %d; pages may be blurry", dpi, c.Conversion.LowDPIWarning)
	case dpi > c.Conversion.HighDPIWarning:
		return fmt.Sprintf("resolution %d dpi is above %d; conversion may be slow and images large", dpi, c.Conversion.HighDPIWarning)
	default:
		return ""
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() (string, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return string(data), nil
}
