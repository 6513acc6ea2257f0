package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"deckflow/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("DECKFLOW_SOFFICE", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "deckflow", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.RendererBinary() != "soffice" {
		t.Fatalf("unexpected renderer: %q", cfg.RendererBinary())
	}
	if cfg.Conversion.DefaultDPI != 150 {
		t.Fatalf("unexpected default dpi: %d", cfg.Conversion.DefaultDPI)
	}
	if cfg.Conversion.WorkspaceName != "process" {
		t.Fatalf("unexpected workspace name: %q", cfg.Conversion.WorkspaceName)
	}
	if cfg.PollInterval() != 100*time.Millisecond {
		t.Fatalf("unexpected poll interval: %v", cfg.PollInterval())
	}
	if cfg.AssembleTick() != 500*time.Millisecond {
		t.Fatalf("unexpected assemble tick: %v", cfg.AssembleTick())
	}
	if !cfg.Conversion.VerifyOutput {
		t.Fatal("expected output verification enabled by default")
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	t.Setenv("DECKFLOW_SOFFICE", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "deckflow.toml")

	payload := map[string]any{
		"paths": map[string]any{"log_dir": filepath.Join(dir, "logs")},
		"renderer": map[string]any{
			"command":         "/opt/libreoffice/program/soffice",
			"timeout_seconds": 90,
			"extra_args":      []string{" --norestore ", ""},
		},
		"conversion": map[string]any{
			"default_dpi":       200,
			"image_deck_prefix": "img_",
			"render_tick_ms":    50,
		},
		"logging": map[string]any{"format": "JSON", "level": "Debug"},
	}
	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.RendererBinary() != "/opt/libreoffice/program/soffice" {
		t.Fatalf("unexpected renderer: %q", cfg.RendererBinary())
	}
	if cfg.RendererTimeout() != 90*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.RendererTimeout())
	}
	if len(cfg.Renderer.ExtraArgs) != 1 || cfg.Renderer.ExtraArgs[0] != "--norestore" {
		t.Fatalf("unexpected extra args: %#v", cfg.Renderer.ExtraArgs)
	}
	if cfg.Conversion.DefaultDPI != 200 || cfg.Conversion.ImageDeckPrefix != "img_" {
		t.Fatalf("unexpected conversion config: %+v", cfg.Conversion)
	}
	if cfg.RenderTick() != 50*time.Millisecond {
		t.Fatalf("unexpected render tick: %v", cfg.RenderTick())
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging, got %+v", cfg.Logging)
	}
}

func TestRendererEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DECKFLOW_SOFFICE", "/usr/local/bin/soffice")
	t.Chdir(t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RendererBinary() != "/usr/local/bin/soffice" {
		t.Fatalf("expected env override, got %q", cfg.RendererBinary())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*config.Config){
		"zero dpi":           func(c *config.Config) { c.Conversion.DefaultDPI = 0 },
		"inverted warnings":  func(c *config.Config) { c.Conversion.LowDPIWarning = 500 },
		"nested workspace":   func(c *config.Config) { c.Conversion.WorkspaceName = "a/b" },
		"dot workspace":      func(c *config.Config) { c.Conversion.WorkspaceName = ".." },
		"prefix separator":   func(c *config.Config) { c.Conversion.ImageDeckPrefix = "x/" },
		"zero slide width":   func(c *config.Config) { c.Conversion.SlideWidthInches = 0 },
		"negative timeout":   func(c *config.Config) { c.Renderer.TimeoutSeconds = -1 },
		"unknown log format": func(c *config.Config) { c.Logging.Format = "xml" },
		"unknown log level":  func(c *config.Config) { c.Logging.Level = "trace" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", name)
			}
		})
	}
}

func TestDPIWarning(t *testing.T) {
	cfg := config.Default()
	if msg := cfg.DPIWarning(150); msg != "" {
		t.Fatalf("expected no warning at 150, got %q", msg)
	}
	if msg := cfg.DPIWarning(30); !strings.Contains(msg, "below 60") {
		t.Fatalf("expected low warning, got %q", msg)
	}
	if msg := cfg.DPIWarning(600); !strings.Contains(msg, "above 400") {
		t.Fatalf("expected high warning, got %q", msg)
	}
}

func TestCreateSampleLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	t.Setenv("HOME", t.TempDir())
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Conversion.HighDPIWarning != 400 {
		t.Fatalf("unexpected high dpi warning: %d", cfg.Conversion.HighDPIWarning)
	}
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if !strings.Contains(encoded, "workspace_name = 'process'") && !strings.Contains(encoded, `workspace_name = "process"`) {
		t.Fatalf("expected workspace_name in encoded config:\n%s", encoded)
	}
}
