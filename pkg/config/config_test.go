package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/netcanvas/pkg/search"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Layout.NodeWidth != 180 || cfg.Layout.NodeHeight != 80 {
		t.Errorf("expected 180x80 nodes, got %vx%v", cfg.Layout.NodeWidth, cfg.Layout.NodeHeight)
	}
	if cfg.Viewport.MinScale != 0.2 || cfg.Viewport.MaxScale != 2.0 {
		t.Errorf("expected scale range [0.2, 2], got [%v, %v]", cfg.Viewport.MinScale, cfg.Viewport.MaxScale)
	}
	if cfg.Search.MinQueryLength != 3 {
		t.Errorf("expected min query length 3, got %d", cfg.Search.MinQueryLength)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Search.Mode != "substring" {
		t.Errorf("expected default config, got mode %q", cfg.Search.Mode)
	}
}

func TestLoadFrom_PartialConfigKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
layout:
  node_width: 200
search:
  mode: fuzzy
  min_query_length: 2
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Layout.NodeWidth != 200 {
		t.Errorf("expected node width 200, got %v", cfg.Layout.NodeWidth)
	}
	if cfg.Layout.NodeHeight != 80 {
		t.Errorf("unset node height should keep default, got %v", cfg.Layout.NodeHeight)
	}

	opts := cfg.CanvasOptions()
	if opts.SearchMode != search.ModeFuzzy || opts.MinQueryLength != 2 {
		t.Errorf("canvas options not carried over: %+v", opts)
	}
	if opts.Dimensions.NodeWidth != 200 {
		t.Errorf("dimensions not carried over: %+v", opts.Dimensions)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("layout: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil || !strings.Contains(err.Error(), "parsing config") {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero width", func(c *Config) { c.Layout.NodeWidth = 0 }, "NodeWidth"},
		{"inverted scale", func(c *Config) { c.Viewport.MaxScale = 0.1 }, "MaxScale"},
		{"min above one", func(c *Config) { c.Viewport.MinScale, c.Viewport.MaxScale = 1.5, 3 }, "MinScale"},
		{"max below one", func(c *Config) { c.Viewport.MinScale, c.Viewport.MaxScale = 0.1, 0.8 }, "MaxScale"},
		{"zoom factor", func(c *Config) { c.Viewport.ZoomFactor = 1 }, "ZoomFactor"},
		{"mode", func(c *Config) { c.Search.Mode = "regex" }, "Mode"},
		{"query length", func(c *Config) { c.Search.MinQueryLength = 0 }, "MinQueryLength"},
		{"cell", func(c *Config) { c.UI.CellHeight = -1 }, "CellHeight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Viewport.ZoomFactor = 1.5
	cfg.UI.ShowHelp = false

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Viewport.ZoomFactor != 1.5 {
		t.Errorf("expected zoom factor 1.5, got %v", loaded.Viewport.ZoomFactor)
	}
	if loaded.UI.ShowHelp {
		t.Error("show_help=false was not persisted")
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Viewport.MinScale = -1
	if err := SaveTo(cfg, filepath.Join(t.TempDir(), "config.yaml")); err == nil {
		t.Error("expected invalid config to be rejected")
	}
}

func TestConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got := ConfigDir(); got != "/custom/config/netcanvas" {
		t.Errorf("expected /custom/config/netcanvas, got %q", got)
	}
	if got := ConfigPath(); got != "/custom/config/netcanvas/config.yaml" {
		t.Errorf("unexpected config path %q", got)
	}
}

func TestStateDir_XDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	if got := StateDir(); got != "/custom/state/netcanvas" {
		t.Errorf("expected /custom/state/netcanvas, got %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, _ := os.UserHomeDir()
	if got := ExpandHome("~/trees/a.json"); got != filepath.Join(home, "trees/a.json") {
		t.Errorf("unexpected expansion %q", got)
	}
	if got := ExpandHome("/abs"); got != "/abs" {
		t.Errorf("absolute path changed: %q", got)
	}
}
