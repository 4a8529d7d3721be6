// Package config handles loading and saving netcanvas configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/netcanvas/config.yaml
//   - State:   ~/.local/state/netcanvas/ (exported snapshots)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/netcanvas/pkg/canvas"
	"github.com/vanderheijden86/netcanvas/pkg/layout"
	"github.com/vanderheijden86/netcanvas/pkg/search"
	"github.com/vanderheijden86/netcanvas/pkg/viewport"
)

const appName = "netcanvas"

// LayoutConfig sizes node boxes and the gaps between them, in content px.
type LayoutConfig struct {
	NodeWidth         float64 `yaml:"node_width" validate:"gt=0"`
	NodeHeight        float64 `yaml:"node_height" validate:"gt=0"`
	HorizontalSpacing float64 `yaml:"horizontal_spacing" validate:"gte=0"`
	VerticalSpacing   float64 `yaml:"vertical_spacing" validate:"gte=0"`
	CurveOffset       float64 `yaml:"curve_offset" validate:"gte=0"`
	CacheSize         int     `yaml:"cache_size,omitempty" validate:"gte=0,lte=4096"`
}

// ViewportConfig bounds pan and zoom. The range must contain 1, the scale
// that focusing on a node resets to.
type ViewportConfig struct {
	MinScale   float64 `yaml:"min_scale" validate:"gt=0,lte=1"`
	MaxScale   float64 `yaml:"max_scale" validate:"gtfield=MinScale,gte=1"`
	ZoomFactor float64 `yaml:"zoom_factor" validate:"gt=1"`
	TopMargin  float64 `yaml:"top_margin" validate:"gte=0"`
}

// SearchConfig controls the search box.
type SearchConfig struct {
	MinQueryLength int    `yaml:"min_query_length" validate:"gte=1,lte=32"`
	Mode           string `yaml:"mode" validate:"oneof=substring fuzzy"`
}

// UIConfig holds terminal host preferences.
type UIConfig struct {
	CellWidth  float64 `yaml:"cell_width" validate:"gt=0"`  // content px per terminal column
	CellHeight float64 `yaml:"cell_height" validate:"gt=0"` // content px per terminal row
	ClickSlop  float64 `yaml:"click_slop" validate:"gte=0"`
	ShowHelp   bool    `yaml:"show_help,omitempty"`
}

// Config is the top-level configuration for netcanvas.
type Config struct {
	Layout   LayoutConfig   `yaml:"layout"`
	Viewport ViewportConfig `yaml:"viewport"`
	Search   SearchConfig   `yaml:"search"`
	UI       UIConfig       `yaml:"ui"`
}

// DefaultConfig returns a Config with the reference canvas defaults.
func DefaultConfig() Config {
	dims := layout.DefaultDimensions()
	return Config{
		Layout: LayoutConfig{
			NodeWidth:         dims.NodeWidth,
			NodeHeight:        dims.NodeHeight,
			HorizontalSpacing: dims.HorizontalSpacing,
			VerticalSpacing:   dims.VerticalSpacing,
			CurveOffset:       dims.CurveOffset,
			CacheSize:         layout.DefaultCacheSize,
		},
		Viewport: ViewportConfig{
			MinScale:   viewport.DefaultMinScale,
			MaxScale:   viewport.DefaultMaxScale,
			ZoomFactor: viewport.DefaultZoomFactor,
			TopMargin:  viewport.DefaultTopMargin,
		},
		Search: SearchConfig{
			MinQueryLength: search.DefaultMinQueryLength,
			Mode:           string(search.ModeSubstring),
		},
		UI: UIConfig{
			CellWidth:  10,
			CellHeight: 20,
			ClickSlop:  canvas.DefaultClickSlop,
			ShowHelp:   true,
		},
	}
}

var validate = validator.New()

// Validate checks field ranges. The error lists every offending field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// CanvasOptions converts the config into session options.
func (c Config) CanvasOptions() canvas.Options {
	return canvas.Options{
		Dimensions: layout.Dimensions{
			NodeWidth:         c.Layout.NodeWidth,
			NodeHeight:        c.Layout.NodeHeight,
			HorizontalSpacing: c.Layout.HorizontalSpacing,
			VerticalSpacing:   c.Layout.VerticalSpacing,
			CurveOffset:       c.Layout.CurveOffset,
		},
		Viewport: viewport.Options{
			MinScale:   c.Viewport.MinScale,
			MaxScale:   c.Viewport.MaxScale,
			ZoomFactor: c.Viewport.ZoomFactor,
			TopMargin:  c.Viewport.TopMargin,
		},
		ClickSlop:      c.UI.ClickSlop,
		MinQueryLength: c.Search.MinQueryLength,
		SearchMode:     search.Mode(c.Search.Mode),
		CacheSize:      c.Layout.CacheSize,
	}
}

// ConfigDir returns the XDG config directory for netcanvas.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory for netcanvas.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path. Missing keys keep their
// defaults; a missing file yields DefaultConfig.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
