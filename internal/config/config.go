package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"canvas/internal/editor"
	"canvas/internal/history"
	"canvas/internal/interaction"
	"canvas/internal/viewport"
)

// EnvPath overrides the config file location.
const EnvPath = "CANVAS_CONFIG"

// Config holds the full canvas configuration.
type Config struct {
	DataDir     string            `yaml:"data_dir"`
	Viewport    ViewportConfig    `yaml:"viewport"`
	History     HistoryConfig     `yaml:"history"`
	Interaction InteractionConfig `yaml:"interaction"`
	Editor      EditorConfig      `yaml:"editor"`
	Autosave    AutosaveConfig    `yaml:"autosave"`
	Log         LogConfig         `yaml:"log"`
}

type ViewportConfig struct {
	MinZoom                   float64 `yaml:"min_zoom"`
	MaxZoom                   float64 `yaml:"max_zoom"`
	ZoomStep                  float64 `yaml:"zoom_step"`
	WheelZoomRequiresModifier *bool   `yaml:"wheel_zoom_requires_modifier"`
}

type HistoryConfig struct {
	Limit int `yaml:"limit"`
}

type InteractionConfig struct {
	MinSize    float64 `yaml:"min_size"`
	SnapToGrid bool    `yaml:"snap_to_grid"`
	GridSize   float64 `yaml:"grid_size"`
}

type EditorConfig struct {
	PasteOffset float64 `yaml:"paste_offset"`
}

type AutosaveConfig struct {
	Schedule string `yaml:"schedule"` // cron spec; "off" disables autosave
}

type LogConfig struct {
	Level string `yaml:"level"` // trace | debug | info | warning | error
	File  string `yaml:"file"`
}

// Default returns sane defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

func (c *Config) defaults() {
	if c.DataDir == "" {
		home, _ := os.UserHomeDir()
		c.DataDir = filepath.Join(home, ".local", "share", "canvas")
	}
	if c.Viewport.MinZoom == 0 {
		c.Viewport.MinZoom = viewport.DefaultMinZoom
	}
	if c.Viewport.MaxZoom == 0 {
		c.Viewport.MaxZoom = viewport.DefaultMaxZoom
	}
	if c.Viewport.ZoomStep == 0 {
		c.Viewport.ZoomStep = viewport.DefaultZoomStep
	}
	if c.Viewport.WheelZoomRequiresModifier == nil {
		on := true
		c.Viewport.WheelZoomRequiresModifier = &on
	}
	if c.History.Limit == 0 {
		c.History.Limit = history.DefaultLimit
	}
	if c.Interaction.MinSize == 0 {
		c.Interaction.MinSize = interaction.DefaultMinSize
	}
	if c.Interaction.GridSize == 0 {
		c.Interaction.GridSize = interaction.DefaultGridSize
	}
	if c.Editor.PasteOffset == 0 {
		c.Editor.PasteOffset = editor.DefaultPasteOffset
	}
	if c.Autosave.Schedule == "" {
		c.Autosave.Schedule = "@every 30s"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Path returns the config file location: $CANVAS_CONFIG, or
// ~/.config/canvas/config.yaml.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "canvas", "config.yaml")
}

// Load reads and parses a YAML config file on top of the defaults. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that values are sane.
func (c *Config) Validate() error {
	if c.Viewport.MinZoom < 0 || c.Viewport.MaxZoom < 0 {
		return fmt.Errorf("viewport zoom limits must be > 0")
	}
	if c.Viewport.MinZoom > c.Viewport.MaxZoom {
		return fmt.Errorf("viewport.min_zoom %g exceeds max_zoom %g", c.Viewport.MinZoom, c.Viewport.MaxZoom)
	}
	if c.Viewport.ZoomStep < 0 {
		return fmt.Errorf("viewport.zoom_step must be > 0")
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must be > 0")
	}
	if c.Interaction.MinSize < 0 || c.Interaction.GridSize < 0 {
		return fmt.Errorf("interaction sizes must be > 0")
	}
	if c.Autosave.Enabled() {
		if _, err := cron.ParseStandard(c.Autosave.Schedule); err != nil {
			return fmt.Errorf("autosave.schedule %q: %w", c.Autosave.Schedule, err)
		}
	}
	return nil
}

func (a AutosaveConfig) Enabled() bool {
	return a.Schedule != "off"
}

// DBPath is the workspace database inside the data dir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "canvas.db")
}

func (c *Config) ViewportOptions() viewport.Options {
	return viewport.Options{
		MinZoom:                   c.Viewport.MinZoom,
		MaxZoom:                   c.Viewport.MaxZoom,
		ZoomStep:                  c.Viewport.ZoomStep,
		WheelZoomRequiresModifier: c.Viewport.WheelZoomRequiresModifier == nil || *c.Viewport.WheelZoomRequiresModifier,
	}
}

func (c *Config) InteractionOptions() interaction.Options {
	return interaction.Options{
		MinSize:    c.Interaction.MinSize,
		SnapToGrid: c.Interaction.SnapToGrid,
		GridSize:   c.Interaction.GridSize,
	}
}
