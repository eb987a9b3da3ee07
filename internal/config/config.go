// Package config loads render and display settings from a YAML file and applies
// command-line overrides on top.
package config

import (
	"fmt"
	"image/color"
	"os"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"toolpath-viewer/internal/geometry"
)

// Config holds all configurable render, batch and display settings.
type Config struct {
	// Render settings
	RenderSize  int     `yaml:"render_size"`
	Supersample int     `yaml:"supersample"`
	Format      string  `yaml:"format"`     // webp (lossless) or png
	Background  string  `yaml:"background"` // image path or #rrggbb
	Trim        bool    `yaml:"trim"`
	TrimFill    float64 `yaml:"trim_fill"`

	// Batch settings
	OutputDir   string `yaml:"output_dir"`
	Workers     int    `yaml:"workers"`
	MetricsFile string `yaml:"metrics_file"`

	Display Display `yaml:"display"`
}

// Display mirrors geometry.DisplayConfig in file form. A zero radius means the default;
// TravelBlend and ShowTravel are pointers so an explicit zero or false is kept.
type Display struct {
	ExtrusionRadius float64  `yaml:"extrusion_radius"`
	TravelRadius    float64  `yaml:"travel_radius"`
	Color           string   `yaml:"color"`
	TravelBlend     *float64 `yaml:"travel_blend"`
	ShowTravel      *bool    `yaml:"show_travel"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir   string
	Size        int
	Supersample int
	Workers     int
	Format      string
	Background  string
	MetricsFile string
	HideTravel  bool
	Trim        bool
}

// Load reads a YAML config file. JSON is valid YAML, so JSON files load too.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies flag overrides and fills empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) error {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Background != "" {
		c.Background = flags.Background
	}
	if flags.MetricsFile != "" {
		c.MetricsFile = flags.MetricsFile
	}
	if flags.Trim {
		c.Trim = true
	}
	if flags.HideTravel {
		hide := false
		c.Display.ShowTravel = &hide
	}

	if c.RenderSize <= 0 {
		c.RenderSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.TrimFill <= 0 || c.TrimFill > 1 {
		c.TrimFill = 0.9
	}

	c.Format = strings.ToLower(c.Format)
	switch c.Format {
	case "":
		c.Format = "webp"
	case "webp", "png":
	default:
		return fmt.Errorf("config: unknown format %q", c.Format)
	}

	if _, err := c.Display.Resolve(); err != nil {
		return err
	}
	return nil
}

// Resolve converts the file form into geometry settings, starting from the defaults.
func (d Display) Resolve() (geometry.DisplayConfig, error) {
	out := geometry.DefaultDisplayConfig()
	if d.ExtrusionRadius > 0 {
		out.ExtrusionRadius = d.ExtrusionRadius
	}
	if d.TravelRadius > 0 {
		out.TravelRadius = d.TravelRadius
	}
	if d.Color != "" {
		c, err := ParseHexColor(d.Color)
		if err != nil {
			return out, err
		}
		out.BaseColor = c
	}
	if d.TravelBlend != nil {
		out.TravelBlend = *d.TravelBlend
	}
	if d.ShowTravel != nil {
		out.TravelVisible = *d.ShowTravel
	}
	return out, nil
}

// BackgroundColor reports whether Background is a #rrggbb color rather than a path.
func (c *Config) BackgroundColor() (color.NRGBA, bool) {
	if !strings.HasPrefix(c.Background, "#") {
		return color.NRGBA{}, false
	}
	col, err := ParseHexColor(c.Background)
	return col, err == nil
}

// ParseHexColor parses "#rrggbb" or "#rgb".
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("config: bad color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("config: bad color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
