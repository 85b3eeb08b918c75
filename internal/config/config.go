package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// OverlayConfig controls the snap preview overlay.
type OverlayConfig struct {
	Margin      int     `yaml:"margin"`       // Inset of the painted rect inside the target geometry
	BorderWidth int     `yaml:"border_width"` // Pen width in pixels
	FillColor   string  `yaml:"fill_color"`   // #rrggbb
	BorderColor string  `yaml:"border_color"` // #rrggbb
	MaxOpacity  float64 `yaml:"max_opacity"`  // Surface opacity when fully shown (0-1]
	SeedWidth   int     `yaml:"seed_width"`
	SeedHeight  int     `yaml:"seed_height"`
	GrowMS      int     `yaml:"grow_ms"`       // Geometry animation duration
	FadeMS      int     `yaml:"fade_ms"`       // Opacity animation duration
	HideDelayMS int     `yaml:"hide_delay_ms"` // Delay before an exited overlay is hidden
	FrameMS     int     `yaml:"frame_ms"`      // Animation frame interval
}

// LoggingConfig configures the process logger.
type LoggingConfig struct {
	// Level controls verbosity: debug, info, warn, error
	Level string `yaml:"level"`
	// Format is "text" or "json"
	Format string `yaml:"format"`
	// File is an optional log file path; empty logs to stderr
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb"`
	// MaxBackups is the number of rotated files to keep (default: 3)
	MaxBackups int `yaml:"max_backups"`
}

// Config is the full aerosnap configuration.
type Config struct {
	// XAdjust and YAdjust compensate for decorations between the window
	// origin and the drag handle.
	XAdjust int `yaml:"x_adjust"`
	YAdjust int `yaml:"y_adjust"`

	EdgeSpacing   int     `yaml:"edge_spacing"`   // Height of the top hot band
	DeadZone      int     `yaml:"dead_zone"`      // Horizontal dead zone at the band ends
	RegrabDivisor float64 `yaml:"regrab_divisor"` // Grab offset divisor when pressed while maximized
	HalfSnap      bool    `yaml:"half_snap"`      // Enable left/right edge bands

	ToggleHotkey string `yaml:"toggle_hotkey,omitempty"`

	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`

	Overlay OverlayConfig `yaml:"overlay"`
	Logging LoggingConfig `yaml:"logging"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		EdgeSpacing:   20,
		DeadZone:      5,
		RegrabDivisor: 2.4,
		Overlay: OverlayConfig{
			Margin:      9,
			BorderWidth: 1,
			FillColor:   "#ffffff",
			BorderColor: "#9c9c9c",
			MaxOpacity:  0.5,
			SeedWidth:   40,
			SeedHeight:  10,
			GrowMS:      150,
			FadeMS:      250,
			HideDelayMS: 250,
			FrameMS:     16,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	return &out
}

func (o OverlayConfig) GrowDuration() time.Duration {
	return time.Duration(o.GrowMS) * time.Millisecond
}

func (o OverlayConfig) FadeDuration() time.Duration {
	return time.Duration(o.FadeMS) * time.Millisecond
}

func (o OverlayConfig) HideDelay() time.Duration {
	return time.Duration(o.HideDelayMS) * time.Millisecond
}

func (o OverlayConfig) FrameInterval() time.Duration {
	return time.Duration(o.FrameMS) * time.Millisecond
}

// Validate checks value ranges. The first problem is returned as a *ValidationError.
func (c *Config) Validate() error {
	if c.EdgeSpacing < 1 {
		return &ValidationError{Path: "edge_spacing", Err: fmt.Errorf("edge_spacing must be >= 1")}
	}
	if c.DeadZone < 0 {
		return &ValidationError{Path: "dead_zone", Err: fmt.Errorf("dead_zone must be >= 0")}
	}
	if c.RegrabDivisor <= 0 {
		return &ValidationError{Path: "regrab_divisor", Err: fmt.Errorf("regrab_divisor must be > 0")}
	}

	o := c.Overlay
	if o.Margin < 0 {
		return &ValidationError{Path: "overlay.margin", Err: fmt.Errorf("margin must be >= 0")}
	}
	if o.BorderWidth < 0 {
		return &ValidationError{Path: "overlay.border_width", Err: fmt.Errorf("border_width must be >= 0")}
	}
	if _, err := ParseColor(o.FillColor); err != nil {
		return &ValidationError{Path: "overlay.fill_color", Err: err}
	}
	if _, err := ParseColor(o.BorderColor); err != nil {
		return &ValidationError{Path: "overlay.border_color", Err: err}
	}
	if o.MaxOpacity <= 0 || o.MaxOpacity > 1 {
		return &ValidationError{Path: "overlay.max_opacity", Err: fmt.Errorf("max_opacity must be in (0, 1]")}
	}
	if o.SeedWidth < 1 || o.SeedHeight < 1 {
		return &ValidationError{Path: "overlay.seed_width", Err: fmt.Errorf("seed_width and seed_height must be >= 1")}
	}
	if o.GrowMS < 1 {
		return &ValidationError{Path: "overlay.grow_ms", Err: fmt.Errorf("grow_ms must be >= 1")}
	}
	if o.FadeMS < 1 {
		return &ValidationError{Path: "overlay.fade_ms", Err: fmt.Errorf("fade_ms must be >= 1")}
	}
	if o.HideDelayMS < 0 {
		return &ValidationError{Path: "overlay.hide_delay_ms", Err: fmt.Errorf("hide_delay_ms must be >= 0")}
	}
	if o.FrameMS < 1 {
		return &ValidationError{Path: "overlay.frame_ms", Err: fmt.Errorf("frame_ms must be >= 1")}
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "logging.level", Err: fmt.Errorf("level must be one of: debug, info, warn, error")}
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return &ValidationError{Path: "logging.format", Err: fmt.Errorf("format must be one of: text, json")}
	}
	if c.Logging.MaxSizeMB < 0 {
		return &ValidationError{Path: "logging.max_size_mb", Err: fmt.Errorf("max_size_mb must be >= 0")}
	}
	if c.Logging.MaxBackups < 0 {
		return &ValidationError{Path: "logging.max_backups", Err: fmt.Errorf("max_backups must be >= 0")}
	}
	return nil
}

// ParseColor parses "#rrggbb" (or "rrggbb") into a 24-bit pixel value.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("color %q must be #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q must be #rrggbb: %w", s, err)
	}
	return uint32(v), nil
}

// Save writes the config to the default path.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config as YAML to path, creating parent directories.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
