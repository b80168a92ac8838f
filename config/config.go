// Package config loads the oxy-bubble runtime configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Carmen-Shannon/oxy-bubble/engine/model"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer"
	"github.com/Carmen-Shannon/oxy-bubble/engine/renderer/material"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// miniatureWobbleThrottleMs is the wobble callback gate used by the miniature bubble when the
// file does not set one.
const miniatureWobbleThrottleMs = 100

// Config is the full runtime configuration.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Renderer RendererConfig `yaml:"renderer"`
	Bubble   BubbleConfig   `yaml:"bubble"`
	Driver   DriverConfig   `yaml:"driver"`
	Log      LogConfig      `yaml:"log"`

	// Profiling enables the once-per-second FPS and memory report.
	Profiling bool `yaml:"profiling"`
	// QuitOnLiftComplete closes the window when the lift animation finishes.
	QuitOnLiftComplete bool `yaml:"quit_on_lift_complete"`
}

// WindowConfig configures the host window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// RendererConfig configures the GPU surface.
type RendererConfig struct {
	// PresentMode is "vsync" or "uncapped".
	PresentMode string `yaml:"present_mode"`
	// MSAA is the sample count: 1, 4, 8 or 16.
	MSAA          uint32 `yaml:"msaa"`
	ForceSoftware bool   `yaml:"force_software"`
}

// BubbleConfig configures the bubble scene.
type BubbleConfig struct {
	// Variant is "primary" or "miniature".
	Variant string `yaml:"variant"`
	// Radius overrides the variant's sphere radius when positive.
	Radius       float32 `yaml:"radius"`
	Segments     int     `yaml:"segments"`
	EnvFaceSize  int     `yaml:"env_face_size"`
	EnvMipLevels int     `yaml:"env_mip_levels"`
}

// DriverConfig configures the render loop.
type DriverConfig struct {
	// WobbleThrottleMs gates the wobble callback. Zero is unthrottled; unset picks the
	// variant default.
	WobbleThrottleMs *int `yaml:"wobble_throttle_ms"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
//
// Returns:
//   - Config: the defaults
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "oxy-bubble",
			Width:  800,
			Height: 800,
		},
		Renderer: RendererConfig{
			PresentMode: "vsync",
			MSAA:        4,
		},
		Bubble: BubbleConfig{
			Variant:      "primary",
			Segments:     192,
			EnvFaceSize:  64,
			EnvMipLevels: 5,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults and validates the result. An empty path
// returns the defaults.
//
// Parameters:
//   - path: the config file path, may be empty
//
// Returns:
//   - Config: the loaded configuration
//   - error: a read, parse or validation error
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config YAML from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field and joins the failures.
//
// Returns:
//   - error: nil, or an error wrapping ErrInvalidConfig per failure
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidConfig))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		fail("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if _, err := c.PresentMode(); err != nil {
		fail("%v", err)
	}
	if _, err := c.MSAA(); err != nil {
		fail("%v", err)
	}
	if _, err := c.Variant(); err != nil {
		fail("%v", err)
	}
	if c.Bubble.Radius < 0 {
		fail("bubble radius %v must not be negative", c.Bubble.Radius)
	}
	if c.Bubble.Segments < 3 || c.Bubble.Segments > model.MaxSphereSegments {
		fail("bubble segments %d must be between 3 and %d", c.Bubble.Segments, model.MaxSphereSegments)
	}
	if c.Bubble.EnvFaceSize < 1 || c.Bubble.EnvMipLevels < 1 {
		fail("environment face size %d and mip levels %d must be positive", c.Bubble.EnvFaceSize, c.Bubble.EnvMipLevels)
	} else if c.Bubble.EnvMipLevels > maxMipLevels(c.Bubble.EnvFaceSize) {
		fail("environment mip levels %d exceed %d for %dpx faces", c.Bubble.EnvMipLevels, maxMipLevels(c.Bubble.EnvFaceSize), c.Bubble.EnvFaceSize)
	}
	if t := c.Driver.WobbleThrottleMs; t != nil && *t < 0 {
		fail("wobble throttle %dms must not be negative", *t)
	}
	if _, err := c.LogLevel(); err != nil {
		fail("%v", err)
	}
	return errors.Join(errs...)
}

// Variant parses the bubble variant.
func (c *Config) Variant() (material.Variant, error) {
	return material.ParseVariant(strings.ToLower(c.Bubble.Variant))
}

// PresentMode parses the renderer present mode.
func (c *Config) PresentMode() (renderer.PresentMode, error) {
	switch strings.ToLower(c.Renderer.PresentMode) {
	case "vsync", "":
		return renderer.PresentModeVSync, nil
	case "uncapped":
		return renderer.PresentModeUncapped, nil
	default:
		return renderer.PresentModeVSync, fmt.Errorf("unknown present mode %q", c.Renderer.PresentMode)
	}
}

// MSAA converts the sample count.
func (c *Config) MSAA() (renderer.MSAASampleCount, error) {
	switch c.Renderer.MSAA {
	case 1:
		return renderer.MSAAOff, nil
	case 4:
		return renderer.MSAA4x, nil
	case 8:
		return renderer.MSAA8x, nil
	case 16:
		return renderer.MSAA16x, nil
	default:
		return renderer.MSAA4x, fmt.Errorf("unsupported msaa sample count %d", c.Renderer.MSAA)
	}
}

// LogLevel parses the log level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return level, nil
}

// WobbleThrottle returns the wobble callback gate: the configured value, else 100ms for the
// miniature variant and none for the primary.
func (c *Config) WobbleThrottle() time.Duration {
	if t := c.Driver.WobbleThrottleMs; t != nil {
		return time.Duration(*t) * time.Millisecond
	}
	if v, err := c.Variant(); err == nil && v == material.VariantMiniature {
		return miniatureWobbleThrottleMs * time.Millisecond
	}
	return 0
}

// maxMipLevels is the number of halvings from size down to 1, plus one.
func maxMipLevels(size int) int {
	n := 0
	for size > 0 {
		n++
		size >>= 1
	}
	return n
}
