// Package config provides configuration loading and management for gifcube.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate for unusable settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the application configuration loaded from YAML
type Config struct {
	// Sampling parameters
	Sampling struct {
		// Width is the number of samples along the plane's first edge.
		// Zero derives it from the loaded animation as max(width, height).
		Width int `yaml:"width"`

		// Height is the number of samples along the plane's second edge.
		// Zero derives it from the loaded animation as max(width, height).
		Height int `yaml:"height"`

		// Convention selects the sampling convention: "inverted" or "direct"
		Convention string `yaml:"convention"`
	} `yaml:"sampling"`

	// Plane holds the initial transform of the slice plane
	Plane struct {
		// Position is the centre of the plane in cube units
		Position [3]float64 `yaml:"position"`

		// Rotation is given in degrees about the local X, Y and Z axes
		Rotation [3]float64 `yaml:"rotation"`

		// Scale stretches the unit plane along X and Y; Z only affects the
		// clipping plane normal
		Scale [3]float64 `yaml:"scale"`
	} `yaml:"plane"`

	// Animation controls the spin export
	Animation struct {
		// Steps is the number of frames written by a spin export
		Steps int `yaml:"steps"`

		// SpinZ and SpinY are applied every step, in radians
		SpinZ float64 `yaml:"spinZ"`
		SpinY float64 `yaml:"spinY"`
	} `yaml:"animation"`

	// Throttle limits how often an interactive session re-slices
	Throttle struct {
		// Interval is the minimum time between two slices
		Interval time.Duration `yaml:"interval"`
	} `yaml:"throttle"`

	// Output parameters
	Output struct {
		// Dir is where images are written
		Dir string `yaml:"dir"`

		// Format is the image format for exports: "png" or "jpeg"
		Format string `yaml:"format"`

		// Thumbnail is the longest side of exported thumbnails; 0 disables them
		Thumbnail int `yaml:"thumbnail"`

		// Workers is the number of goroutines used for sequence exports
		Workers int `yaml:"workers"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Sampling.Convention = "inverted"

	// the plane starts centred, unit sized, turned 45 degrees about its normal
	cfg.Plane.Rotation = [3]float64{0, 0, 45}
	cfg.Plane.Scale = [3]float64{1, 1, 1}

	cfg.Animation.Steps = 120
	cfg.Animation.SpinZ = 0.005
	cfg.Animation.SpinY = 0.005

	cfg.Throttle.Interval = 50 * time.Millisecond

	cfg.Output.Dir = "slices"
	cfg.Output.Format = "png"
	cfg.Output.Thumbnail = 0
	cfg.Output.Workers = runtime.NumCPU()
	cfg.Output.Verbose = false

	return cfg
}

// Validate checks the configuration for values the viewer cannot use
func (c *Config) Validate() error {
	if c.Sampling.Width < 0 || c.Sampling.Height < 0 {
		return fmt.Errorf("%w: sample size %dx%d must not be negative", ErrInvalidConfig, c.Sampling.Width, c.Sampling.Height)
	}
	switch c.Sampling.Convention {
	case "inverted", "direct":
	default:
		return fmt.Errorf("%w: unknown sampling convention %q", ErrInvalidConfig, c.Sampling.Convention)
	}
	for i, s := range c.Plane.Scale {
		if s == 0 {
			return fmt.Errorf("%w: plane scale component %d is zero", ErrInvalidConfig, i)
		}
	}
	if c.Animation.Steps < 0 {
		return fmt.Errorf("%w: animation steps %d must not be negative", ErrInvalidConfig, c.Animation.Steps)
	}
	if c.Throttle.Interval < 0 {
		return fmt.Errorf("%w: throttle interval %v must not be negative", ErrInvalidConfig, c.Throttle.Interval)
	}
	switch c.Output.Format {
	case "png", "jpeg":
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, c.Output.Format)
	}
	if c.Output.Thumbnail < 0 {
		return fmt.Errorf("%w: thumbnail size %d must not be negative", ErrInvalidConfig, c.Output.Thumbnail)
	}
	if c.Output.Workers < 1 {
		return fmt.Errorf("%w: workers %d must be at least 1", ErrInvalidConfig, c.Output.Workers)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
