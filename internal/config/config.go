// Package config provides configuration management for the fitsmeta tools.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"fitsmeta/pkg/fitsmeta"
)

// Config represents the fitsmeta configuration.
type Config struct {
	Keywords fitsmeta.Keywords `yaml:"keywords"`
	Render   RenderConfig      `yaml:"render"`
}

// RenderConfig contains rendering defaults.
type RenderConfig struct {
	AutoKappa   float64 `yaml:"auto_kappa"`   // window half-width in sigmas for --auto
	ThumbWidth  int     `yaml:"thumb_width"`  // 0 disables thumbnails
	JPEGQuality int     `yaml:"jpeg_quality"` // 1-100
}

// Default returns a default configuration.
func Default() *Config {
	return &Config{
		Keywords: fitsmeta.DefaultKeywords(),
		Render: RenderConfig{
			AutoKappa:   3,
			ThumbWidth:  0,
			JPEGQuality: 90,
		},
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".fitsmeta", "config.yaml")
}

// Load loads the configuration from a file. Settings missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Render.AutoKappa <= 0 {
		return fmt.Errorf("render.auto_kappa must be positive, got %g", c.Render.AutoKappa)
	}
	if c.Render.ThumbWidth < 0 {
		return fmt.Errorf("render.thumb_width must not be negative, got %d", c.Render.ThumbWidth)
	}
	if c.Render.JPEGQuality < 1 || c.Render.JPEGQuality > 100 {
		return fmt.Errorf("render.jpeg_quality must be in 1..100, got %d", c.Render.JPEGQuality)
	}
	return nil
}

// Save saves the configuration to a file.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
