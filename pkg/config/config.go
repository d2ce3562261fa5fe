// Package config provides configuration loading and management for orthosync.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"orthosync/internal/models"
	"orthosync/pkg/viewsync"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Sync parameters
	Sync struct {
		// DepthHalfWidth is the number of slices on each side of the current
		// slice covered by the ROI depth window
		DepthHalfWidth int `yaml:"depthHalfWidth"`

		// LineTolerance is the pixel tolerance under which two measurement
		// lines are considered the same
		LineTolerance float64 `yaml:"lineTolerance"`

		// SyncSlicesOnROI moves the other views to the ROI centre once a
		// rectangle is drawn
		SyncSlicesOnROI bool `yaml:"syncSlicesOnROI"`
	} `yaml:"sync"`

	// Volume used when a session does not describe its own
	Volume models.Volume `yaml:"volume"`

	// Output parameters
	Output struct {
		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`

		// ReportPath is where the YAML report of lines and ROI is written
		ReportPath string `yaml:"reportPath"`

		// SlicesDir receives JPEG slices through the ROI centre, when set
		SlicesDir string `yaml:"slicesDir"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Sync.DepthHalfWidth = 25
	cfg.Sync.LineTolerance = 1.0
	cfg.Sync.SyncSlicesOnROI = true

	cfg.Volume = models.Volume{
		SizeX: 256, SizeY: 256, SizeZ: 128,
		SpacingX: 1.0, SpacingY: 1.0, SpacingZ: 1.0,
	}

	cfg.Output.Verbose = false
	cfg.Output.ReportPath = "report.yaml"

	return cfg
}

// Validate checks the configuration for values the controller cannot use
func (c *Config) Validate() error {
	var errs []error
	if c.Sync.DepthHalfWidth <= 0 {
		errs = append(errs, fmt.Errorf("sync.depthHalfWidth must be positive, got %d", c.Sync.DepthHalfWidth))
	}
	if c.Sync.LineTolerance < 0 {
		errs = append(errs, fmt.Errorf("sync.lineTolerance must not be negative, got %g", c.Sync.LineTolerance))
	}
	size, spacing := c.Volume.Size(), c.Volume.Spacing()
	for _, axis := range models.Axes {
		if size[axis] <= 0 {
			errs = append(errs, fmt.Errorf("volume size along %s must be positive, got %d", axis, size[axis]))
		}
		if spacing[axis] <= 0 {
			errs = append(errs, fmt.Errorf("volume spacing along %s must be positive, got %g", axis, spacing[axis]))
		}
	}
	return errors.Join(errs...)
}

// ControllerOptions returns the controller options described by the config
func (c *Config) ControllerOptions() viewsync.Options {
	return viewsync.Options{
		HalfWidth:       c.Sync.DepthHalfWidth,
		Tolerance:       c.Sync.LineTolerance,
		SyncSlicesOnROI: c.Sync.SyncSlicesOnROI,
	}
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
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

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

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
