package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		DefaultPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "CharView")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "CharView")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "charview")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "charview")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// A file that lists model paths replaces the default list instead of
// appending to it.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate rejects settings the viewer cannot run with.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if len(c.Models.Paths) == 0 {
		return fmt.Errorf("no models configured")
	}
	if c.Controls.MoveSpeed < 0 {
		return fmt.Errorf("move_speed must not be negative, got %v", c.Controls.MoveSpeed)
	}
	if c.Controls.TurnDamping < 0 || c.Controls.TurnDamping > 1 {
		return fmt.Errorf("turn_damping must be within [0, 1], got %v", c.Controls.TurnDamping)
	}
	if c.Controls.CameraMinDistance > c.Controls.CameraMaxDistance {
		return fmt.Errorf("camera_min_distance %v exceeds camera_max_distance %v",
			c.Controls.CameraMinDistance, c.Controls.CameraMaxDistance)
	}
	return nil
}
