package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ligustah/splitfile/pkg/parts"
)

// Config defines configuration for the splitfile CLI.
type Config struct {
	Bucket         string        `yaml:"bucket"`
	NoCleanup      bool          `yaml:"no_cleanup"`
	Progress       bool          `yaml:"progress"`
	GapCheck       string        `yaml:"gap_check"`
	UpdateInterval time.Duration `yaml:"update_interval"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		GapCheck:       string(parts.GapWindow),
		UpdateInterval: 2 * time.Second,
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	Bucket         string `yaml:"bucket"`
	NoCleanup      bool   `yaml:"no_cleanup"`
	Progress       bool   `yaml:"progress"`
	GapCheck       string `yaml:"gap_check"`
	UpdateInterval string `yaml:"update_interval"`
}

// LoadFromFile loads configuration from a YAML file on top of Default().
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Bucket != "" {
		cfg.Bucket = yc.Bucket
	}
	cfg.NoCleanup = yc.NoCleanup
	cfg.Progress = yc.Progress
	if yc.GapCheck != "" {
		cfg.GapCheck = yc.GapCheck
	}
	if yc.UpdateInterval != "" {
		d, err := time.ParseDuration(yc.UpdateInterval)
		if err != nil {
			return Config{}, fmt.Errorf("parse update_interval: %w", err)
		}
		cfg.UpdateInterval = d
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the SPLITFILE_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("SPLITFILE_BUCKET"); v != "" {
		c.Bucket = v
	}
	if v := os.Getenv("SPLITFILE_NO_CLEANUP"); v != "" {
		c.NoCleanup = parseBool(v)
	}
	if v := os.Getenv("SPLITFILE_PROGRESS"); v != "" {
		c.Progress = parseBool(v)
	}
	if v := os.Getenv("SPLITFILE_GAP_CHECK"); v != "" {
		c.GapCheck = v
	}
	if v := os.Getenv("SPLITFILE_UPDATE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse SPLITFILE_UPDATE_INTERVAL: %w", err)
		}
		c.UpdateInterval = d
	}
	return nil
}

func parseBool(v string) bool {
	v = strings.ToLower(v)
	return v == "true" || v == "1" || v == "yes"
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := parts.ParseGapCheck(c.GapCheck); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.UpdateInterval <= 0 {
		return errors.New("config: update_interval must be positive")
	}
	return nil
}

// GapCheckMode returns the parsed gap check. Call Validate first.
func (c *Config) GapCheckMode() parts.GapCheck {
	mode, _ := parts.ParseGapCheck(c.GapCheck)
	return mode
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Bucket != "" {
		c.Bucket = override.Bucket
	}
	if override.NoCleanup {
		c.NoCleanup = override.NoCleanup
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	if override.GapCheck != "" {
		c.GapCheck = override.GapCheck
	}
	if override.UpdateInterval != 0 {
		c.UpdateInterval = override.UpdateInterval
	}
	return c
}
