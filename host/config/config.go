// Package config loads the YAML board profile of the host runner.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"placebo/firmware"
	"placebo/host/serial"
)

// Config is a board profile
type Config struct {
	// Serial port. An empty device runs the shell on the terminal.
	Device        string `yaml:"device"`
	Baud          int    `yaml:"baud"`
	ReadTimeoutMS int    `yaml:"read_timeout_ms"`

	// Firmware behavior
	Variant       string        `yaml:"variant"` // shell, ticktock
	Pattern       string        `yaml:"pattern"` // blink, pulse, beacon or a decimal mask
	Mode          string        `yaml:"mode"`    // pattern, toggle
	InitialPeriod time.Duration `yaml:"initial_period"`
	Banner        *string       `yaml:"banner"`
	Pinout        string        `yaml:"pinout"`

	// Diagnostics
	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
}

// Default returns the profile used when no file is given
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a profile from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML profile and fills in missing values
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	if cfg.Baud == 0 {
		cfg.Baud = 115200
	}
	if cfg.ReadTimeoutMS == 0 {
		cfg.ReadTimeoutMS = 100
	}
	if cfg.Variant == "" {
		cfg.Variant = "shell"
	}
	if cfg.Pattern == "" {
		cfg.Pattern = "beacon"
	}
	if cfg.Mode == "" {
		cfg.Mode = "pattern"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Firmware converts the profile to a firmware configuration
func (c *Config) Firmware() (firmware.Config, error) {
	variant, err := firmware.ParseVariant(c.Variant)
	if err != nil {
		return firmware.Config{}, fmt.Errorf("variant %q: %w", c.Variant, err)
	}

	cfg := firmware.DefaultConfig()
	if variant == firmware.VariantTickTock {
		cfg = firmware.TickTockConfig()
	} else {
		// ticktock always toggles
		if cfg.Mode, err = firmware.ParseMode(c.Mode); err != nil {
			return firmware.Config{}, fmt.Errorf("mode %q: %w", c.Mode, err)
		}
	}

	if cfg.Pattern, err = firmware.ParsePattern(c.Pattern); err != nil {
		return firmware.Config{}, fmt.Errorf("pattern %q: %w", c.Pattern, err)
	}
	if c.InitialPeriod > 0 {
		cfg.InitialPeriod = c.InitialPeriod
	}
	if c.Banner != nil {
		cfg.Banner = *c.Banner
	}
	if c.Pinout != "" {
		cfg.Pinout = c.Pinout
	}
	return cfg, nil
}

// Serial returns the port configuration of the profile
func (c *Config) Serial() *serial.Config {
	cfg := serial.DefaultConfig(c.Device)
	cfg.Baud = c.Baud
	cfg.ReadTimeout = c.ReadTimeoutMS
	return cfg
}
