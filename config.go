package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all server configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	Grid   GridConfig   `yaml:"grid"`
	Search SearchConfig `yaml:"search"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds listener settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// GridConfig holds the default board layout for new sessions
type GridConfig struct {
	Rows    int `yaml:"rows"`
	Width   int `yaml:"width"`    // pixels
	MaxRows int `yaml:"max_rows"` // largest board a client may request
}

// SearchConfig holds streaming settings
type SearchConfig struct {
	StepDelay time.Duration `yaml:"step_delay"` // pause after each streamed frame, 0 streams unpaced
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Prefix string `yaml:"prefix"`
}

// Addr returns host:port for the listener
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() *Config {
	cfg := &Config{Search: SearchConfig{StepDelay: 10 * time.Millisecond}}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads configuration from a YAML file over the defaults. A
// missing file yields the defaults; a malformed one is an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	if cfg.Grid.MaxRows < 2 || cfg.Grid.MaxRows > MaxGridRows {
		return nil, fmt.Errorf("%w: max_rows=%d must be within [2, %d]", ErrInvalidGrid, cfg.Grid.MaxRows, MaxGridRows)
	}
	if cfg.Grid.Rows < 2 || cfg.Grid.Rows > cfg.Grid.MaxRows || cfg.Grid.Width < cfg.Grid.Rows {
		return nil, fmt.Errorf("%w: rows=%d width=%d", ErrInvalidGrid, cfg.Grid.Rows, cfg.Grid.Width)
	}
	if cfg.Search.StepDelay < 0 {
		return nil, fmt.Errorf("step_delay must not be negative, got %s", cfg.Search.StepDelay)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Grid.Rows == 0 {
		c.Grid.Rows = 30
	}
	if c.Grid.Width == 0 {
		c.Grid.Width = 900
	}
	if c.Grid.MaxRows == 0 {
		c.Grid.MaxRows = 200
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Prefix == "" {
		c.Log.Prefix = "[pathfinder] "
	}
}
