// Package config loads and validates Focal's application configuration.
// Configuration lives in ~/.focal/config.yaml, is created with defaults on
// first run, and can be overridden with FOCAL_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration for the Focal attention
// service.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Engine  EngineConfig  `mapstructure:"engine" yaml:"engine"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8484" or "127.0.0.1:8484"
	Addr string `mapstructure:"addr" yaml:"addr"`
	// ReadTimeoutSec bounds how long a request body read may take
	ReadTimeoutSec int `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	// WriteTimeoutSec bounds how long a response write may take
	WriteTimeoutSec int `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec"`
}

// StorageConfig contains settings for the advisory audit store.
type StorageConfig struct {
	// DataDir is the directory holding the SQLite audit database
	DataDir string `mapstructure:"data_dir" yaml:"data_dir"`
}

// LoggingConfig contains application logging settings.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error")
	Level string `mapstructure:"level" yaml:"level"`
	// File is an optional path for persistent logs; empty logs to stderr only
	File string `mapstructure:"file" yaml:"file"`
}

// EngineConfig carries fallback analysis parameters applied when a request
// does not supply user preferences.
type EngineConfig struct {
	// DefaultRole is used when a request omits the user's role
	DefaultRole string `mapstructure:"default_role" yaml:"default_role"`
	// DefaultPeakStart / DefaultPeakEnd define the fallback peak window ("HH:MM")
	DefaultPeakStart string `mapstructure:"default_peak_start" yaml:"default_peak_start"`
	DefaultPeakEnd   string `mapstructure:"default_peak_end" yaml:"default_peak_end"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	focalDir := filepath.Join(homeDir, ".focal")

	return &Config{
		Server: ServerConfig{
			Addr:            ":8484",
			ReadTimeoutSec:  15,
			WriteTimeoutSec: 15,
		},
		Storage: StorageConfig{
			DataDir: focalDir,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
		Engine: EngineConfig{
			DefaultRole:      "",
			DefaultPeakStart: "09:00",
			DefaultPeakEnd:   "12:00",
		},
	}
}

// Load reads configuration from the default location (~/.focal/config.yaml)
// and merges with environment variables. If no config file exists, it
// creates one with default values.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	return LoadFromPath(filepath.Join(homeDir, ".focal", "config.yaml"))
}

// LoadFromPath reads configuration from a specific file path and merges
// with environment variables. If the file doesn't exist, it is created with
// default values.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Environment overrides, e.g. FOCAL_SERVER_ADDR, FOCAL_LOGGING_LEVEL.
	v.SetEnvPrefix("FOCAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Storage.DataDir = expandPath(cfg.Storage.DataDir)
	cfg.Logging.File = expandPath(cfg.Logging.File)

	return &cfg, nil
}

// SaveToPath writes the current configuration to a specific file path.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return writeConfigFile(path, c)
}

// Validate checks the configuration for common errors.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr cannot be empty")
	}
	if c.Server.ReadTimeoutSec < 0 || c.Server.WriteTimeoutSec < 0 {
		return fmt.Errorf("server timeouts cannot be negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level '%s', must be one of: debug, info, warn, error", c.Logging.Level)
	}

	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir cannot be empty")
	}

	switch c.Engine.DefaultRole {
	case "", "maker", "marker", "multiplier":
	default:
		return fmt.Errorf("invalid default_role '%s', must be one of: maker, marker, multiplier (or empty)", c.Engine.DefaultRole)
	}

	return nil
}

// writeConfigFile writes a Config struct to a YAML file.
// Uses gopkg.in/yaml.v3 directly to ensure proper tag-based serialization.
func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// expandPath expands ~ to the user's home directory in a path string.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
