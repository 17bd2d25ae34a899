// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"bravia-remote/internal/bravia"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read on top of the config file
const (
	EnvTVAddress = "TV_IP"
	EnvTVPSK     = "TV_PSK"
	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
)

// Config represents the complete application configuration
type Config struct {
	Device   bravia.DeviceConfig `yaml:"device"`
	Server   ServerConfig        `yaml:"server"`
	Timeouts TimeoutConfig       `yaml:"timeouts"`
	Auth     AuthConfig          `yaml:"auth"`
	Logging  LoggingConfig       `yaml:"logging"`
}

// ServerConfig contains HTTP API server settings
type ServerConfig struct {
	Address        string `yaml:"address"`
	PollInterval   string `yaml:"poll_interval"`
	NonceCacheSize int    `yaml:"nonce_cache_size"`
	NonceTTL       string `yaml:"nonce_ttl"`
}

// TimeoutConfig bounds the two calls made to the TV
type TimeoutConfig struct {
	Command string `yaml:"command"`
	Probe   string `yaml:"probe"`
}

// AuthConfig protects the API. Auth is off while PasswordHash is empty.
type AuthConfig struct {
	PasswordHash string `yaml:"password_hash"`
	JWTSecret    string `yaml:"jwt_secret"`
	Issuer       string `yaml:"issuer"`
	ExpiryHours  int    `yaml:"expiry_hours"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NewDefaultConfig creates a configuration with every optional field filled in
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:        ":3000",
			PollInterval:   "30s",
			NonceCacheSize: 256,
			NonceTTL:       "5m",
		},
		Timeouts: TimeoutConfig{
			Command: bravia.DefaultCommandTimeout.String(),
			Probe:   bravia.DefaultProbeTimeout.String(),
		},
		Auth: AuthConfig{
			Issuer:      "bravia-remote",
			ExpiryHours: 24,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadEnvFiles loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are ignored.
func LoadEnvFiles(paths ...string) error {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// Load reads the YAML file at path (if any), applies environment overrides,
// fills defaults and validates the result.
func Load(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnv()
	config.setDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Save writes the configuration as YAML
func Save(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) applyEnv() {
	if v, ok := os.LookupEnv(EnvTVAddress); ok && v != "" {
		c.Device.Address = v
	}
	if v, ok := os.LookupEnv(EnvTVPSK); ok {
		c.Device.PSK = v
	}
	if v, ok := os.LookupEnv(EnvPort); ok && v != "" {
		c.Server.Address = ":" + v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
}

// setDefaults ensures all optional fields have default values
func (c *Config) setDefaults() {
	defaults := NewDefaultConfig()

	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.PollInterval == "" {
		c.Server.PollInterval = defaults.Server.PollInterval
	}
	if c.Server.NonceCacheSize == 0 {
		c.Server.NonceCacheSize = defaults.Server.NonceCacheSize
	}
	if c.Server.NonceTTL == "" {
		c.Server.NonceTTL = defaults.Server.NonceTTL
	}
	if c.Timeouts.Command == "" {
		c.Timeouts.Command = defaults.Timeouts.Command
	}
	if c.Timeouts.Probe == "" {
		c.Timeouts.Probe = defaults.Timeouts.Probe
	}
	if c.Auth.Issuer == "" {
		c.Auth.Issuer = defaults.Auth.Issuer
	}
	if c.Auth.ExpiryHours == 0 {
		c.Auth.ExpiryHours = defaults.Auth.ExpiryHours
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
	}
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if c.Device.Address == "" {
		return fmt.Errorf("device.address is required (set %s)", EnvTVAddress)
	}

	durations := map[string]string{
		"server.poll_interval": c.Server.PollInterval,
		"server.nonce_ttl":     c.Server.NonceTTL,
		"timeouts.command":     c.Timeouts.Command,
		"timeouts.probe":       c.Timeouts.Probe,
	}
	for field, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", field, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", field)
		}
	}

	if c.Server.NonceCacheSize < 0 {
		return fmt.Errorf("server.nonce_cache_size must not be negative")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	levelValid := false
	for _, level := range validLevels {
		if c.Logging.Level == level {
			levelValid = true
			break
		}
	}
	if !levelValid {
		return fmt.Errorf("invalid logging level: %s (must be one of: %v)", c.Logging.Level, validLevels)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("logging format must be 'json' or 'text'")
	}

	if c.AuthEnabled() {
		if len(c.Auth.JWTSecret) < 32 {
			return fmt.Errorf("auth.jwt_secret must be at least 32 characters long when auth is enabled")
		}
		if c.Auth.ExpiryHours <= 0 {
			return fmt.Errorf("auth.expiry_hours must be greater than 0")
		}
	}

	return nil
}

// AuthEnabled reports whether API clients must log in
func (c *Config) AuthEnabled() bool {
	return c.Auth.PasswordHash != ""
}

// CommandTimeout returns the IRCC call bound
func (c *Config) CommandTimeout() time.Duration {
	return mustDuration(c.Timeouts.Command)
}

// ProbeTimeout returns the reachability probe bound
func (c *Config) ProbeTimeout() time.Duration {
	return mustDuration(c.Timeouts.Probe)
}

// PollInterval returns the server-side monitor interval
func (c *Config) PollInterval() time.Duration {
	return mustDuration(c.Server.PollInterval)
}

// NonceTTL returns how long replayed command responses are kept
func (c *Config) NonceTTL() time.Duration {
	return mustDuration(c.Server.NonceTTL)
}

// mustDuration is only used on validated configs
func mustDuration(value string) time.Duration {
	d, _ := time.ParseDuration(value)
	return d
}
