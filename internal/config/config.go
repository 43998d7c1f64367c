// Package config loads go-clearkey settings from a config file and the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the settings shared by the CLI and the session layer
type Config struct {
	LicenseURL     string        `mapstructure:"license_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	KeyTTL         time.Duration `mapstructure:"key_ttl"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// LoadConfig loads configuration using Viper.
// When path is empty clearkey-config.yaml is searched for in the usual locations and
// a missing file is not an error. Environment variables prefixed CLEARKEY_ override
// file values.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("clearkey-config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.clearkey")
		v.AddConfigPath("/etc/clearkey")
	}

	// Set defaults
	v.SetDefault("license_url", "")
	v.SetDefault("request_timeout", 10*time.Second)
	v.SetDefault("key_ttl", 30*time.Minute)
	v.SetDefault("user_agent", "go-clearkey/0.1")

	// Allow environment variables
	v.SetEnvPrefix("CLEARKEY")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that durations are usable
func (c *Config) Validate() error {
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.KeyTTL < 0 {
		return fmt.Errorf("key_ttl must not be negative, got %s", c.KeyTTL)
	}
	return nil
}
