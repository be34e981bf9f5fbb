// Package config provides configuration management for the prop analyzer.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("SBA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields; a missing config file is not an error.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("SBA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "prop-analyzer")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("analysis.sport", "football")
	v.SetDefault("analysis.min_correlation", -0.2)
	v.SetDefault("analysis.matchup_factor", 1.0)
	v.SetDefault("analysis.min_picks", 2)
	v.SetDefault("analysis.max_picks", 5)
	v.SetDefault("analysis.min_parlay_probability", 0.85)

	v.SetDefault("data_feed.provider", "espn")
	v.SetDefault("data_feed.league", "nfl")
	v.SetDefault("data_feed.season", "2024")
	v.SetDefault("data_feed.rate_limit", 10.0)
	v.SetDefault("data_feed.timeout_seconds", 30)
	v.SetDefault("data_feed.max_retries", 5)
	v.SetDefault("data_feed.cache_ttl_seconds", 600)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
