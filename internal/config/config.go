// Package config provides configuration management for the prop analyzer.
package config

import "time"

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Analysis AnalysisConfig `mapstructure:"analysis" validate:"required"`
	DataFeed DataFeedConfig `mapstructure:"data_feed" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// AnalysisConfig tunes the prop evaluation and parlay search stages
type AnalysisConfig struct {
	Sport                string  `mapstructure:"sport" validate:"required"`
	MinCorrelation       float64 `mapstructure:"min_correlation" validate:"gte=-1,lte=1"`
	MatchupFactor        float64 `mapstructure:"matchup_factor" validate:"gt=0"`
	MinPicks             int     `mapstructure:"min_picks" validate:"required,gte=2"`
	MaxPicks             int     `mapstructure:"max_picks" validate:"required,gte=2"`
	MinParlayProbability float64 `mapstructure:"min_parlay_probability" validate:"gte=0"`
	Parallelism          int     `mapstructure:"parallelism" validate:"gte=0"`
	MaxRosterConcurrency int     `mapstructure:"max_roster_concurrency" validate:"gte=0"`
}

// DataFeedConfig represents the historical data feed configuration
type DataFeedConfig struct {
	Provider        string  `mapstructure:"provider" validate:"required,oneof=espn static"`
	BaseURL         string  `mapstructure:"base_url" validate:"omitempty,url"`
	League          string  `mapstructure:"league" validate:"required"`
	Season          string  `mapstructure:"season" validate:"required"`
	APIKey          string  `mapstructure:"api_key"`
	RateLimit       float64 `mapstructure:"rate_limit" validate:"gt=0"`
	TimeoutSeconds  int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries      int     `mapstructure:"max_retries" validate:"gte=0"`
	CacheTTLSeconds int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// ScheduleConfig represents periodic re-analysis scheduling for watch mode
type ScheduleConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	RefreshCron    string `mapstructure:"refresh_cron" validate:"required_if=Enabled true"`
	TimeoutMinutes int    `mapstructure:"timeout_minutes" validate:"gte=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// FeedTimeout returns the data feed request timeout as a duration
func (c *Config) FeedTimeout() time.Duration {
	return time.Duration(c.DataFeed.TimeoutSeconds) * time.Second
}

// CacheTTL returns the history cache TTL as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.DataFeed.CacheTTLSeconds) * time.Second
}
