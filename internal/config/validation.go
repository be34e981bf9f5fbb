// Package config provides configuration management for the prop analyzer.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv := NewValidator()
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateCrossField applies constraints spanning multiple fields
func validateCrossField(cfg *Config) error {
	if cfg.Analysis.MaxPicks < cfg.Analysis.MinPicks {
		return fmt.Errorf("analysis.max_picks (%d) must be >= analysis.min_picks (%d)",
			cfg.Analysis.MaxPicks, cfg.Analysis.MinPicks)
	}

	if cfg.DataFeed.Provider == "espn" && cfg.DataFeed.League == "" {
		return fmt.Errorf("data_feed.league is required for the espn provider")
	}

	if cfg.Schedule.Enabled {
		parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(cfg.Schedule.RefreshCron); err != nil {
			return fmt.Errorf("schedule.refresh_cron is not a valid cron expression: %w", err)
		}
	}

	return nil
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	messages := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		messages = append(messages, fmt.Sprintf("%s failed on %q", fieldErr.Namespace(), fieldErr.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(messages, "; "))
}
