// Package config provides configuration management for the trust evaluator.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Evaluation EvaluationConfig `mapstructure:"evaluation" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// LoggingConfig represents log output configuration
type LoggingConfig struct {
	Format     string `mapstructure:"format" validate:"omitempty,oneof=json text"`
	Output     string `mapstructure:"output"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// EvaluationConfig groups the thresholds used by each engine
type EvaluationConfig struct {
	Calibration CalibrationConfig `mapstructure:"calibration" validate:"required"`
	Correlation CorrelationConfig `mapstructure:"correlation" validate:"required"`
	Edge        EdgeConfig        `mapstructure:"edge" validate:"required"`
	System      SystemConfig      `mapstructure:"system" validate:"required"`
}

// CalibrationConfig represents calibration evaluation thresholds
type CalibrationConfig struct {
	MinSamples       int `mapstructure:"min_samples" validate:"required,gt=0"`
	Bins             int `mapstructure:"bins" validate:"required,gt=1"`
	MinSamplesPerBin int `mapstructure:"min_samples_per_bin" validate:"required,gt=0"`
}

// CorrelationConfig represents correlation estimation thresholds
type CorrelationConfig struct {
	MinSamples int `mapstructure:"min_samples" validate:"required,gt=3"`
}

// EdgeConfig represents edge validation settings
type EdgeConfig struct {
	MinBets             int     `mapstructure:"min_bets" validate:"required,gt=0"`
	SignificanceLevel   float64 `mapstructure:"significance_level" validate:"required,gt=0,lt=1"`
	BootstrapIterations int     `mapstructure:"bootstrap_iterations" validate:"required,gt=0"`
	Workers             int     `mapstructure:"workers" validate:"gte=0"`
	Seed                int64   `mapstructure:"seed"`
}

// SystemConfig represents the overall verdict settings
type SystemConfig struct {
	MinCorrelationEvents int     `mapstructure:"min_correlation_events" validate:"required,gt=0"`
	DefaultStake         float64 `mapstructure:"default_stake" validate:"required,gt=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required_if=Enabled true"`
	User           string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// MetricsConfig represents metrics push configuration
type MetricsConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	PushgatewayURL string `mapstructure:"pushgateway_url" validate:"omitempty,url"`
	JobName        string `mapstructure:"job_name"`
}

// SecretsConfig points at an optional AWS Secrets Manager secret
type SecretsConfig struct {
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
