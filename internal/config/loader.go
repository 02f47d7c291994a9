// Package config provides configuration management for the trust evaluator.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment variable overrides.
const EnvPrefix = "TRUST_EVAL"

const defaultConfigPath = "config/config.yaml"

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	// Set environment variable prefix
	v.SetEnvPrefix(EnvPrefix)

	// Enable automatic binding of environment variables
	v.AutomaticEnv()

	// Replace dots with underscores in environment variable names
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	// Read the configuration file
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for every field
// the evaluator needs. A missing file is not an error.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	SetDefaults(v)

	// Read and expand the configuration file if it exists
	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
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

// SetDefaults registers the evaluator defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "betting-trust")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.max_size_mb", 100)

	v.SetDefault("evaluation.calibration.min_samples", 100)
	v.SetDefault("evaluation.calibration.bins", 10)
	v.SetDefault("evaluation.calibration.min_samples_per_bin", 30)
	v.SetDefault("evaluation.correlation.min_samples", 50)
	v.SetDefault("evaluation.edge.min_bets", 200)
	v.SetDefault("evaluation.edge.significance_level", 0.05)
	v.SetDefault("evaluation.edge.bootstrap_iterations", 1000)
	v.SetDefault("evaluation.edge.workers", 0)
	v.SetDefault("evaluation.edge.seed", 0)
	v.SetDefault("evaluation.system.min_correlation_events", 100)
	v.SetDefault("evaluation.system.default_stake", 100.0)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 5)

	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.job_name", "trust_eval")
}

// DefaultEvaluation returns the evaluation thresholds used when no file is given.
func DefaultEvaluation() EvaluationConfig {
	v := viper.New()
	SetDefaults(v)
	cfg := &Config{}
	// defaults are plain scalars; Unmarshal cannot fail on them
	_ = v.Unmarshal(cfg)
	return cfg.Evaluation
}

// WithDefaults fills every unset threshold from DefaultEvaluation.
// Workers and Seed keep their zero values.
func (c EvaluationConfig) WithDefaults() EvaluationConfig {
	d := DefaultEvaluation()

	fillInt(&c.Calibration.MinSamples, d.Calibration.MinSamples)
	fillInt(&c.Calibration.Bins, d.Calibration.Bins)
	fillInt(&c.Calibration.MinSamplesPerBin, d.Calibration.MinSamplesPerBin)
	fillInt(&c.Correlation.MinSamples, d.Correlation.MinSamples)
	fillInt(&c.Edge.MinBets, d.Edge.MinBets)
	fillFloat(&c.Edge.SignificanceLevel, d.Edge.SignificanceLevel)
	fillInt(&c.Edge.BootstrapIterations, d.Edge.BootstrapIterations)
	fillInt(&c.System.MinCorrelationEvents, d.System.MinCorrelationEvents)
	fillFloat(&c.System.DefaultStake, d.System.DefaultStake)

	return c
}

func fillInt(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func fillFloat(v *float64, def float64) {
	if *v <= 0 {
		*v = def
	}
}
