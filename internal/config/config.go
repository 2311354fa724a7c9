package config

import (
	"os"
	"strconv"

	"lizardflip/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Estimator EstimatorConfig
	Data      DataConfig
}

// DatabaseConfig holds database connection settings. Persistence is optional:
// an empty URL runs the service with an in-memory repository.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// EstimatorConfig holds default estimation parameters
type EstimatorConfig struct {
	IntervalMass float64 // credible interval probability mass
	NullTheta    float64 // success probability under the null model
	GridPoints   int     // grid resolution for the numerical estimator
	CurvePoints  int     // density curve samples attached to analyses
}

// DataConfig holds file ingestion settings
type DataConfig struct {
	TrialsFile    string // optional CSV/XLSX file with trial outcomes
	OutcomeColumn string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Estimator: EstimatorConfig{
			IntervalMass: getEnvFloatOrDefault("INTERVAL_MASS", 0.95),
			NullTheta:    getEnvFloatOrDefault("NULL_THETA", 0.5),
			GridPoints:   getEnvIntOrDefault("GRID_POINTS", 2001),
			CurvePoints:  getEnvIntOrDefault("CURVE_POINTS", 101),
		},
		Data: DataConfig{
			TrialsFile:    os.Getenv("TRIALS_FILE"),
			OutcomeColumn: getEnvOrDefault("OUTCOME_COLUMN", ""),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(c *Config) error {
	if c.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if c.Estimator.IntervalMass <= 0 || c.Estimator.IntervalMass >= 1 {
		return errors.ConfigInvalid("INTERVAL_MASS must be in (0, 1)")
	}
	if c.Estimator.NullTheta < 0 || c.Estimator.NullTheta > 1 {
		return errors.ConfigInvalid("NULL_THETA must be in [0, 1]")
	}
	if c.Estimator.GridPoints < 3 {
		return errors.ConfigInvalid("GRID_POINTS must be at least 3")
	}
	if c.Estimator.CurvePoints < 0 {
		return errors.ConfigInvalid("CURVE_POINTS must be non-negative")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
