package config

import (
	"fmt"
	"time"
)

// Config holds server configuration
type Config struct {
	// Server settings
	Port int
	Host string

	// PolicyFile optionally overrides SLA thresholds, fast cities and
	// extra holidays.
	PolicyFile string

	// SchemaFile is the JSON schema policy files are validated against.
	SchemaFile string

	// DatabasePath is the SQLite file for the run audit trail; empty
	// disables persistence.
	DatabasePath string

	// DatasetFile optionally preloads a CSV dataset at startup.
	DatasetFile string

	// Operational settings
	GracefulShutdownTimeout time.Duration
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}

	if c.PolicyFile != "" && c.SchemaFile == "" {
		return fmt.Errorf("schema file required when a policy file is set")
	}

	return nil
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Port:                    8080,
		Host:                    "0.0.0.0",
		SchemaFile:              "schemas/policy_v1.json",
		DatabasePath:            "dispatch-sla.db",
		GracefulShutdownTimeout: 30 * time.Second,
	}
}
