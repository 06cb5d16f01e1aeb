package config

import (
	"fmt"
	"strings"
	"time"
)

// DatabaseConfig is optional: services that can run with an in-memory store
// leave the URL empty.
type DatabaseConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// Configured reports whether a database URL has been provided.
func (c *DatabaseConfig) Configured() bool {
	return c.URL != ""
}

func (c *DatabaseConfig) Validate() error {
	if !c.Configured() {
		return nil
	}
	if !isValidPostgresURL(c.URL) {
		return fmt.Errorf("database URL must start with 'postgres://': %s", c.URL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("database connect timeout is not configured")
	}
	return nil
}

// isValidPostgresURL checks if the provided URL is a valid PostgreSQL URL
func isValidPostgresURL(url string) bool {
	return strings.HasPrefix(url, "postgres://") ||
		strings.HasPrefix(url, "postgresql://")
}
