// Package env has small helpers for reading process environment variables
// outside the envconfig-managed configuration (PORT overrides, log output).
package env

import "os"

// Get reads key from the environment, returning fallback when unset or empty.
func Get(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
