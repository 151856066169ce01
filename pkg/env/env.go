// Package env holds small helpers for raw environment lookups that happen
// before (or outside) the envconfig-backed config load, such as the PORT
// override injected by the hosting platform.
package env

import "os"

// Get returns the named environment variable, or fallback when unset or empty.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
