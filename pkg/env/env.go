package env

import (
	"os"
	"strings"
	"time"
)

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// Duration parses key as a time.Duration; unparsable values yield fallback.
func Duration(key string, fallback time.Duration) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
