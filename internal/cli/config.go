package cli

import (
	"os"
	"time"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string
	Output    string
	Timeout   time.Duration
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	timeout := 3 * time.Minute
	if raw := os.Getenv("FORGE_CLI_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			timeout = d
		}
	}
	return &Config{
		ServerURL: getEnvOrDefault("FORGE_SERVER", "http://localhost:8080"),
		Output:    "text",
		Timeout:   timeout,
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
