package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	AppName    = "Verdict API"
	AppVersion = "0.1.0"
)

// Config holds all process-wide settings. It is loaded once at startup and
// read-only afterwards; components receive it explicitly.
type Config struct {
	DatabaseURL  string
	Port         string
	Environment  string
	APIKeyPrefix string
	APIKeyLength int
	DashboardURL string
	CORSOrigins  []string
}

// Load reads configuration from environment variables and applies defaults.
// DATABASE_URL is the only required setting.
func Load() (*Config, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	cfg := &Config{
		DatabaseURL:  databaseURL,
		Port:         getEnv("PORT", "8080"),
		Environment:  getEnv("ENVIRONMENT", "development"),
		APIKeyPrefix: getEnv("API_KEY_PREFIX", "rg_"),
		APIKeyLength: getEnvInt("API_KEY_LENGTH", 32),
		DashboardURL: getEnv("DASHBOARD_URL", "http://localhost:3000"),
		CORSOrigins: getEnvList("CORS_ORIGINS",
			[]string{"http://localhost:3000", "http://localhost:5173"}),
	}

	if cfg.APIKeyLength < 16 {
		return nil, fmt.Errorf("API_KEY_LENGTH must be at least 16, got %d", cfg.APIKeyLength)
	}

	return cfg, nil
}

// IsDevelopment reports whether the process runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	values := []string{}
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			values = append(values, p)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
