package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	AdmissionInFlight = "inflight"
	AdmissionLegacy   = "legacy"
)

// Config holds all application configuration
type Config struct {
	API        APIConfig
	Generation GenerationConfig
	Database   DatabaseConfig
	Log        LogConfig
	Keyring    KeyringConfig
	Metrics    MetricsConfig
}

// APIConfig holds the remote generation service settings
type APIConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// GenerationConfig tunes the generation orchestrator
type GenerationConfig struct {
	PollInterval    time.Duration
	MaxConcurrent   int
	AdmissionPolicy string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string
}

type LogConfig struct {
	Level  string
	Format string // "console" or "json"
}

// KeyringConfig selects where session credentials are kept. An empty
// backend lets the keyring pick the platform default.
type KeyringConfig struct {
	Backend  string
	FileDir  string
	Password string
}

type MetricsConfig struct {
	Addr string
}

// Load reads the .env file (if any) and the environment.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables and defaults.
func FromEnv() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        getEnv("H3D_API_BASE_URL", "https://3d.hunyuan.tencent.com"),
			RequestTimeout: getEnvAsDuration("H3D_REQUEST_TIMEOUT", 30*time.Second),
		},
		Generation: GenerationConfig{
			PollInterval:    getEnvAsDuration("H3D_POLL_INTERVAL", 4*time.Second),
			MaxConcurrent:   getEnvAsInt("H3D_MAX_CONCURRENT", 3),
			AdmissionPolicy: strings.ToLower(getEnv("H3D_ADMISSION_POLICY", AdmissionInFlight)),
		},
		Database: DatabaseConfig{
			Path: getEnv("H3D_DB_PATH", ""),
		},
		Log: LogConfig{
			Level:  strings.ToLower(getEnv("H3D_LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("H3D_LOG_FORMAT", "console")),
		},
		Keyring: KeyringConfig{
			Backend:  getEnv("H3D_KEYRING_BACKEND", ""),
			FileDir:  getEnv("H3D_KEYRING_DIR", ""),
			Password: getEnv("H3D_KEYRING_PASSWORD", ""),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("H3D_METRICS_ADDR", ""),
		},
	}
}

// Validate checks the loaded configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("H3D_API_BASE_URL must be an absolute URL, got %q", c.API.BaseURL)
	}
	if c.API.RequestTimeout <= 0 {
		return fmt.Errorf("H3D_REQUEST_TIMEOUT must be positive")
	}
	if c.Generation.PollInterval <= 0 {
		return fmt.Errorf("H3D_POLL_INTERVAL must be positive")
	}
	if c.Generation.MaxConcurrent < 1 {
		return fmt.Errorf("H3D_MAX_CONCURRENT must be at least 1")
	}
	switch c.Generation.AdmissionPolicy {
	case AdmissionInFlight, AdmissionLegacy:
	default:
		return fmt.Errorf("H3D_ADMISSION_POLICY must be %q or %q", AdmissionInFlight, AdmissionLegacy)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("H3D_LOG_FORMAT must be console or json")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
