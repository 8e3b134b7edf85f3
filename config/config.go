// Package config provides configuration management for the counting station.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the complete application configuration.
type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Store   StoreConfig
	Scanner ScannerConfig
	Log     LogConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// ServerConfig holds HTTP server configuration for the station API.
type ServerConfig struct {
	Port        string
	RateLimit   int
	RateWindow  time.Duration
	CORSOrigins []string
	APIKeys     map[string]bool
}

// BackendConfig holds the Remote Data Service connection settings.
type BackendConfig struct {
	BaseURL      string
	Usuario      string
	Password     string
	Timeout      time.Duration
	PlantillaTTL time.Duration
}

// StoreConfig holds local persistence configuration.
type StoreConfig struct {
	Path string
}

// ScannerConfig holds scanner feed configuration.
type ScannerConfig struct {
	// BufferSize is the decode-event channel capacity per source.
	BufferSize int
}

// Load creates a Config from environment variables.
func Load() Config {
	return Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			RateLimit:   getEnvInt("RATE_LIMIT", 100),
			RateWindow:  getEnvDuration("RATE_WINDOW", time.Minute),
			CORSOrigins: parseCORSOrigins(os.Getenv("CORS_ORIGINS")),
			APIKeys:     parseAPIKeys(os.Getenv("API_KEYS")),
		},
		Backend: BackendConfig{
			BaseURL:      getEnv("BACKEND_URL", "http://localhost:3001/api"),
			Usuario:      getEnv("BACKEND_USUARIO", ""),
			Password:     getEnv("BACKEND_PASSWORD", ""),
			Timeout:      getEnvDuration("BACKEND_TIMEOUT", 10*time.Second),
			PlantillaTTL: getEnvDuration("PLANTILLA_CACHE_TTL", 30*time.Second),
		},
		Store: StoreConfig{
			Path: getEnv("STORE_PATH", "conteo-station.db"),
		},
		Scanner: ScannerConfig{
			BufferSize: getEnvInt("SCANNER_BUFFER", 16),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseAPIKeys(s string) map[string]bool {
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ",")
	result := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			result[k] = true
		}
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}
