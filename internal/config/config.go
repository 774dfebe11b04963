package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Gateway   GatewayConfig
	Dashboard DashboardConfig
	CORS      CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// GatewayConfig holds IBKR Client Portal gateway configuration
type GatewayConfig struct {
	// BaseURL is the root of the gateway REST API, including the /v1/api prefix.
	BaseURL string
	// Home is the directory containing the clientportal.gw installation,
	// used by the launcher to start the gateway when it is not running.
	Home string
	// RequestTimeout bounds every individual gateway call.
	RequestTimeout time.Duration
	// RequestsPerSecond throttles calls to the rate-limited gateway.
	RequestsPerSecond float64
}

// DashboardConfig holds aggregation and caching configuration
type DashboardConfig struct {
	// CacheTTL is the freshness window for cached performance payloads.
	CacheTTL time.Duration
	// MaxAccountConcurrency bounds how many accounts are fetched in parallel.
	MaxAccountConcurrency int
	// RefreshSchedule is a cron expression for the background cache warm-up.
	RefreshSchedule string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8000"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Gateway: GatewayConfig{
			BaseURL:           getEnv("GATEWAY_BASE_URL", "https://localhost:5000/v1/api"),
			Home:              getEnv("GATEWAY_HOME", "./vendor/clientportal.gw"),
			RequestTimeout:    time.Duration(getEnvInt("GATEWAY_TIMEOUT_SECONDS", 10)) * time.Second,
			RequestsPerSecond: float64(getEnvInt("GATEWAY_REQUESTS_PER_SECOND", 10)),
		},
		Dashboard: DashboardConfig{
			CacheTTL:              time.Duration(getEnvInt("CACHE_TTL_MINUTES", 15)) * time.Minute,
			MaxAccountConcurrency: getEnvInt("MAX_ACCOUNT_CONCURRENCY", 10),
			RefreshSchedule:       getEnv("REFRESH_SCHEDULE", "@every 15m"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value.
// Non-numeric values fall back to the default rather than failing startup.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
