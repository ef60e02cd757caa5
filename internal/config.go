package internal

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        int
	LogLevel    string
	DatabaseUrl string

	// Worker Configuration
	WorkerEnabled           bool
	WorkerConcurrency       int
	WorkerPollInterval      time.Duration
	WorkerJobTimeout        time.Duration
	WorkerStaleJobThreshold time.Duration

	// Listing page sizes
	RankingDefaultPageSize int
	RankingMaxPageSize     int

	// Metrics endpoint authentication
	// If both are empty, the /metrics endpoint will be unprotected (not recommended)
	MetricsUsername string
	MetricsPassword string

	ShutdownTimeout time.Duration
}

func NewConfig() (*Config, error) {
	// Load .env file if it exists (ignored in production)
	_ = godotenv.Load()

	cfg := &Config{
		Env:      getEnv("ENV", "development"),
		Port:     getEnvInt("PORT", 8080),
		LogLevel: strings.ToLower(getEnv("LOG_LEVEL", "debug")),

		// Worker defaults
		WorkerEnabled:           getEnvBool("WORKER_ENABLED", true),
		WorkerConcurrency:       getEnvInt("WORKER_CONCURRENCY", 2),
		WorkerPollInterval:      getEnvDuration("WORKER_POLL_INTERVAL", 5*time.Second),
		WorkerJobTimeout:        getEnvDuration("WORKER_JOB_TIMEOUT", 10*time.Second),
		WorkerStaleJobThreshold: getEnvDuration("WORKER_STALE_JOB_THRESHOLD", 5*time.Minute),

		RankingDefaultPageSize: getEnvInt("RANKING_DEFAULT_PAGE_SIZE", 20),
		RankingMaxPageSize:     getEnvInt("RANKING_MAX_PAGE_SIZE", 100),

		// Metrics authentication
		MetricsUsername: getEnv("METRICS_USERNAME", ""),
		MetricsPassword: getEnv("METRICS_PASSWORD", ""),

		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}

	// Required
	cfg.DatabaseUrl = os.Getenv("DATABASE_URL")
	if cfg.DatabaseUrl == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.RankingDefaultPageSize < 1 {
		return nil, fmt.Errorf("RANKING_DEFAULT_PAGE_SIZE must be positive, got: %d", cfg.RankingDefaultPageSize)
	}
	if cfg.RankingMaxPageSize < cfg.RankingDefaultPageSize {
		return nil, fmt.Errorf("RANKING_MAX_PAGE_SIZE (%d) must not be below RANKING_DEFAULT_PAGE_SIZE (%d)",
			cfg.RankingMaxPageSize, cfg.RankingDefaultPageSize)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server runs in the development
// environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
