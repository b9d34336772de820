// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port      string
	Env       string // "development", "staging", "production"
	LogLevel  string
	LogFormat string // "text" or "json"

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Observability
	OTLPEndpoint string // OTLP gRPC endpoint for traces (optional)

	// Rate limiting
	RateLimitRPM int // Requests per minute per session

	// Risk scoring
	IdentityWeight   float64
	BehavioralWeight float64
	RealThreshold    int // Scores below this get authentic data
	HoneyThreshold   int // Scores at or above this get honey data

	// Sessions
	SessionTTL time.Duration // Idle eviction window; 0 disables eviction

	// Response shaping
	ExposeRiskMeta bool // Echo risk diagnostics in data responses
}

const (
	DefaultPort             = "8080"
	DefaultEnv              = "development"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
	DefaultRateLimitRPM     = 120
	DefaultIdentityWeight   = 0.6
	DefaultBehavioralWeight = 0.4
	DefaultRealThreshold    = 35
	DefaultHoneyThreshold   = 70
)

// Load reads configuration from environment variables
// It loads .env file if present (for local development)
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", DefaultPort),
		Env:              getEnv("ENV", DefaultEnv),
		LogLevel:         getEnv("LOG_LEVEL", DefaultLogLevel),
		LogFormat:        getEnv("LOG_FORMAT", DefaultLogFormat),
		DatabaseURL:      os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		RateLimitRPM:     int(getEnvInt64("RATE_LIMIT_RPM", DefaultRateLimitRPM)),
		IdentityWeight:   getEnvFloat("IDENTITY_WEIGHT", DefaultIdentityWeight),
		BehavioralWeight: getEnvFloat("BEHAVIORAL_WEIGHT", DefaultBehavioralWeight),
		RealThreshold:    int(getEnvInt64("REAL_THRESHOLD", DefaultRealThreshold)),
		HoneyThreshold:   int(getEnvInt64("HONEY_THRESHOLD", DefaultHoneyThreshold)),
		SessionTTL:       getEnvDuration("SESSION_TTL", 0),
		ExposeRiskMeta:   getEnvBool("EXPOSE_RISK_META", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent
func (c *Config) Validate() error {
	if c.IdentityWeight <= 0 || c.BehavioralWeight <= 0 {
		return fmt.Errorf("IDENTITY_WEIGHT and BEHAVIORAL_WEIGHT must be positive")
	}
	if math.Abs(c.IdentityWeight+c.BehavioralWeight-1.0) > 0.001 {
		return fmt.Errorf("IDENTITY_WEIGHT + BEHAVIORAL_WEIGHT must equal 1.0, got %.3f",
			c.IdentityWeight+c.BehavioralWeight)
	}

	if c.RealThreshold <= 0 || c.RealThreshold >= c.HoneyThreshold {
		return fmt.Errorf("REAL_THRESHOLD must be in (0, HONEY_THRESHOLD), got %d", c.RealThreshold)
	}
	if c.HoneyThreshold > 100 {
		return fmt.Errorf("HONEY_THRESHOLD must be at most 100, got %d", c.HoneyThreshold)
	}

	if c.RateLimitRPM <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPM must be positive, got %d", c.RateLimitRPM)
	}

	if c.SessionTTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
