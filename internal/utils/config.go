package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds all configuration for the service.
type Config struct {
	DatabaseURL   string
	Port          string
	SessionSecret string
	CacheSize     int
	RateLimits    RateLimitConfig
}

// RateLimitWindow is one endpoint class's admission ceiling.
type RateLimitWindow struct {
	Max    int
	Window time.Duration
}

// RateLimitConfig holds the three independent endpoint classes.
type RateLimitConfig struct {
	General    RateLimitWindow
	PostCreate RateLimitWindow
	Vote       RateLimitWindow
}

// LoadConfig reads configuration from the environment, optionally seeded from
// a .env file. Missing values fall back to defaults suitable for local dev.
func LoadConfig(envPath string, log *logrus.Logger) *Config {
	if err := godotenv.Load(envPath); err != nil {
		log.Info("No .env file found, reading config from environment")
	}

	cfg := &Config{
		DatabaseURL:   getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=nymo port=5432 sslmode=disable"),
		Port:          getEnv("PORT", "8080"),
		SessionSecret: getEnv("SESSION_SECRET", "default-salt"),
		CacheSize:     getEnvInt("CACHE_SIZE", 500),
		RateLimits: RateLimitConfig{
			General: RateLimitWindow{
				Max:    getEnvInt("RATE_LIMIT_MAX_REQUESTS", 100),
				Window: getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute),
			},
			PostCreate: RateLimitWindow{
				Max:    getEnvInt("POST_RATE_LIMIT_MAX", 5),
				Window: getEnvDuration("POST_RATE_LIMIT_WINDOW", time.Hour),
			},
			Vote: RateLimitWindow{
				Max:    getEnvInt("VOTE_RATE_LIMIT_MAX", 20),
				Window: getEnvDuration("VOTE_RATE_LIMIT_WINDOW", time.Minute),
			},
		},
	}

	if cfg.SessionSecret == "default-salt" {
		log.Warn("SESSION_SECRET not set, identity hashes use the default salt")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
