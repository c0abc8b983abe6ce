package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the discovery service
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Catalog API configuration
	CatalogBaseURL   string
	CatalogAPIPrefix string
	CatalogTimeout   time.Duration
	CatalogRPS       float64

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	Discovery DiscoveryConfig

	// SessionTTL bounds how long an idle listing session survives in redis
	SessionTTL time.Duration

	LogLevel    string
	LogFormat   string
	CORSOrigins []string
}

// DiscoveryConfig holds the tunables of the discovery aggregator
type DiscoveryConfig struct {
	SampleSize     int
	QueryTokens    int
	ResultCap      int
	PerTokenLimit  int
	RecommendLimit int
}

// DefaultDiscoveryConfig returns the aggregator defaults
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		SampleSize:     8,
		QueryTokens:    5,
		ResultCap:      10,
		PerTokenLimit:  3,
		RecommendLimit: 10,
	}
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	loadCommon(cfg)

	// Sensitive values come from Docker secrets in production and from the environment elsewhere
	switch env {
	case CI, Development, Test:
		loadEnvSecrets(cfg)
	case Production:
		loadProdSecrets(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCommon loads the non-sensitive settings shared by every environment
func loadCommon(cfg *Config) {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")

	cfg.CatalogBaseURL = getEnv("CATALOG_BASE_URL", "http://localhost:8000/api/")
	cfg.CatalogAPIPrefix = getEnv("CATALOG_API_PREFIX", "api/")
	cfg.CatalogTimeout = getDuration("CATALOG_TIMEOUT", 10*time.Second)
	cfg.CatalogRPS = getFloat("CATALOG_RPS", 20)

	cfg.DBDriver = getEnv("DB_DRIVER", "sqlite")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBName = getEnv("DB_NAME", "discovery")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisDB = getInt("REDIS_DB", 0)
	cfg.RedisURL = os.Getenv("REDIS_URL")

	defaults := DefaultDiscoveryConfig()
	cfg.Discovery = DiscoveryConfig{
		SampleSize:     getInt("DISCOVERY_SAMPLE_SIZE", defaults.SampleSize),
		QueryTokens:    getInt("DISCOVERY_QUERY_TOKENS", defaults.QueryTokens),
		ResultCap:      getInt("DISCOVERY_RESULT_CAP", defaults.ResultCap),
		PerTokenLimit:  getInt("DISCOVERY_PER_TOKEN_LIMIT", defaults.PerTokenLimit),
		RecommendLimit: getInt("DISCOVERY_RECOMMEND_LIMIT", defaults.RecommendLimit),
	}

	cfg.SessionTTL = getDuration("PAGINATION_SESSION_TTL", 30*time.Minute)

	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "json")
	cfg.CORSOrigins = splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"))
}

// loadEnvSecrets reads credentials from environment variables
func loadEnvSecrets(cfg *Config) {
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
}

// loadProdSecrets reads credentials using ONLY Docker secrets
func loadProdSecrets(cfg *Config) {
	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.RedisPassword = readSecret("redis_password")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
