package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                   string
	DBUrl                  string
	JWTSecret              string
	AppEnv                 string
	LogLevel               string
	LogFormat              string
	MatchConcurrency       int
	OneSignalURL           string
	OneSignalAppID         string
	OneSignalAPIKey        string
	RedisAddr              string
	RedisPassword          string
	RedisDB                int
	RecommendationCacheTTL time.Duration
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	jwtSecret, exists := os.LookupEnv("JWT_SECRET")
	if !exists || jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	appEnv := normalizeEnv(getEnv("APP_ENV", "production"))
	defaultFormat := "json"
	if appEnv == "development" {
		defaultFormat = "console"
	}

	return &Config{
		Port:                   getEnv("PORT", "8080"),
		DBUrl:                  getEnv("DB_URL", ""),
		JWTSecret:              jwtSecret,
		AppEnv:                 appEnv,
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		LogFormat:              getEnv("LOG_FORMAT", defaultFormat),
		MatchConcurrency:       getEnvInt("MATCH_CONCURRENCY", 8),
		OneSignalURL:           getEnv("ONESIGNAL_URL", ""),
		OneSignalAppID:         getEnv("ONESIGNAL_APP_ID", ""),
		OneSignalAPIKey:        getEnv("ONESIGNAL_API_KEY", ""),
		RedisAddr:              getEnv("REDIS_ADDR", ""),
		RedisPassword:          getEnv("REDIS_PASSWORD", ""),
		RedisDB:                getEnvInt("REDIS_DB", 0),
		RecommendationCacheTTL: getEnvDuration("RECOMMENDATION_CACHE_TTL", 2*time.Minute),
	}, nil
}

func (c *Config) PushEnabled() bool {
	return c != nil && c.OneSignalAppID != "" && c.OneSignalAPIKey != ""
}

func (c *Config) CacheEnabled() bool {
	return c != nil && c.RedisAddr != "" && c.RecommendationCacheTTL > 0
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
