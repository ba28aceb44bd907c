package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"suggestion-tracker/internal/logger"
)

const (
	StoreBackendMongo  = "mongo"
	StoreBackendMemory = "memory"

	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config holds the application configuration.
type Config struct {
	AppEnv    string
	Debug     bool
	Version   string
	LogLevel  string
	SentryDSN string

	StoreBackend         string
	MongoDBURI           string
	MongoDBDatabase      string
	MongoDBTimeout       time.Duration
	SuggestionCollection string
	UserCollection       string
	StatusCollection     string

	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// LoadConfig loads configuration from environment variables.
// It attempts to load a .env file if present but prioritizes
// actual environment variables set in the system (e.g., by Docker).
// An optional config.yaml in the working directory supplies lower-priority values.
func LoadConfig() (*Config, error) {
	log := logger.WithComponent("config")

	// Load .env file if it exists (useful for development)
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, relying on environment variables")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Debug("No config file found, using defaults and env vars")
	}

	return Load(v)
}

// Load builds a Config from v after applying defaults and environment binding.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		AppEnv:    v.GetString("app_env"),
		Debug:     v.GetBool("debug"),
		Version:   v.GetString("version"),
		LogLevel:  v.GetString("log_level"),
		SentryDSN: v.GetString("sentry_dsn"),

		StoreBackend:         strings.ToLower(v.GetString("store_backend")),
		MongoDBURI:           v.GetString("mongodb_uri"),
		MongoDBDatabase:      v.GetString("mongodb_database"),
		MongoDBTimeout:       v.GetDuration("mongodb_timeout"),
		SuggestionCollection: v.GetString("suggestion_collection"),
		UserCollection:       v.GetString("user_collection"),
		StatusCollection:     v.GetString("status_collection"),

		CacheBackend:  strings.ToLower(v.GetString("cache_backend")),
		CacheTTL:      v.GetDuration("cache_ttl"),
		RedisAddr:     v.GetString("redis_addr"),
		RedisPassword: v.GetString("redis_password"),
		RedisDB:       v.GetInt("redis_db"),
		RedisPrefix:   v.GetString("redis_prefix"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_env", "development")
	v.SetDefault("debug", false)
	v.SetDefault("version", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("store_backend", StoreBackendMongo)
	v.SetDefault("mongodb_timeout", 10*time.Second)
	v.SetDefault("suggestion_collection", "suggestions")
	v.SetDefault("user_collection", "users")
	v.SetDefault("status_collection", "statuses")
	v.SetDefault("cache_backend", CacheBackendMemory)
	v.SetDefault("cache_ttl", time.Minute)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_prefix", "suggestion-tracker")
}

// Validate checks that the essential settings for the selected backends are present.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreBackendMongo:
		if c.MongoDBURI == "" {
			return fmt.Errorf("MONGODB_URI is required")
		}
		if c.MongoDBDatabase == "" {
			return fmt.Errorf("MONGODB_DATABASE is required")
		}
		if c.MongoDBTimeout <= 0 {
			return fmt.Errorf("MONGODB_TIMEOUT must be positive")
		}
	case StoreBackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	switch c.CacheBackend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_BACKEND is redis")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}

	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.SuggestionCollection == "" || c.UserCollection == "" || c.StatusCollection == "" {
		return fmt.Errorf("collection names must not be empty")
	}
	return nil
}
