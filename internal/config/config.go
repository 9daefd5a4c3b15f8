package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// EnvProduction is the environment name that hides debugging details from responses
const EnvProduction = "production"

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	GitHub GitHubConfig
	Redis  RedisConfig
	Cache  CacheConfig
	Log    LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Host           string
	Env            string
	ReadTimeout    int
	IdleTimeout    int
	AllowedOrigins []string
}

// GitHubConfig holds the upstream credential and the account being relayed
type GitHubConfig struct {
	Token    string
	Username string
	// APIURL overrides the REST endpoint, e.g. for GitHub Enterprise. Empty means api.github.com.
	APIURL string
}

// RedisConfig holds cache store connection settings
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PingInterval time.Duration
}

// CacheConfig holds cache-aside tunables
type CacheConfig struct {
	TTL          time.Duration
	SingleFlight bool
	FlushOnStart bool
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
	Env   string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the current process environment without touching .env
func FromEnv() (*Config, error) {
	env := getEnv("NODE_ENV", getEnv("APP_ENV", "development"))

	defaultLevel := "info"
	if env == "development" {
		defaultLevel = "debug"
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			Host:           getEnv("HOST", "0.0.0.0"),
			Env:            env,
			ReadTimeout:    getEnvAsInt("SERVER_READ_TIMEOUT", 30),
			IdleTimeout:    getEnvAsInt("SERVER_IDLE_TIMEOUT", 120),
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", ",", []string{"*"}),
		},
		GitHub: GitHubConfig{
			Token:    getEnv("GITHUB_TOKEN", ""),
			Username: getEnv("GITHUB_USERNAME", ""),
			APIURL:   getEnv("GITHUB_API_URL", ""),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PingInterval: time.Duration(getEnvAsInt("REDIS_PING_INTERVAL", 5)) * time.Second,
		},
		Cache: CacheConfig{
			TTL:          time.Duration(getEnvAsInt("REDIS_TTL", 3600)) * time.Second,
			SingleFlight: getEnvAsBool("CACHE_SINGLEFLIGHT", false),
			FlushOnStart: getEnvAsBool("CACHE_FLUSH_ON_START", false),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", defaultLevel),
			Env:   env,
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration.
// Missing GitHub credentials are reported per request, not at startup.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("PORT must be a valid TCP port, got %q", c.Server.Port)
	}
	if c.Redis.Port <= 0 || c.Redis.Port > 65535 {
		return fmt.Errorf("REDIS_PORT must be a valid TCP port, got %d", c.Redis.Port)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("REDIS_TTL must be positive")
	}
	if c.Redis.PingInterval <= 0 {
		return fmt.Errorf("REDIS_PING_INTERVAL must be positive")
	}
	return nil
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction reports whether the service runs in the production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == EnvProduction
}

// Addr returns the host:port of the cache store
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt gets an environment variable as integer with a fallback value
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getEnvAsBool gets an environment variable as boolean with a fallback value
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getEnvAsSlice gets an environment variable as slice with a fallback value
func getEnvAsSlice(key, separator string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, separator)
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}
