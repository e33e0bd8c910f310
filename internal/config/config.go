package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Local record store
	DatabasePath string `json:"database_path"`
	Retention    int    `json:"retention"`

	// Redis result cache (optional; in-memory cache when empty)
	RedisURL       string        `json:"redis_url"`
	RedisPrefix    string        `json:"redis_prefix"`
	ResultCacheTTL time.Duration `json:"result_cache_ttl"`

	// Remote APIs
	NewsAPIURL    string        `json:"news_api_url"`
	HIBPAPIURL    string        `json:"hibp_api_url"`
	HIBPAPIKey    string        `json:"hibp_api_key"`
	NVDAPIURL     string        `json:"nvd_api_url"`
	NVDAPIKey     string        `json:"nvd_api_key"`
	CTFTimeAPIURL string        `json:"ctftime_api_url"`
	GitHubAPIURL  string        `json:"github_api_url"`
	RedditAPIURL  string        `json:"reddit_api_url"`
	RemoteTimeout time.Duration `json:"remote_timeout"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`
}

// Load loads configuration from environment variables
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	return &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// Local record store
		DatabasePath: getEnv("DATABASE_PATH", "./data/pulse.db"),
		Retention:    getEnvAsInt("CACHE_RETENTION", 50),

		// Redis result cache
		RedisURL:       getEnv("REDIS_URL", ""),
		RedisPrefix:    getEnv("REDIS_PREFIX", "pulse:"),
		ResultCacheTTL: getEnvAsDuration("RESULT_CACHE_TTL", 15*time.Minute),

		// Remote APIs
		NewsAPIURL:    getEnv("NEWS_API_URL", "https://api.cyberpulse.news/v1"),
		HIBPAPIURL:    getEnv("HIBP_API_URL", "https://haveibeenpwned.com/api/v3"),
		HIBPAPIKey:    getEnv("HIBP_API_KEY", ""),
		NVDAPIURL:     getEnv("NVD_API_URL", "https://services.nvd.nist.gov/rest/json"),
		NVDAPIKey:     getEnv("NVD_API_KEY", ""),
		CTFTimeAPIURL: getEnv("CTFTIME_API_URL", "https://ctftime.org/api/v1"),
		GitHubAPIURL:  getEnv("GITHUB_API_URL", "https://api.github.com"),
		RedditAPIURL:  getEnv("REDDIT_API_URL", "https://www.reddit.com"),
		RemoteTimeout: getEnvAsDuration("REMOTE_TIMEOUT", 15*time.Second),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
