package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Snapshot sources
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Snapshot source
	Source   string // file, postgres
	StateDir string // ranking_YYYYMMDD.json / web_data_YYYYMMDD.json

	// Database (SOURCE=postgres)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Upstream briefing API (brief/dates commands)
	Upstream UpstreamConfig

	// Analytics tunables (YAML)
	ViewConfigPath string

	// HTTP
	CORSOrigins []string

	// Snapshot watch (cron spec)
	RefreshSchedule string

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	Prefix   string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// UpstreamConfig holds the briefing API client configuration
type UpstreamConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RatePerSec float64
	MaxRetries int
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Source:   strings.ToLower(getEnv("SOURCE", SourceFile)),
		StateDir: getEnv("STATE_DIR", "state"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Prefix:   getEnv("REDIS_PREFIX", "briefing"),
		},

		Upstream: UpstreamConfig{
			BaseURL:    strings.TrimRight(getEnv("UPSTREAM_URL", "http://localhost:8090/api"), "/"),
			Timeout:    getEnvAsDuration("UPSTREAM_TIMEOUT", "10s"),
			RatePerSec: getEnvAsFloat("UPSTREAM_RATE", 10),
			MaxRetries: getEnvAsInt("UPSTREAM_MAX_RETRIES", 2),
		},

		ViewConfigPath:  getEnv("BRIEFING_CONFIG", "config/briefing.yaml"),
		CORSOrigins:     getEnvAsList("CORS_ORIGINS", "http://localhost:5173"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@every 1m"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// IsProduction reports ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// RedisAddr returns host:port
func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Source {
	case SourceFile:
		if c.StateDir == "" {
			return fmt.Errorf("STATE_DIR is required for SOURCE=file")
		}
	case SourcePostgres:
		// DATABASE_URL is only needed when snapshots live in postgres
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for SOURCE=postgres")
		}
	default:
		return fmt.Errorf("SOURCE must be one of: %s, %s", SourceFile, SourcePostgres)
	}

	if c.Upstream.RatePerSec <= 0 {
		return fmt.Errorf("UPSTREAM_RATE must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key string, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
