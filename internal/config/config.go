// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Catalog     CatalogConfig
	Session     SessionConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	AWS         AWSConfig
	Upload      UploadConfig
	RateLimit   RateLimitConfig
	Frontend    FrontendConfig
	I18n        I18nConfig
}

type FrontendConfig struct {
	AllowedOrigins []string
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

// CatalogConfig points at the external catalog service that owns all product,
// brand and category data.
type CatalogConfig struct {
	BaseURL       string
	Origin        string
	SessionCookie string
	Timeout       time.Duration
}

type SessionConfig struct {
	CookieName  string
	SecretKey   string
	TTLHours    int
	PublicPaths []string
	LoginPath   string
	HomePath    string
	IdleTTL     time.Duration
	Secure      bool
}

type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	ArchivePrefix   string
}

type UploadConfig struct {
	MaxBytes  int64
	StatusTTL time.Duration
}

type RateLimitConfig struct {
	LoginPerMinute  int
	UploadPerMinute int
}

type I18nConfig struct {
	DefaultLocale string
}

const defaultSessionSecret = "change-me-session-secret"

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "3000"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Catalog: CatalogConfig{
			BaseURL:       strings.TrimRight(getEnv("CATALOG_API_URL", ""), "/"),
			Origin:        strings.TrimRight(getEnv("CATALOG_ORIGIN", ""), "/"),
			SessionCookie: getEnv("CATALOG_SESSION_COOKIE", "auth-token"),
			Timeout:       getEnvAsDuration("CATALOG_TIMEOUT", 20*time.Second),
		},
		Session: SessionConfig{
			CookieName:  getEnv("SESSION_COOKIE", "auth-token"),
			SecretKey:   getEnv("SESSION_SECRET", defaultSessionSecret),
			TTLHours:    getEnvAsInt("SESSION_TTL_HOURS", 24),
			PublicPaths: getEnvAsList("SESSION_PUBLIC_PATHS", []string{"/login"}),
			LoginPath:   getEnv("SESSION_LOGIN_PATH", "/login"),
			HomePath:    getEnv("SESSION_HOME_PATH", "/"),
			IdleTTL:     getEnvAsDuration("SESSION_IDLE_TTL", 2*time.Hour),
			Secure:      getEnvAsBool("SESSION_SECURE", false),
		},
		Database: DatabaseConfig{
			Enabled:      getEnvAsBool("AUDIT_DB_ENABLED", false),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "commodity_admin"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("REFERENCE_CACHE_TTL", 5*time.Minute),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "us-east-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", ""),
			ArchivePrefix:   getEnv("AWS_CSV_ARCHIVE_PREFIX", "csv-imports"),
		},
		Upload: UploadConfig{
			MaxBytes:  int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10*1024*1024)),
			StatusTTL: getEnvAsDuration("UPLOAD_STATUS_TTL", 3*time.Second),
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute:  getEnvAsInt("RATE_LIMIT_LOGIN_PER_MINUTE", 5),
			UploadPerMinute: getEnvAsInt("RATE_LIMIT_UPLOAD_PER_MINUTE", 10),
		},
		Frontend: FrontendConfig{
			AllowedOrigins: getEnvAsList("FRONTEND_ORIGINS", []string{"http://localhost:3000"}),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
	}

	if config.Catalog.Origin == "" {
		config.Catalog.Origin = originOf(config.Catalog.BaseURL)
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("CATALOG_API_URL is required")
	}

	if c.Session.SecretKey == defaultSessionSecret && c.Environment == "production" {
		return fmt.Errorf("session secret must be changed in production")
	}

	if c.Database.Enabled && c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	return nil
}

// originOf strips the path from a URL: "https://host/api" -> "https://host".
func originOf(rawURL string) string {
	scheme := ""
	rest := rawURL
	if i := strings.Index(rawURL, "://"); i >= 0 {
		scheme = rawURL[:i+3]
		rest = rawURL[i+3:]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	return scheme + rest
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
