package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Auth modes.
const (
	AuthModeCognito = "cognito"
	AuthModeLocal   = "local"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	AWS      AWSConfig
	Platform PlatformConfig
	Jobs     JobsConfig
	LogLevel string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	GinMode            string
	ReadTimeout        int
	WriteTimeout       int
	ShutdownTimeout    time.Duration
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// AuthConfig selects how bearer tokens are verified.
// In cognito mode tokens are checked against the user pool JWKS; in local mode
// the server issues and validates its own HS256 tokens.
type AuthConfig struct {
	Mode             string
	UserPoolID       string
	CognitoRegion    string
	LocalSecret      string
	LocalExpireHours int

	// AllowLocalInRelease permits local mode under GIN_MODE=release. Local
	// registration trusts the submitted email attribute.
	AllowLocalInRelease bool
}

// AWSConfig holds AWS credentials, the uploads bucket and the outbound mail queue.
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // optional override, e.g. localstack
	UploadsBucket   string
	CDNDomain       string
	MailQueueURL    string
}

// PlatformConfig is rendered into outbound emails.
type PlatformConfig struct {
	Name string
	Link string
}

// JobsConfig holds background job settings for cmd/worker.
type JobsConfig struct {
	TenderStatusInterval time.Duration
	Concurrency          int
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (DATABASE_URL), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Region returns the Cognito region, derived from the pool id prefix when not set explicitly.
func (c AuthConfig) Region() string {
	if c.CognitoRegion != "" {
		return c.CognitoRegion
	}
	if i := strings.Index(c.UserPoolID, "_"); i > 0 {
		return c.UserPoolID[:i]
	}
	return ""
}

// Issuer returns the user pool issuer URL.
func (c AuthConfig) Issuer() string {
	return fmt.Sprintf("https://cognito-idp.%s.amazonaws.com/%s", c.Region(), c.UserPoolID)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			GinMode:            getEnv("GIN_MODE", "release"),
			ReadTimeout:        getEnvInt("READ_TIMEOUT_SEC", 30),
			WriteTimeout:       getEnvInt("WRITE_TIMEOUT_SEC", 60),
			ShutdownTimeout:    getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "artograd"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			Mode:             strings.ToLower(getEnv("AUTH_MODE", AuthModeCognito)),
			UserPoolID:       getEnv("COGNITO_USER_POOL_ID", ""),
			CognitoRegion:    getEnv("COGNITO_REGION", ""),
			LocalSecret:      getEnv("LOCAL_JWT_SECRET", "change-me-in-production"),
			LocalExpireHours: getEnvInt("LOCAL_JWT_EXPIRE_HOURS", 24),

			AllowLocalInRelease: getEnvBool("LOCAL_AUTH_IN_RELEASE", false),
		},
		AWS: AWSConfig{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			Endpoint:        getEnv("AWS_ENDPOINT", ""),
			UploadsBucket:   getEnv("S3_UPLOADS_BUCKET", "artograd-uploads"),
			CDNDomain:       getEnv("CDN_DOMAIN", ""),
			MailQueueURL:    getEnv("SQS_MAIL_QUEUE_URL", ""),
		},
		Platform: PlatformConfig{
			Name: getEnv("PLATFORM_NAME", "Artograd"),
			Link: getEnv("PLATFORM_LINK", "https://artograd.com"),
		},
		Jobs: JobsConfig{
			TenderStatusInterval: getEnvDuration("TENDER_STATUS_INTERVAL", time.Hour),
			Concurrency:          getEnvInt("WORKER_CONCURRENCY", 2),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	switch cfg.Auth.Mode {
	case AuthModeCognito:
		if cfg.Auth.UserPoolID == "" {
			return nil, fmt.Errorf("COGNITO_USER_POOL_ID is required when AUTH_MODE=%s", AuthModeCognito)
		}
	case AuthModeLocal:
		if cfg.Server.GinMode == "release" && !cfg.Auth.AllowLocalInRelease {
			return nil, fmt.Errorf("AUTH_MODE=%s is for development; set GIN_MODE=debug or LOCAL_AUTH_IN_RELEASE=true", AuthModeLocal)
		}
	default:
		return nil, fmt.Errorf("unknown AUTH_MODE %q", cfg.Auth.Mode)
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
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

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
