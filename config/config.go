package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "change-me-in-production"

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

type Config struct {
	Port string

	StoreDriver    string
	MongoURI       string
	DBName         string
	DatabaseURL    string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnMaxLife  time.Duration

	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool
	CORSOrigin   string

	S3Bucket      string
	S3Region      string
	S3AccessKeyID string
	S3SecretKey   string
	MaxUploadMB   int64

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	SnowflakeNode int64
	StaticDir     string

	LogLevel      string
	LogDev        bool
	LogFile       string
	LogMaxAgeDays int
}

func Load() (*Config, error) {
	ttl, err := time.ParseDuration(getEnv("SESSION_TTL", "720h"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_TTL: %w", err)
	}
	connLife, err := time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "30m"))
	if err != nil {
		return nil, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
	}
	logDev := getEnv("LOG_DEV", "") == "1"
	logLevel := getEnv("LOG_LEVEL", "")
	if logLevel == "" {
		logLevel = "info"
		if logDev {
			logLevel = "debug"
		}
	}

	return &Config{
		Port:           getEnv("PORT", "8080"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		MongoURI:       getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		DBName:         getEnv("MONGODB_DB", "compro"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLife:  connLife,
		JWTSecret:      getEnv("JWT_SECRET", defaultJWTSecret),
		SessionTTL:     ttl,
		CookieSecure:   getEnvBool("COOKIE_SECURE", false),
		CORSOrigin:     getEnv("CORS_ORIGIN", "*"),
		S3Bucket:       getEnv("AWS_S3_BUCKET", ""),
		S3Region:       getEnv("AWS_REGION", "us-east-1"),
		S3AccessKeyID:  getEnv("AWS_ACCESS_KEY_ID", ""),
		S3SecretKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
		MaxUploadMB:    int64(getEnvInt("MAX_UPLOAD_MB", 10)),
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPUsername:   getEnv("SMTP_USERNAME", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:       getEnv("SMTP_FROM", ""),
		SnowflakeNode:  int64(getEnvInt("SNOWFLAKE_NODE", 1)),
		StaticDir:      getEnv("STATIC_DIR", ""),
		LogLevel:       logLevel,
		LogDev:         logDev,
		LogFile:        getEnv("LOG_FILE", ""),
		LogMaxAgeDays:  getEnvInt("LOG_MAX_AGE_DAYS", 7),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil && n > 0 {
		return n
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return fallback
}

// Validate checks the settings the selected store driver needs and rejects the placeholder secret.
func (c *Config) Validate() error {
	var missing []string
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			missing = append(missing, "MONGODB_URI")
		}
		if c.DBName == "" {
			missing = append(missing, "MONGODB_DB")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (use %s or %s)", c.StoreDriver, DriverMongo, DriverPostgres)
	}
	if c.SMTPHost != "" && c.SMTPFrom == "" {
		missing = append(missing, "SMTP_FROM")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env: %s (set these in .env or environment)", strings.Join(missing, ", "))
	}
	if c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < 16 {
		return errors.New("JWT_SECRET must be set to a strong secret of at least 16 characters")
	}
	return nil
}

// Summary lists non-secret settings for the startup log.
func (c *Config) Summary() []interface{} {
	return []interface{}{
		"port", c.Port,
		"store", c.StoreDriver,
		"s3", c.S3Bucket != "",
		"smtp", c.SMTPHost != "",
		"static_dir", c.StaticDir,
		"session_ttl", c.SessionTTL.String(),
	}
}
