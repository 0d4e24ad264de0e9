package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultMigrationsPath is the golang-migrate source used when
// MIGRATIONS_PATH is unset.
const DefaultMigrationsPath = "file://migrations"

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MigrationsPath string

	// Hosted Postgres convenience:
	// - DATABASE_URL: runtime connection (often a pooler)
	// - DIRECT_URL: direct connection for migrations
	DatabaseURL string
	DirectURL   string

	// PublicBaseURL is the externally reachable URL of webhookd, used when
	// registering webhook subscriptions with Printify.
	// Example: https://your-subdomain.ngrok-free.app
	PublicBaseURL string

	// AdminToken guards the read endpoints (/v1/events, /v1/orders). Empty
	// disables the check; never leave it empty in production.
	AdminToken string

	// AllowedOrigins is a comma-separated allowlist of dashboard origins allowed
	// to call the read endpoints. Example:
	//   https://ops.yourapp.com,http://localhost:5173
	AllowedOrigins []string

	DB DBConfig

	Printify PrintifyConfig

	S3 S3Config
}

type DBConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
}

type PrintifyConfig struct {
	APIToken string
	ShopID   string
	BaseURL  string

	// RateLimit is requests per minute; 0 disables client-side throttling.
	RateLimit int
	RateBurst int

	WebhookSecret string
	// WebhookTopics are subscribed on startup when PublicBaseURL is set.
	WebhookTopics []string
}

// S3Config points at any S3 compatible store (AWS, MinIO, R2).
type S3Config struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Region     string
	UseSSL     bool
	PresignTTL time.Duration
}

func Load() Config {
	// Convenience for local dev: load variables from .env if present.
	// In production, rely on real environment variables.
	_ = godotenv.Load()

	// Cloud Run sets PORT. Prefer it when HTTP_ADDR isn't explicitly set.
	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		if port := os.Getenv("PORT"); port != "" {
			httpAddr = ":" + port
		} else {
			httpAddr = ":8081"
		}
	}

	return Config{
		AppEnv:         env("APP_ENV", "dev"),
		LogLevel:       env("LOG_LEVEL", "info"),
		HTTPAddr:       httpAddr,
		MigrationsPath: env("MIGRATIONS_PATH", DefaultMigrationsPath),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DirectURL:      os.Getenv("DIRECT_URL"),
		PublicBaseURL:  strings.TrimSuffix(os.Getenv("PUBLIC_BASE_URL"), "/"),
		AdminToken:     os.Getenv("ADMIN_TOKEN"),
		AllowedOrigins: envList("ALLOWED_ORIGINS", "http://localhost:5173"),
		DB: DBConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			Name:     env("DB_NAME", "printify"),
			User:     env("DB_USER", "printify"),
			Password: env("DB_PASSWORD", "printify"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Printify: PrintifyConfig{
			APIToken:      os.Getenv("PRINTIFY_API_TOKEN"),
			ShopID:        os.Getenv("PRINTIFY_SHOP_ID"),
			BaseURL:       env("PRINTIFY_BASE_URL", "https://api.printify.com"),
			RateLimit:     envInt("PRINTIFY_RATE_LIMIT", 0),
			RateBurst:     envInt("PRINTIFY_RATE_BURST", 10),
			WebhookSecret: os.Getenv("PRINTIFY_WEBHOOK_SECRET"),
			WebhookTopics: envList("PRINTIFY_WEBHOOK_TOPICS", ""),
		},
		S3: S3Config{
			Endpoint:   os.Getenv("S3_ENDPOINT"),
			AccessKey:  os.Getenv("S3_ACCESS_KEY"),
			SecretKey:  os.Getenv("S3_SECRET_KEY"),
			Region:     env("S3_REGION", "us-east-1"),
			UseSSL:     envBool("S3_USE_SSL", true),
			PresignTTL: envDuration("S3_PRESIGN_TTL", time.Hour),
		},
	}
}

func env(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envList(key, fallbackCSV string) []string {
	v := os.Getenv(key)
	if v == "" {
		v = fallbackCSV
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
