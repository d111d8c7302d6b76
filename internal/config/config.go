package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Backend  BackendConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Auth     AuthConfig
	Payments PaymentsConfig
}

type AppConfig struct {
	Environment string
	LogLevel    string
}

type ServerConfig struct {
	Addr            string
	CertFile        string
	KeyFile         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	MaxBodyBytes    int64
	SecureCookies   bool
	StrictSecurity  bool
	RateLimitPerSec float64
	RateLimitBurst  int
	LoginAttempts   int
	LoginWindow     time.Duration
}

type BackendConfig struct {
	BaseURL        string
	Timeout        time.Duration
	ConfirmTimeout time.Duration
}

// RedisConfig mirrors the two connection styles: a full URL, or split fields.
type RedisConfig struct {
	URL      string
	Addr     string
	User     string
	Password string
	TLS      bool
}

func (c RedisConfig) Enabled() bool { return c.URL != "" || c.Addr != "" }

type DatabaseConfig struct {
	URL                string
	AuditRetentionDays int
	RetentionAt        string
	RetentionTZ        string
}

type StorageConfig struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

func (c StorageConfig) Enabled() bool { return c.Bucket != "" && c.Endpoint != "" }

// AuthConfig: an empty JWTSecret keeps the guard in trust-on-read mode.
type AuthConfig struct {
	JWTSecret string
	ClockSkew time.Duration
	CookieTTL time.Duration
}

type PaymentsConfig struct {
	PublishableKey string
	ClientURL      string
}

// Load reads envFile (when present) into the process environment and then
// builds the config from environment variables. Existing variables win.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, err
		}
	}

	cfg := &Config{
		App: AppConfig{
			Environment: getenv("APP_ENV", "development"),
			LogLevel:    getenv("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Addr:            getenv("HTTP_ADDR", ":3000"),
			CertFile:        os.Getenv("TLS_CERT_FILE"),
			KeyFile:         os.Getenv("TLS_KEY_FILE"),
			ReadTimeout:     envDur("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    envDur("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     envDur("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: envDur("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  envList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
			MaxBodyBytes:    int64(envInt("MAX_BODY_SIZE", 10*1024*1024)),
			SecureCookies:   envBool("COOKIE_SECURE", false),
			StrictSecurity:  envBool("STRICT_SECURITY", false),
			RateLimitPerSec: envFloat("RATE_LIMIT_PER_SEC", 10),
			RateLimitBurst:  envInt("RATE_LIMIT_BURST", 40),
			LoginAttempts:   envInt("LOGIN_MAX_ATTEMPTS", 10),
			LoginWindow:     envDur("LOGIN_WINDOW", 5*time.Minute),
		},
		Backend: BackendConfig{
			BaseURL:        strings.TrimRight(getenv("BACKEND_BASE_URL", "https://oku-kg.onrender.com/api"), "/"),
			Timeout:        envDur("BACKEND_TIMEOUT", 15*time.Second),
			ConfirmTimeout: envDur("PAYMENT_CONFIRM_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL:      firstEnv("UPSTASH_REDIS_URL", "REDIS_URL"),
			Addr:     os.Getenv("REDIS_ADDR"),
			User:     os.Getenv("REDIS_USER"),
			Password: os.Getenv("REDIS_PASSWORD"),
			TLS:      envBool("REDIS_TLS", true),
		},
		Database: DatabaseConfig{
			URL:                os.Getenv("DATABASE_URL"),
			AuditRetentionDays: envInt("AUDIT_RETENTION_DAYS", 90),
			RetentionAt:        getenv("AUDIT_RETENTION_AT", "03:00"),
			RetentionTZ:        getenv("AUDIT_RETENTION_TZ", "Asia/Bishkek"),
		},
		Storage: StorageConfig{
			Endpoint:        os.Getenv("AWS_ENDPOINT"),
			Region:          getenv("AWS_REGION", "auto"),
			Bucket:          os.Getenv("AWS_BUCKET"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
			PublicBaseURL:   strings.TrimRight(os.Getenv("COVER_PUBLIC_BASE_URL"), "/"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
			ClockSkew: time.Duration(envInt("AUTH_CLOCK_SKEW_SEC", 60)) * time.Second,
			CookieTTL: envDur("AUTH_COOKIE_TTL", 7*24*time.Hour),
		},
		Payments: PaymentsConfig{
			PublishableKey: os.Getenv("STRIPE_PUBLISHABLE_KEY"),
			ClientURL:      strings.TrimRight(getenv("CLIENT_URL", "http://localhost:3000"), "/"),
		},
	}
	return cfg, nil
}

func (c *Config) Production() bool {
	return strings.EqualFold(c.App.Environment, "production")
}
