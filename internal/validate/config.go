package validate

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/5w1tchy/oku-storefront/internal/config"
	"github.com/redis/go-redis/v9"
)

// Env validates the loaded configuration.
// Fail-fast on bad config.
func Env(cfg *config.Config) error {
	u, err := url.Parse(cfg.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("BACKEND_BASE_URL must be an absolute http(s) URL, got %q", cfg.Backend.BaseURL)
	}
	if _, err := url.Parse(cfg.Payments.ClientURL); err != nil || cfg.Payments.ClientURL == "" {
		return fmt.Errorf("CLIENT_URL: invalid %q", cfg.Payments.ClientURL)
	}

	durations := map[string]time.Duration{
		"BACKEND_TIMEOUT":         cfg.Backend.Timeout,
		"PAYMENT_CONFIRM_TIMEOUT": cfg.Backend.ConfirmTimeout,
		"HTTP_READ_TIMEOUT":       cfg.Server.ReadTimeout,
		"HTTP_WRITE_TIMEOUT":      cfg.Server.WriteTimeout,
		"HTTP_SHUTDOWN_TIMEOUT":   cfg.Server.ShutdownTimeout,
		"AUTH_COOKIE_TTL":         cfg.Auth.CookieTTL,
		"LOGIN_WINDOW":            cfg.Server.LoginWindow,
	}
	for k, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0", k)
		}
	}

	// Verified mode needs a real secret
	if s := cfg.Auth.JWTSecret; s != "" && len(s) < 32 {
		return errors.New("AUTH_JWT_SECRET must be at least 32 characters when set")
	}
	if cfg.Server.RateLimitPerSec <= 0 || cfg.Server.RateLimitBurst < 1 {
		return errors.New("RATE_LIMIT_PER_SEC and RATE_LIMIT_BURST must be positive")
	}
	if cfg.Database.AuditRetentionDays < 1 {
		return errors.New("AUDIT_RETENTION_DAYS must be >= 1")
	}
	if _, _, err := ParseClock(cfg.Database.RetentionAt); err != nil {
		return fmt.Errorf("AUDIT_RETENTION_AT: %w", err)
	}
	if (cfg.Server.CertFile == "") != (cfg.Server.KeyFile == "") {
		return errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	return nil
}

// HardeningWarnings returns non-fatal warnings you may want to log on startup.
func HardeningWarnings(cfg *config.Config) []string {
	var warns []string

	if cfg.Auth.JWTSecret == "" {
		warns = append(warns, "AUTH_JWT_SECRET not set; route guard trusts the role cookie as-is")
	}
	if cfg.Backend.ConfirmTimeout > cfg.Backend.Timeout {
		warns = append(warns, fmt.Sprintf("PAYMENT_CONFIRM_TIMEOUT=%s exceeds BACKEND_TIMEOUT=%s; the client timeout wins",
			cfg.Backend.ConfirmTimeout, cfg.Backend.Timeout))
	}

	// Production-specific nudges
	if cfg.Production() {
		if strings.HasPrefix(cfg.Backend.BaseURL, "http://") {
			warns = append(warns, "BACKEND_BASE_URL uses plain http; bearer tokens travel unencrypted")
		}
		if !cfg.Server.SecureCookies {
			warns = append(warns, "COOKIE_SECURE is off; session cookies will be sent over http")
		}
		if !cfg.Redis.Enabled() {
			warns = append(warns, "no Redis configured; rate limits are per-process and caching is disabled")
		}
		if u := cfg.Redis.URL; u != "" && strings.HasPrefix(u, "redis://") {
			warns = append(warns, "redis URL uses redis:// (no TLS). Prefer rediss:// for TLS")
		}
		if cfg.Redis.URL == "" && cfg.Redis.Addr != "" {
			if cfg.Redis.Password == "" || cfg.Redis.User == "" {
				warns = append(warns, "REDIS_ADDR provided without REDIS_USER/REDIS_PASSWORD; require auth in production")
			}
		}
		if cfg.Database.URL == "" {
			warns = append(warns, "DATABASE_URL not set; payment confirmations and audit events live in memory only")
		}
		if cfg.Payments.PublishableKey == "" {
			warns = append(warns, "STRIPE_PUBLISHABLE_KEY not set; checkout cannot redirect to the payment page")
		}
	}

	return warns
}

// PingRedis checks connectivity with a short timeout.
func PingRedis(rdb *redis.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	_, err := rdb.Ping(ctx).Result()
	return err
}
