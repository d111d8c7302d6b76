package jwtutil

import (
	"time"

	"github.com/5w1tchy/oku-storefront/internal/config"
)

type Config struct {
	Secret    []byte
	ClockSkew time.Duration
}

func ConfigFrom(a config.AuthConfig) Config {
	return Config{Secret: []byte(a.JWTSecret), ClockSkew: a.ClockSkew}
}

// Enabled reports whether tokens can be verified at all.
func (c Config) Enabled() bool { return len(c.Secret) > 0 }
