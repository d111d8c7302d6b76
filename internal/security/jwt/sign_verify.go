package jwtutil

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var hmacMethods = []string{"HS256", "HS384", "HS512"}

type Verifier struct {
	cfg    Config
	parser *jwt.Parser
}

// NewVerifier returns nil when cfg has no secret; callers then trust the
// role cookie as-is.
func NewVerifier(cfg Config) *Verifier {
	if !cfg.Enabled() {
		return nil
	}
	return &Verifier{
		cfg:    cfg,
		parser: jwt.NewParser(jwt.WithLeeway(cfg.ClockSkew), jwt.WithValidMethods(hmacMethods), jwt.WithExpirationRequired()),
	}
}

// Parse verifies the HMAC signature and expiry, returning claims.
func (v *Verifier) Parse(tokenStr string) (*Claims, error) {
	token, err := v.parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return v.cfg.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Sign issues an HS256 token. The backend issues real tokens; this one is
// for local tooling and tests.
func Sign(cfg Config, claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
}
