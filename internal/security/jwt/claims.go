package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the part of the backend token the storefront reads.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func NewClaims(subject, role string, ttl time.Duration) Claims {
	now := time.Now()
	return Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}
