// Package utils issues admin bearer tokens for operators.  The service
// itself never logs users in; tokens are minted out of band with
// cmd/admintoken and verified by middleware.JWTAuth.
package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/festival-schedule/internal/middleware"
)

// AccessToken is a signed token with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time // UTC
}

// NewAccessToken signs an HS256 token for subject with role, valid for ttl.
// Only roles the admin routes accept are issued.
func NewAccessToken(secret, subject, role string, ttl time.Duration) (AccessToken, error) {
	if secret == "" {
		return AccessToken{}, errors.New("empty signing secret")
	}
	if role != middleware.RoleAdmin && role != middleware.RoleEditor {
		return AccessToken{}, fmt.Errorf("role %q cannot use admin routes", role)
	}
	if ttl <= 0 {
		return AccessToken{}, errors.New("token ttl must be positive")
	}

	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := middleware.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
