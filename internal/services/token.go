package services

import (
	"strconv"
	"time"

	"github.com/ahmetcoskunkizilkaya/bloodbank-backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer signs HS256 access tokens. A nil issuer issues nothing.
type TokenIssuer struct {
	secret []byte
	expiry time.Duration
}

// NewTokenIssuer returns nil when secret is empty.
func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	if secret == "" {
		return nil
	}
	return &TokenIssuer{secret: []byte(secret), expiry: expiry}
}

func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	if t == nil {
		return "", nil
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(user.ID), 10),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   now.Unix(),
		"exp":   now.Add(t.expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}
