// Package auth issues and verifies bearer tokens, hashes passwords and
// carries the authenticated actor through a request context.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/newsroom-cms/api/internal/apperr"
	"github.com/newsroom-cms/api/internal/config"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/policy"
)

// ErrNoSecret is returned when no signing secret is configured
var ErrNoSecret = errors.New("jwt secret is not configured")

// Claims is the token payload
type Claims struct {
	UserID int64       `json:"userId"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 tokens
type TokenManager struct {
	secret    []byte
	expiresIn time.Duration
	issuer    string
	now       func() time.Time
}

// NewTokenManager creates a token manager from the JWT configuration
func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	return &TokenManager{
		secret:    []byte(cfg.Secret),
		expiresIn: cfg.ExpiresIn,
		issuer:    cfg.Issuer,
		now:       time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	c := *m
	c.now = now
	return &c
}

// Sign issues a token for actor
func (m *TokenManager) Sign(actor policy.Actor) (string, error) {
	if len(m.secret) == 0 {
		return "", ErrNoSecret
	}

	now := m.now()
	claims := Claims{
		UserID: actor.UserID,
		Role:   actor.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses tokenStr and returns the actor it identifies
func (m *TokenManager) Verify(tokenStr string) (policy.Actor, error) {
	if len(m.secret) == 0 {
		return policy.Actor{}, apperr.Unauthenticated("authentication unavailable")
	}
	if tokenStr == "" {
		return policy.Actor{}, apperr.Unauthenticated("token missing")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return policy.Actor{}, apperr.Unauthenticated("invalid or expired token")
	}

	if claims.UserID <= 0 || !models.ValidRoles[claims.Role] {
		return policy.Actor{}, apperr.Unauthenticated("invalid token payload")
	}

	return policy.Actor{UserID: claims.UserID, Role: claims.Role}, nil
}

// Authenticate extracts and verifies the bearer token of an Authorization header
func (m *TokenManager) Authenticate(header string) (policy.Actor, error) {
	if header == "" {
		return policy.Actor{}, apperr.Unauthenticated("authorization header missing")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return policy.Actor{}, apperr.Unauthenticated("authorization header must be Bearer <token>")
	}

	return m.Verify(strings.TrimSpace(parts[1]))
}
