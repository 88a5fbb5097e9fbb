package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/newsroom-cms/api/internal/apperr"
	"github.com/newsroom-cms/api/internal/config"
	"github.com/newsroom-cms/api/internal/models"
	"github.com/newsroom-cms/api/internal/policy"
)

func newManager() *TokenManager {
	return NewTokenManager(config.JWTConfig{Secret: "test-secret", ExpiresIn: time.Hour, Issuer: "newsroom-cms"})
}

func TestSignAndAuthenticate(t *testing.T) {
	m := newManager()
	actor := policy.Actor{UserID: 7, Role: models.RoleWriter}

	token, err := m.Sign(actor)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	got, err := m.Authenticate("Bearer " + token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got != actor {
		t.Errorf("Expected %+v, got %+v", actor, got)
	}
}

func TestAuthenticateRejects(t *testing.T) {
	m := newManager()
	valid, _ := m.Sign(policy.Actor{UserID: 1, Role: models.RoleAdmin})

	expired, _ := m.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }).
		Sign(policy.Actor{UserID: 1, Role: models.RoleAdmin})

	otherSecret, _ := NewTokenManager(config.JWTConfig{Secret: "other", ExpiresIn: time.Hour, Issuer: "newsroom-cms"}).
		Sign(policy.Actor{UserID: 1, Role: models.RoleAdmin})

	badRole, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 1,
		Role:   "EDITOR",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "newsroom-cms",
		},
	}).SignedString([]byte("test-secret"))

	noUser, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    "newsroom-cms",
		},
	}).SignedString([]byte("test-secret"))

	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1, Role: models.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic " + valid},
		{"no token", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
		{"expired", "Bearer " + expired},
		{"wrong secret", "Bearer " + otherSecret},
		{"unknown role", "Bearer " + badRole},
		{"missing user id", "Bearer " + noUser},
		{"alg none", "Bearer " + unsigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Authenticate(tt.header)
			if !apperr.Is(err, apperr.KindUnauthenticated) {
				t.Errorf("Expected unauthenticated error, got %v", err)
			}
		})
	}
}

func TestAuthenticateWithoutSecret(t *testing.T) {
	m := NewTokenManager(config.JWTConfig{ExpiresIn: time.Hour})

	if _, err := m.Sign(policy.Actor{UserID: 1, Role: models.RoleAdmin}); err != ErrNoSecret {
		t.Errorf("Expected ErrNoSecret, got %v", err)
	}
	if _, err := m.Authenticate("Bearer abc"); !apperr.Is(err, apperr.KindUnauthenticated) {
		t.Errorf("Expected unauthenticated error, got %v", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if strings.Contains(hash, "password") {
		t.Error("Hash must not contain the plain password")
	}
	if !CheckPassword(hash, "password") {
		t.Error("Expected password to match")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("Expected wrong password to fail")
	}
}

func TestActorContext(t *testing.T) {
	ctx := context.Background()
	if _, ok := ActorFrom(ctx); ok {
		t.Fatal("Expected no actor in empty context")
	}

	actor := policy.Actor{UserID: 3, Role: models.RoleWriter}
	got, ok := ActorFrom(WithActor(ctx, actor))
	if !ok || got != actor {
		t.Errorf("Expected %+v, got %+v (ok=%v)", actor, got, ok)
	}
}
