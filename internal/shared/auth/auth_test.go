package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signHS256(t *testing.T, secret string, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestJWTValidatorAcceptsHS256(t *testing.T) {
	validator := NewJWTValidator("secret", "")
	token := signHS256(t, "secret", jwt.RegisteredClaims{
		Subject:   "user-7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})

	claims, err := validator.Validate(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID() != "user-7" {
		t.Fatalf("expected subject user-7, got %s", claims.UserID())
	}
	if claims.SessionID != "user-7" {
		t.Fatalf("expected session id to fall back to subject, got %s", claims.SessionID)
	}
}

func TestJWTValidatorRejects(t *testing.T) {
	validator := NewJWTValidator("secret", "")
	expired := signHS256(t, "secret", jwt.RegisteredClaims{
		Subject:   "user-7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	wrongKey := signHS256(t, "other", jwt.RegisteredClaims{Subject: "user-7"})
	noSubject := signHS256(t, "secret", jwt.RegisteredClaims{ID: "abc"})

	for name, token := range map[string]string{"expired": expired, "wrongKey": wrongKey, "noSubject": noSubject} {
		if _, err := validator.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
	if _, err := validator.Validate(" "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := NewJWTValidator("", "").Validate(expired); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected unconfigured validator to reject, got %v", err)
	}
}

func TestExtractors(t *testing.T) {
	if got := ExtractBearerTokenFromHeader("bearer abc "); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	if got := ExtractBearerTokenFromHeader("Basic abc"); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}

	req := httptest.NewRequest("GET", "/ws/storefront?token=q-token&session=q-session", nil)
	if got := ExtractToken(req, ""); got != "q-token" {
		t.Fatalf("expected query token, got %q", got)
	}
	if got := ExtractSessionID(req); got != "q-session" {
		t.Fatalf("expected query session, got %q", got)
	}
	req.Header.Set("Authorization", "Bearer h-token")
	req.Header.Set(SessionHeader, "h-session")
	if got := ExtractToken(req, ""); got != "h-token" {
		t.Fatalf("expected header token, got %q", got)
	}
	if got := ExtractSessionID(req); got != "h-session" {
		t.Fatalf("expected header session, got %q", got)
	}
}
