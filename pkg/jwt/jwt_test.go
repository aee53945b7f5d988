package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestManager_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Minute)

	token, err := m.GenerateToken("admin", "admin", "v1")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != "admin" || claims.Role != "admin" || claims.TokenVersion != "v1" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager("secret", time.Minute)
	token, _ := m.GenerateToken("admin", "admin", "v1")

	if _, err := NewManager("other", time.Minute).ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected wrong secret to fail, got %v", err)
	}
	if _, err := m.ValidateToken(""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}

	expired := NewManager("secret", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-time.Hour) }
	old, _ := expired.GenerateToken("admin", "admin", "v1")
	if _, err := m.ValidateToken(old); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected expired token to fail, got %v", err)
	}
}
