package auth

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roloapp/rolo-server/internal/domain"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := VerifyPassword(hash, "correct horse battery staple")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("expected password to verify")
	}

	ok, err = VerifyPassword(hash, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("expected wrong password to fail")
	}
}

func TestHashPassword_Empty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	ok, err := VerifyPassword("not-a-hash", "whatever")
	if err != nil {
		t.Fatalf("VerifyPassword should not surface parse errors: %v", err)
	}
	if ok {
		t.Error("malformed hash must not verify")
	}
}

func TestLoadOrGenerateKey_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	key1, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey: %v", err)
	}
	if len(key1) != keyLength {
		t.Fatalf("expected %d-byte key, got %d", keyLength, len(key1))
	}

	// Second call loads the same key.
	key2, err := LoadOrGenerateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrGenerateKey (reload): %v", err)
	}
	if string(key1) != string(key2) {
		t.Error("expected reload to return the same key")
	}

	if _, err := filepath.Glob(filepath.Join(dir, "auth.key")); err != nil {
		t.Errorf("auth.key not written: %v", err)
	}
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	key, err := LoadOrGenerateKey(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOrGenerateKey: %v", err)
	}
	svc, err := NewTokenService(key, 15*time.Minute, 720*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestAccessToken_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t)
	user := &domain.User{ID: "usr-1", Email: "ada@example.com"}

	token, err := svc.GenerateAccessToken(user)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := svc.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != "usr-1" {
		t.Errorf("UserID: got %q, want %q", claims.UserID, "usr-1")
	}
	if claims.Email != "ada@example.com" {
		t.Errorf("Email: got %q, want %q", claims.Email, "ada@example.com")
	}
}

func TestVerifyAccessToken_Garbage(t *testing.T) {
	svc := newTestTokenService(t)
	if _, err := svc.VerifyAccessToken("v4.local.garbage"); err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestRefreshToken_HashIsStable(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if HashRefreshToken(token) != HashRefreshToken(token) {
		t.Error("hashing the same token must be deterministic")
	}

	other, err := svc.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	if HashRefreshToken(token) == HashRefreshToken(other) {
		t.Error("different tokens must hash differently")
	}
}
