package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/homio-app/homio-backend/pkg/config"
)

func testJWTConfig(minutes int) config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "homio",
		ExpirationMinutes: minutes,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig(30)
	now := time.Now().UTC()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{UserID: userID, JTI: "session-1"})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.ID != "session-1" {
		t.Fatalf("expected jti session-1, got %q", claims.ID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(30 * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v", exp, claims.ExpiresAt.UTC())
	}
}

func TestMintAccessTokenGeneratesJTI(t *testing.T) {
	cfg := testJWTConfig(5)
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		t.Fatalf("expected uuid jti, got %q", claims.ID)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig(10)
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}

	other := cfg
	other.Secret = "another"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected error for a different secret")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig(15)
	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	_, err = ParseAccessToken(cfg, token)
	if err == nil || !strings.Contains(err.Error(), "expired") {
		t.Fatalf("expected expiration error, got %v", err)
	}

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("expected expired token to parse for logout: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected jti on expired token")
	}
}

func TestMintAccessTokenRequiresUser(t *testing.T) {
	if _, err := MintAccessToken(testJWTConfig(5), time.Now(), AccessTokenPayload{}); err == nil {
		t.Fatal("expected missing user error")
	}
	if _, err := MintAccessToken(config.JWTConfig{Issuer: "homio", ExpirationMinutes: 5}, time.Now(), AccessTokenPayload{UserID: uuid.New()}); err == nil {
		t.Fatal("expected missing secret error")
	}
}
