package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/homio-app/homio-backend/pkg/auth"
	"github.com/homio-app/homio-backend/pkg/auth/session"
	"github.com/homio-app/homio-backend/pkg/config"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRejectsMissingToken(t *testing.T) {
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer invalid")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthAllowsValidBearerToken(t *testing.T) {
	userID := uuid.New()
	token, accessID := mintTestToken(t, testJWT, userID)

	var gotUser, gotAccess string
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotAccess = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotUser != userID.String() {
		t.Fatalf("expected user %s got %s", userID, gotUser)
	}
	if gotAccess != accessID {
		t.Fatalf("expected access id %s got %s", accessID, gotAccess)
	}
}

func TestAuthAcceptsTokenCookie(t *testing.T) {
	userID := uuid.New()
	token, _ := mintTestToken(t, testJWT, userID)

	var gotUser string
	handler := Auth(testJWT, stubSessionVerifier{ok: true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotUser != userID.String() {
		t.Fatalf("expected user from cookie token")
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token, _ := mintTestToken(t, testJWT, uuid.New())
	handler := Auth(testJWT, stubSessionVerifier{ok: false}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthSessionStoreDown(t *testing.T) {
	token, _ := mintTestToken(t, testJWT, uuid.New())
	handler := Auth(testJWT, stubSessionVerifier{err: errors.New("redis down")}, nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestTokenFromRequestPrefersHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "cookie-token"})
	if got := TokenFromRequest(req); got != "header-token" {
		t.Fatalf("expected header token, got %q", got)
	}
}

func mintTestToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID) (string, string) {
	t.Helper()
	accessID := session.NewAccessID()
	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{
		UserID: userID,
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, accessID
}

type stubSessionVerifier struct {
	ok  bool
	err error
}

func (s stubSessionVerifier) HasSession(ctx context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.ok, nil
}
