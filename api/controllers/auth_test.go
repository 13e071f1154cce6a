package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homio-app/homio-backend/api/middleware"
	"github.com/homio-app/homio-backend/internal/auth"
	"github.com/homio-app/homio-backend/internal/users"
	pkgAuth "github.com/homio-app/homio-backend/pkg/auth"
	"github.com/homio-app/homio-backend/pkg/config"
	pkgerrors "github.com/homio-app/homio-backend/pkg/errors"
)

var testJWT = config.JWTConfig{Secret: "secret", Issuer: "homio-test", ExpirationMinutes: 60}

type stubAuthService struct {
	signupReq  auth.SignupRequest
	loginReq   auth.LoginRequest
	loggedOut  string
	loginResp  *auth.LoginResponse
	err        error
	signupResp *users.ProfileDTO
}

func (s *stubAuthService) Signup(ctx context.Context, req auth.SignupRequest) (*users.ProfileDTO, error) {
	s.signupReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.signupResp, nil
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.loginReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.loginResp, nil
}

func (s *stubAuthService) Logout(ctx context.Context, accessID string) error {
	s.loggedOut = accessID
	return s.err
}

func TestAuthSignupCreatesAccount(t *testing.T) {
	svc := &stubAuthService{signupResp: &users.ProfileDTO{Email: "ada@example.com"}}
	body := `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","password":"Str0ng!Passw0rd"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthSignup(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "ada@example.com", svc.signupReq.Email)
	assert.Contains(t, resp.Body.String(), `"email":"ada@example.com"`)
	assert.NotContains(t, resp.Body.String(), "password")
}

func TestAuthSignupRejectsInvalidBody(t *testing.T) {
	svc := &stubAuthService{}
	body := `{"first_name":"A","last_name":"L","email":"not-an-email","password":"x"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthSignup(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Empty(t, svc.signupReq.Email)
}

func TestAuthSignupConflict(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeConflict, "email already registered")}
	body := `{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","password":"Str0ng!Passw0rd"}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthSignup(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "email already registered")
}

func TestAuthLoginSetsTokenCookie(t *testing.T) {
	expires := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	svc := &stubAuthService{loginResp: &auth.LoginResponse{AccessToken: "tok", ExpiresAt: expires}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"ada@example.com","password":"whatever"}`))
	resp := httptest.NewRecorder()
	AuthLogin(svc, CookieOptions{Secure: true}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	cookies := resp.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookieName, cookies[0].Name)
	assert.Equal(t, "tok", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
	assert.Contains(t, resp.Body.String(), `"access_token":"tok"`)
}

func TestAuthLoginInvalidCredentials(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"ada@example.com","password":"nope"}`))
	resp := httptest.NewRecorder()
	AuthLogin(svc, CookieOptions{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Empty(t, resp.Result().Cookies())
}

func TestAuthLogoutRevokesSessionAndClearsCookie(t *testing.T) {
	svc := &stubAuthService{}
	accessID := uuid.NewString()
	token, err := pkgAuth.MintAccessToken(testJWT, time.Now(), pkgAuth.AccessTokenPayload{UserID: uuid.New(), JTI: accessID})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookieName, Value: token})
	resp := httptest.NewRecorder()
	AuthLogout(svc, testJWT, CookieOptions{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, accessID, svc.loggedOut)
	cookies := resp.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestAuthLogoutAcceptsExpiredToken(t *testing.T) {
	svc := &stubAuthService{}
	accessID := uuid.NewString()
	token, err := pkgAuth.MintAccessToken(testJWT, time.Now().Add(-3*time.Hour), pkgAuth.AccessTokenPayload{UserID: uuid.New(), JTI: accessID})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	AuthLogout(svc, testJWT, CookieOptions{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, accessID, svc.loggedOut)
}

func TestAuthLogoutRequiresToken(t *testing.T) {
	svc := &stubAuthService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	resp := httptest.NewRecorder()
	AuthLogout(svc, testJWT, CookieOptions{}, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Empty(t, svc.loggedOut)
}
