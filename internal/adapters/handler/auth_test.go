package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DanielPopoola/coursepay/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_IssueAndParse(t *testing.T) {
	auth := NewAuthenticator(config.AuthConfig{JWTSecret: "test-secret-0123456789", Issuer: "coursepay"}, testLogger())

	token, err := auth.Issue(Principal{UserID: "user-1", Email: "ada@example.com", Role: RoleAdmin}, time.Minute)
	require.NoError(t, err)

	p, err := auth.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.True(t, p.IsAdmin())
}

func TestAuthenticator_Rejects(t *testing.T) {
	auth := NewAuthenticator(config.AuthConfig{JWTSecret: "test-secret-0123456789", Issuer: "coursepay"}, testLogger())
	other := NewAuthenticator(config.AuthConfig{JWTSecret: "another-secret-987654", Issuer: "coursepay"}, testLogger())
	foreign := NewAuthenticator(config.AuthConfig{JWTSecret: "test-secret-0123456789", Issuer: "elsewhere"}, testLogger())

	expired, err := auth.Issue(Principal{UserID: "user-1"}, -time.Minute)
	require.NoError(t, err)
	wrongKey, err := other.Issue(Principal{UserID: "user-1"}, time.Minute)
	require.NoError(t, err)
	wrongIssuer, err := foreign.Issue(Principal{UserID: "user-1"}, time.Minute)
	require.NoError(t, err)
	noSubject, err := auth.Issue(Principal{}, time.Minute)
	require.NoError(t, err)
	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "coursepay",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}).SignedString([]byte("test-secret-0123456789"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong key":    wrongKey,
		"wrong issuer": wrongIssuer,
		"no subject":   noSubject,
		"hs512":        hs512,
		"garbage":      "not.a.jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.Parse(token)
			assert.Error(t, err)
		})
	}
}

func TestAuthenticator_Require(t *testing.T) {
	auth := NewAuthenticator(config.AuthConfig{JWTSecret: "test-secret-0123456789"}, testLogger())
	var got Principal
	protected := auth.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = PrincipalFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	protected.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rr = httptest.NewRecorder()
	protected.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	token, err := auth.Issue(Principal{UserID: "user-7", Role: "student"}, time.Minute)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	protected.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "user-7", got.UserID)
}
