// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bravia-remote/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestPasswordService(t *testing.T) {
	ps := NewPasswordService()

	hash, err := ps.HashPassword("hunter2")
	require.NoError(t, err)
	assert.Contains(t, hash, "$argon2id$v=19$")

	ok, err := ps.VerifyPassword("hunter2", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ps.VerifyPassword("hunter3", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = ps.VerifyPassword("hunter2", "plaintext")
	assert.Error(t, err)
}

func TestJWTService(t *testing.T) {
	js := NewJWTService(testSecret, "bravia-remote", 1)

	token, err := js.GenerateToken()
	require.NoError(t, err)

	claims, err := js.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, tokenSubject, claims.Subject)
	assert.Equal(t, "bravia-remote", claims.Issuer)

	t.Run("other secret", func(t *testing.T) {
		_, err := NewJWTService("ffffffffffffffffffffffffffffffff", "bravia-remote", 1).ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("other issuer", func(t *testing.T) {
		_, err := NewJWTService(testSecret, "someone-else", 1).ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		past := time.Now().Add(-2 * time.Hour)
		expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &jwt.RegisteredClaims{
			Subject:   tokenSubject,
			Issuer:    "bravia-remote",
			IssuedAt:  jwt.NewNumericDate(past),
			ExpiresAt: jwt.NewNumericDate(past.Add(time.Hour)),
		})
		signed, err := expired.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = js.ValidateToken(signed)
		assert.Error(t, err)
	})
}

func TestAuthService_Disabled(t *testing.T) {
	auth := NewAuthService(config.AuthConfig{})
	assert.False(t, auth.Enabled())

	var nilAuth *AuthService
	assert.False(t, nilAuth.Enabled())
}

func TestRequireAuth_StoresClaims(t *testing.T) {
	auth := NewAuthService(config.AuthConfig{
		PasswordHash: "unused",
		JWTSecret:    testSecret,
		Issuer:       "bravia-remote",
		ExpiryHours:  1,
	})
	token, err := auth.jwtService.GenerateToken()
	require.NoError(t, err)

	var subject string
	handler := auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		require.True(t, ok)
		subject = claims.Subject
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tokenSubject, subject)

	_, ok := ClaimsFromContext(req.Context())
	assert.False(t, ok)
}

func TestAPIServer_WithAuth(t *testing.T) {
	hash, err := NewPasswordService().HashPassword("letmein")
	require.NoError(t, err)

	tv := newFakeTV(t)
	cfg := testConfig(tv.address())
	cfg.Auth.PasswordHash = hash
	cfg.Auth.JWTSecret = testSecret
	handler := newTestServer(t, cfg).Handler()

	t.Run("protected without token", func(t *testing.T) {
		for _, path := range []string{"/api/status", "/api/commands", "/api/keymap"} {
			rec := do(t, handler, "GET", path, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		}
		rec := do(t, handler, "POST", "/api/command", `{"command":"Up"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, int32(0), tv.irccCalls.Load())
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := do(t, handler, "GET", "/api/commands", "", "Authorization", "Token abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		rec = do(t, handler, "GET", "/api/commands", "", "Authorization", "Bearer abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec := do(t, handler, "POST", "/api/login", `{"password":"nope"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		rec = do(t, handler, "POST", "/api/login", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("login then command", func(t *testing.T) {
		rec := do(t, handler, "POST", "/api/login", `{"password":"letmein"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotEmpty(t, body.Token)

		rec = do(t, handler, "POST", "/api/command", `{"command":"Up"}`, "Authorization", "Bearer "+body.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int32(1), tv.irccCalls.Load())
	})

	t.Run("public routes stay open", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(t, handler, "GET", "/healthz", "").Code)
		assert.Equal(t, http.StatusOK, do(t, handler, "GET", "/", "").Code)
	})
}

func TestAPIServer_LoginRouteOnlyWithAuth(t *testing.T) {
	handler := newTestServer(t, testConfig("tv")).Handler()
	rec := do(t, handler, "POST", "/api/login", `{"password":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
