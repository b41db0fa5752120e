// Copyright (c) 2026 Aeroray. All rights reserved.

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroray/storefront/internal/platform/ctxutil"
	"github.com/aeroray/storefront/internal/platform/middleware"
	"github.com/aeroray/storefront/internal/platform/sec"
)

// fakeVerifier returns the configured claims or error for any token.
type fakeVerifier struct {
	claims *sec.TokenClaims
	err    error
}

func (f fakeVerifier) VerifyToken(string) (*sec.TokenClaims, error) {
	return f.claims, f.err
}

// fakeResolver resolves every subject to the configured identity or error.
type fakeResolver struct {
	identity *sec.Identity
	err      error
}

func (f fakeResolver) ResolveIdentity(context.Context, string) (*sec.Identity, error) {
	return f.identity, f.err
}

func claimsFor(subject string) *sec.TokenClaims {
	service, _ := sec.NewTokenService("authz-test-secret", "aeroray.shop")
	token, _ := service.GenerateToken(subject, time.Hour)
	claims, _ := service.VerifyToken(token)
	return claims
}

// identitySpy records the identity visible to the downstream handler.
func identitySpy(captured **sec.Identity) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*captured = ctxutil.GetIdentity(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

func messageOf(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Message
}

/*
TestAuthenticate covers the bearer-token extraction and identity resolution
flow.
*/
func TestAuthenticate(t *testing.T) {
	customer := &sec.Identity{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: sec.RoleCustomer}

	t.Run("no_header_proceeds_anonymous", func(t *testing.T) {
		var seen *sec.Identity
		handler := middleware.Authenticate(fakeVerifier{}, fakeResolver{})(identitySpy(&seen))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Nil(t, seen)
	})

	t.Run("malformed_header_401", func(t *testing.T) {
		tests := []struct {
			name   string
			header string
		}{
			{"no_scheme", "some-raw-token"},
			{"wrong_scheme", "Basic dXNlcjpwYXNz"},
			{"too_many_parts", "Bearer a b"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var seen *sec.Identity
				handler := middleware.Authenticate(fakeVerifier{}, fakeResolver{})(identitySpy(&seen))

				request := httptest.NewRequest(http.MethodGet, "/", nil)
				request.Header.Set("Authorization", tt.header)
				recorder := httptest.NewRecorder()
				handler.ServeHTTP(recorder, request)

				assert.Equal(t, http.StatusUnauthorized, recorder.Code)
				assert.Equal(t, "Authentication token required", messageOf(t, recorder))
				assert.Nil(t, seen)
			})
		}
	})

	t.Run("bad_token_401", func(t *testing.T) {
		var seen *sec.Identity
		verifier := fakeVerifier{err: errors.New("bad signature")}
		handler := middleware.Authenticate(verifier, fakeResolver{})(identitySpy(&seen))

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer forged")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Token could not be verified", messageOf(t, recorder))
	})

	t.Run("resolution_failure_same_401_as_bad_token", func(t *testing.T) {
		// A valid token whose subject no longer resolves (deleted account)
		// must be indistinguishable from a forged token.
		var seen *sec.Identity
		verifier := fakeVerifier{claims: claimsFor("ghost")}
		resolver := fakeResolver{err: errors.New("no such account")}
		handler := middleware.Authenticate(verifier, resolver)(identitySpy(&seen))

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer valid-but-orphaned")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Token could not be verified", messageOf(t, recorder))
		assert.Nil(t, seen)
	})

	t.Run("valid_token_injects_identity", func(t *testing.T) {
		var seen *sec.Identity
		verifier := fakeVerifier{claims: claimsFor("u1")}
		resolver := fakeResolver{identity: customer}
		handler := middleware.Authenticate(verifier, resolver)(identitySpy(&seen))

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer good-token")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "u1", seen.ID)
	})
}

/*
TestRequireAuth verifies the authenticated-only guard.
*/
func TestRequireAuth(t *testing.T) {
	t.Run("anonymous_401", func(t *testing.T) {
		var seen *sec.Identity
		handler := middleware.RequireAuth(identitySpy(&seen))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Nil(t, seen)
	})

	t.Run("authenticated_passes", func(t *testing.T) {
		var seen *sec.Identity
		handler := middleware.RequireAuth(identitySpy(&seen))

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := ctxutil.WithIdentity(request.Context(), &sec.Identity{ID: "u1", Role: sec.RoleCustomer})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, seen)
	})
}

/*
TestRequireAdmin verifies the admin guard, including the deliberate 401 (not
403) for resolved non-admin identities.
*/
func TestRequireAdmin(t *testing.T) {
	t.Run("anonymous_401", func(t *testing.T) {
		var seen *sec.Identity
		handler := middleware.RequireAdmin(identitySpy(&seen))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Authentication token required", messageOf(t, recorder))
	})

	t.Run("customer_401_not_403", func(t *testing.T) {
		var seen *sec.Identity
		handler := middleware.RequireAdmin(identitySpy(&seen))

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := ctxutil.WithIdentity(request.Context(), &sec.Identity{ID: "u1", Role: sec.RoleCustomer})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "Account lacks the required privileges", messageOf(t, recorder))
		assert.Nil(t, seen)
	})

	t.Run("admin_passes", func(t *testing.T) {
		var seen *sec.Identity
		handler := middleware.RequireAdmin(identitySpy(&seen))

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := ctxutil.WithIdentity(request.Context(), &sec.Identity{ID: "u1", Role: sec.RoleAdmin})
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))

		assert.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, seen)
		assert.True(t, seen.Role.IsAdmin())
	})
}
