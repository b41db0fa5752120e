// Copyright (c) 2026 Aeroray. All rights reserved.

// Package middleware provides the HTTP middleware chain for the storefront API.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, AuthZ/AuthN, Rate Limiting, and CORS.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aeroray/storefront/internal/platform/apperr"
	"github.com/aeroray/storefront/internal/platform/constants"
	"github.com/aeroray/storefront/internal/platform/ctxutil"
	"github.com/aeroray/storefront/internal/platform/respond"
	"github.com/aeroray/storefront/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the `sec` token
// service implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.TokenClaims, error)
}

// IdentityResolver resolves a verified subject id to a live account.
//
// The resolution hits the user store on every authenticated request: tokens
// carry only the subject id, so a deleted account fails resolution immediately
// even while its token is still cryptographically valid. Resolution failures
// are reported to the client exactly like a bad signature — never as a
// "not found" — to avoid leaking account existence.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, subjectID string) (*sec.Identity, error)
}

// Authenticate extracts and verifies the bearer token from the Authorization header.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous ([RequireAuth] rejects later).
//  3. If present but malformed, abort with 401 (missing credential).
//  4. Verify the token signature and expiry via [TokenVerifier].
//  5. Resolve the embedded subject id via [IdentityResolver].
//  6. Inject [*sec.Identity] into the request context for downstream use.
//
// The resolved identity never includes the credential hash.
func Authenticate(verifier TokenVerifier, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Authentication token required"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			tokenStr := parts[1]
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Token could not be verified"))
				return
			}

			// ── 4. Identity Resolution ────────────────────────────────────────
			identity, err := resolver.ResolveIdentity(request.Context(), claims.Subject)
			if err != nil {
				// Deliberately indistinguishable from a bad signature.
				respond.Error(writer, request, apperr.Unauthorized("Token could not be verified"))
				return
			}

			// ── 5. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.Identity] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication token required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireAdmin blocks requests whose resolved identity lacks the admin role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
//
// # Status Code
//
// Insufficient privilege answers 401 (not 403), matching the storefront's
// request-authorization state machine: the guard never runs on an absent
// identity, and a non-admin identity is rejected the same way an
// unauthenticated request would be.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())

		// ── 1. Authentication Check ───────────────────────────────────────
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication token required"))
			return
		}

		// ── 2. Authorization Check ────────────────────────────────────────
		if !identity.Role.IsAdmin() {
			respond.Error(writer, request, apperr.Unauthorized("Account lacks the required privileges"))
			return
		}

		next.ServeHTTP(writer, request)
	})
}
