// Copyright (c) 2026 Aeroray. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer via interfaces defined at the consumption points.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the payload embedded inside an access token.
//
// # Why subject-only?
//
// The token deliberately carries nothing beyond the registered claims: the
// subject id is re-resolved against the user store on every request, so a
// deleted account stops authenticating immediately even though issued tokens
// cannot be revoked before their expiry.
type TokenClaims struct {
	jwt.RegisteredClaims
}

// TokenService handles generation and verification of JWT tokens using HS256.
//
// The signing secret is process-wide, read-only after startup, and shared by
// every issued token. There is no revocation list.
type TokenService struct {
	secret []byte
	issuer string
}

// NewTokenService creates a new TokenService bound to the given signing secret.
func NewTokenService(secret, issuer string) (*TokenService, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: signing secret must not be empty")
	}

	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
	}, nil
}

// GenerateToken creates a signed access token for the given subject id.
func (service *TokenService) GenerateToken(subjectID string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and validity of a JWT string.
//
// Any malformed, forged, or expired token yields an error; callers map that
// to a generic 401 without distinguishing the cause.
func (service *TokenService) VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}
