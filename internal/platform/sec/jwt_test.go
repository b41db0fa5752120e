// Copyright (c) 2026 Aeroray. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroray/storefront/internal/platform/sec"
)

/*
TestTokenService_RoundTrip verifies that a generated token carries the
subject and issuer and verifies against the same secret.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService("test-secret-0123456789", "aeroray.shop")
	require.NoError(t, err)

	token, err := service.GenerateToken("user-123", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, "aeroray.shop", claims.Issuer)
}

/*
TestTokenService_WrongSecret ensures tokens signed with a different secret
are rejected.
*/
func TestTokenService_WrongSecret(t *testing.T) {
	issuing, err := sec.NewTokenService("secret-one", "aeroray.shop")
	require.NoError(t, err)
	verifying, err := sec.NewTokenService("secret-two", "aeroray.shop")
	require.NoError(t, err)

	token, err := issuing.GenerateToken("user-123", time.Hour)
	require.NoError(t, err)

	_, err = verifying.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_Expired ensures expired tokens are rejected.
*/
func TestTokenService_Expired(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "aeroray.shop")
	require.NoError(t, err)

	token, err := service.GenerateToken("user-123", -time.Minute)
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.Error(t, err)
}

/*
TestTokenService_Garbage ensures non-JWT strings are rejected.
*/
func TestTokenService_Garbage(t *testing.T) {
	service, err := sec.NewTokenService("test-secret", "aeroray.shop")
	require.NoError(t, err)

	for _, input := range []string{"", "not-a-token", "a.b.c"} {
		_, err := service.VerifyToken(input)
		assert.Error(t, err)
	}
}

/*
TestNewTokenService_EmptySecret ensures the service refuses to start without
a signing secret.
*/
func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenService("", "aeroray.shop")
	assert.Error(t, err)
}

/*
TestHashPassword covers the bcrypt round trip.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("supersecret")
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret", hash)

	assert.True(t, sec.CheckPasswordHash("supersecret", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-password", hash))
}

/*
TestRole covers the role enum helpers.
*/
func TestRole(t *testing.T) {
	assert.True(t, sec.RoleAdmin.IsAdmin())
	assert.False(t, sec.RoleCustomer.IsAdmin())

	assert.True(t, sec.RoleAdmin.IsValid())
	assert.True(t, sec.RoleCustomer.IsValid())
	assert.False(t, sec.Role("superuser").IsValid())
}
