// Copyright (c) 2026 Aeroray. All rights reserved.

// Package users implements account management for the storefront: public
// registration and login, profile self-service, and administrative user
// management. It also resolves verified token subjects into identities for
// the middleware chain.
package users

import (
	"time"

	"github.com/aeroray/storefront/internal/platform/sec"
)

// User represents a registered member of the storefront.
//
// # Rules
//   - Email is unique among non-deleted accounts.
//   - PasswordHash is generated via Bcrypt exclusively via the Service.
//   - Role defaults to customer; only admins can change it.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.Role   `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    *time.Time `json:"-"` // soft-delete tracker
}

// Identity converts the account into the credential-hash-free view that
// travels through the request context.
func (u *User) Identity() *sec.Identity {
	return &sec.Identity{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// AuthResponse is the body returned by registration, login, and profile
// updates. It bundles the public profile with a freshly issued token.
type AuthResponse struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  sec.Role `json:"role"`
	Token string   `json:"token"`
}

const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRole     = "role"
)
