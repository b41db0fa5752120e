// Copyright (c) 2026 Aeroray. All rights reserved.

package sec

// # User Roles

// Role represents the authorization level granted to an account.
//
// The storefront only distinguishes administrators from regular customers
// today, but the role is modeled as an explicit enum so intermediate roles
// (e.g. support staff) can be added without changing call sites.
type Role string

const (
	// Unrestricted access to administrative routes
	RoleAdmin Role = "admin"

	// Default role for registered shoppers
	RoleCustomer Role = "customer"
)

// IsAdmin reports whether the role grants administrative access.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsValid reports whether the role is a known value.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// # Resolved Identity

// Identity is an authenticated account as seen by request handlers.
//
// # Security
//
// The credential hash is deliberately absent from this type: the verifier
// resolves the subject id against the user store and strips the hash before
// anything downstream can observe it.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
