// Copyright (c) 2026 Aeroray. All rights reserved.

package users

import "context"

// Repository defines the data access contract for user accounts.
//
// # Implementations
//
// The canonical implementation for the storefront is PostgreSQL
// (store_postgres.go). Tests substitute an in-memory fake.
type Repository interface {
	// FindByID returns the account with the given ID.
	//
	// Returns [apperr.NotFound] if the account does not exist or is deleted.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns the account with the given email.
	//
	// Returns [apperr.NotFound] if no user is registered with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// List returns every non-deleted account, newest first.
	List(ctx context.Context) ([]*User, error)

	// Create persists a brand-new user account to the storage.
	Create(ctx context.Context, user *User) error

	// Update persists changes to Name, Email, and Role.
	Update(ctx context.Context, user *User) error

	// SoftDelete marks the account as deleted without removing the row.
	// A deleted account fails all future FindByID lookups, which is what
	// invalidates identity resolution for outstanding tokens.
	SoftDelete(ctx context.Context, id string) error
}
