// Copyright (c) 2026 Aeroray. All rights reserved.

package order

import "context"

// Repository defines the data access contract for purchases.
type Repository interface {
	// Create persists a new order row.
	Create(ctx context.Context, order *Order) error

	// FindByID returns the order hydrated with the owner's name and email.
	//
	// Returns [apperr.NotFound] if the order does not exist.
	FindByID(ctx context.Context, id string) (*Order, error)

	// ListByUser returns the given user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]*Order, error)

	// ListAll returns every order with the owner's id and name, newest first.
	ListAll(ctx context.Context) ([]*Order, error)

	// MarkPaid sets the paid flag and timestamp (first time only) and
	// overwrites the payment result verbatim (every time).
	MarkPaid(ctx context.Context, id string, result *PaymentResult) error

	// MarkDelivered sets the delivered flag and timestamp (first time only).
	MarkDelivered(ctx context.Context, id string) error
}
