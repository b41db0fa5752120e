// Copyright (c) 2026 Aeroray. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateReview is returned by [Repository.AddReview] when the user has
// already reviewed the product. The service maps it to a client-facing
// rejection; the review set is left unchanged.
var ErrDuplicateReview = errors.New("catalog: product already reviewed by this user")

// Repository defines the data access contract for products and reviews.
type Repository interface {
	// ListProducts returns one page of non-deleted products matching the
	// filter, newest first, along with the total matching count (which
	// ignores pagination).
	ListProducts(ctx context.Context, filter Filter, limit, offset int) ([]*Product, int, error)

	// TopRated returns up to limit products ordered by rating descending.
	TopRated(ctx context.Context, limit int) ([]*Product, error)

	// FindProduct returns the product with the given ID, hydrated with all
	// of its reviews.
	//
	// Returns [apperr.NotFound] if the product does not exist or is deleted.
	FindProduct(ctx context.Context, id string) (*Product, error)

	// CreateProduct persists a new product row.
	CreateProduct(ctx context.Context, product *Product) error

	// UpdateProduct persists changes to the descriptive fields and stock.
	// The rating aggregates are never touched by this method.
	UpdateProduct(ctx context.Context, product *Product) error

	// SoftDeleteProduct marks the product as deleted without removing rows.
	SoftDeleteProduct(ctx context.Context, id string) error

	// AddReview atomically inserts the review and recomputes the product's
	// rating aggregates in the same transaction, so readers never observe a
	// review count that disagrees with the stored mean.
	//
	// Returns [ErrDuplicateReview] if the user already reviewed the product.
	AddReview(ctx context.Context, review *Review) error
}

// TopCache is a read-through cache for the top-rated product list.
//
// Implementations must treat cache failures as misses; the catalogue always
// has the database to fall back on.
type TopCache interface {
	// GetTop returns the cached list, or (nil, false) on a miss.
	GetTop(ctx context.Context) ([]*Product, bool)

	// SetTop stores the list for the given time-to-live.
	SetTop(ctx context.Context, products []*Product, ttl time.Duration)

	// Invalidate drops the cached list after a product mutation.
	Invalidate(ctx context.Context)
}
