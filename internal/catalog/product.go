// Copyright (c) 2026 Aeroray. All rights reserved.

// Package catalog implements the storefront product catalogue: public
// browsing with keyword search and fixed-size pages, a cached top-rated
// list, administrative product management, and customer reviews with
// server-maintained rating aggregates.
package catalog

import (
	"time"
)

// Product represents a sellable item in the catalogue.
//
// # Aggregates
//
// Rating and NumReviews are derived from the review rows and are only ever
// written by the review pipeline. Rating is the mean of all review ratings
// rounded to one decimal place; both are zero for a product without reviews.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Image        string    `json:"image"`
	Brand        string    `json:"brand"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	CountInStock int       `json:"countInStock"`
	Rating       float64   `json:"rating"`
	NumReviews   int       `json:"numReviews"`
	Reviews      []*Review `json:"reviews,omitempty"`
	CreatedBy    string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	DeletedAt *time.Time `json:"-"` // soft-delete tracker
}

// Filter narrows product list queries.
type Filter struct {
	// Keyword matches product names case-insensitively (substring match).
	// Empty means no filtering.
	Keyword string
}

// ProductPage is the body returned by the paginated catalogue listing.
type ProductPage struct {
	Products []*Product `json:"products"`
	Count    int        `json:"count"`
}

const (
	FieldProductName  = "name"
	FieldImage        = "image"
	FieldBrand        = "brand"
	FieldCategory     = "category"
	FieldDescription  = "description"
	FieldPrice        = "price"
	FieldCountInStock = "countInStock"
)
