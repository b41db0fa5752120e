// Copyright (c) 2026 Aeroray. All rights reserved.

package catalog

import "time"

// Review is a customer's rating and comment for a single product.
//
// # Rules
//   - One review per (product, user) pair; the second attempt is rejected.
//   - Rating is an integer in [1, 5].
//   - Name snapshots the reviewer's display name at submission time.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"-"`
	UserID    string    `json:"user"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	FieldRating  = "rating"
	FieldComment = "comment"
)
