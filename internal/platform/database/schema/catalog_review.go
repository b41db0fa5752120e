package schema

// CatalogReviewTable represents the 'catalog.review' table
type CatalogReviewTable struct {
	Table     string
	ID        string
	ProductID string
	UserID    string
	UserName  string
	Rating    string
	Comment   string
	CreatedAt string
}

// CatalogReview is the schema definition for catalog.review.
//
// A unique index over (productid, userid) backs the one-review-per-user rule.
var CatalogReview = CatalogReviewTable{
	Table:     "catalog.review",
	ID:        "id",
	ProductID: "productid",
	UserID:    "userid",
	UserName:  "username",
	Rating:    "rating",
	Comment:   "comment",
	CreatedAt: "createdat",
}
