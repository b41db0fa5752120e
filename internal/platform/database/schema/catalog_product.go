package schema

// CatalogProductTable represents the 'catalog.product' table
type CatalogProductTable struct {
	Table        string
	ID           string
	Name         string
	Slug         string
	Image        string
	Brand        string
	Category     string
	Description  string
	Price        string
	CountInStock string
	Rating       string
	NumReviews   string
	CreatedBy    string
	CreatedAt    string
	UpdatedAt    string
	DeletedAt    string
}

// CatalogProduct is the schema definition for catalog.product
var CatalogProduct = CatalogProductTable{
	Table:        "catalog.product",
	ID:           "id",
	Name:         "name",
	Slug:         "slug",
	Image:        "image",
	Brand:        "brand",
	Category:     "category",
	Description:  "description",
	Price:        "price",
	CountInStock: "countinstock",
	Rating:       "rating",
	NumReviews:   "numreviews",
	CreatedBy:    "createdby",
	CreatedAt:    "createdat",
	UpdatedAt:    "updatedat",
	DeletedAt:    "deletedat",
}
