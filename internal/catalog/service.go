// Copyright (c) 2026 Aeroray. All rights reserved.

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aeroray/storefront/internal/platform/apperr"
	"github.com/aeroray/storefront/internal/platform/constants"
	"github.com/aeroray/storefront/internal/platform/sec"
	"github.com/aeroray/storefront/internal/platform/validate"
	"github.com/aeroray/storefront/pkg/pagination"
	"github.com/aeroray/storefront/pkg/slug"
	"github.com/aeroray/storefront/pkg/uuidv7"
)

// Service implements catalogue use cases.
type Service struct {
	repository Repository
	topCache   TopCache
	logger     *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repository Repository, topCache TopCache, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		topCache:   topCache,
		logger:     logger,
	}
}

// ListProducts returns one fixed-size page of products matching the filter,
// plus the total match count so clients can render page controls.
//
// A page beyond the end of the result set yields an empty product list with
// the real count; it is not an error.
func (service *Service) ListProducts(ctx context.Context, filter Filter, page pagination.Params) (*ProductPage, error) {
	products, count, err := service.repository.ListProducts(ctx, filter, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}

	// Normalize nil slices so the JSON body always carries an array.
	if products == nil {
		products = []*Product{}
	}

	return &ProductPage{Products: products, Count: count}, nil
}

// TopProducts returns the highest-rated products, served from the cache when
// fresh.
//
// # Caching
//
// The list is recomputed at most once per freshness window and invalidated
// eagerly on any product mutation. Cache failures degrade to a database read.
func (service *Service) TopProducts(ctx context.Context) ([]*Product, error) {
	if cached, ok := service.topCache.GetTop(ctx); ok {
		return cached, nil
	}

	products, err := service.repository.TopRated(ctx, constants.TopProductCount)
	if err != nil {
		return nil, err
	}

	if products == nil {
		products = []*Product{}
	}

	service.topCache.SetTop(ctx, products, constants.TopProductsTTL)

	return products, nil
}

// GetProduct returns a single product with its reviews embedded.
func (service *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	return service.repository.FindProduct(ctx, id)
}

// ProductInput holds the descriptive fields of a product create or update.
//
// Rating and review counts are deliberately absent: aggregates belong to the
// review pipeline and cannot be set through the administrative surface.
type ProductInput struct {
	Name         string
	Image        string
	Brand        string
	Category     string
	Description  string
	Price        float64
	CountInStock int
}

// CreateProduct persists a new catalogue entry.
//
// # Business Rules
//   - The slug is derived from the name; it is not client-controlled.
//   - New products start with a zero rating and zero reviews.
func (service *Service) CreateProduct(ctx context.Context, creatorID string, input ProductInput) (*Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &Product{
		ID:           uuidv7.New(),
		Name:         input.Name,
		Slug:         slug.From(input.Name),
		Image:        input.Image,
		Brand:        input.Brand,
		Category:     input.Category,
		Description:  input.Description,
		Price:        input.Price,
		CountInStock: input.CountInStock,
		CreatedBy:    creatorID,
	}

	if err := service.repository.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("catalog_service_create_failed: %w", err)
	}

	service.topCache.Invalidate(ctx)
	service.logger.Info("product_created",
		slog.String("product_id", product.ID),
		slog.String("created_by", creatorID),
	)

	return product, nil
}

// UpdateProduct overwrites a product's descriptive fields and stock level.
// The rating aggregates survive the update untouched.
func (service *Service) UpdateProduct(ctx context.Context, id string, input ProductInput) error {
	if err := validateProductInput(input); err != nil {
		return err
	}

	product, err := service.repository.FindProduct(ctx, id)
	if err != nil {
		return err
	}

	product.Name = input.Name
	product.Slug = slug.From(input.Name)
	product.Image = input.Image
	product.Brand = input.Brand
	product.Category = input.Category
	product.Description = input.Description
	product.Price = input.Price
	product.CountInStock = input.CountInStock

	if err := service.repository.UpdateProduct(ctx, product); err != nil {
		return err
	}

	service.topCache.Invalidate(ctx)
	service.logger.Info("product_updated", slog.String("product_id", id))
	return nil
}

// DeleteProduct soft-deletes a catalogue entry. Its reviews stay behind but
// become unreachable along with the product.
func (service *Service) DeleteProduct(ctx context.Context, id string) error {
	// Confirm existence first so absent ids answer 404.
	if _, err := service.repository.FindProduct(ctx, id); err != nil {
		return err
	}

	if err := service.repository.SoftDeleteProduct(ctx, id); err != nil {
		return err
	}

	service.topCache.Invalidate(ctx)
	service.logger.Warn("product_deleted", slog.String("product_id", id))
	return nil
}

// ReviewInput holds a customer's review submission.
type ReviewInput struct {
	Rating  int
	Comment string
}

// AddReview records a review on behalf of the authenticated customer and
// folds it into the product's rating aggregates.
//
// # Returns
//   - [apperr.NotFound] if the product does not exist.
//   - A 400 rejection if the rating is out of range or the user already
//     reviewed this product. A rejected submission leaves the review set and
//     the aggregates exactly as they were.
func (service *Service) AddReview(ctx context.Context, reviewer *sec.Identity, productID string, input ReviewInput) error {
	product, err := service.repository.FindProduct(ctx, productID)
	if err != nil {
		return err
	}

	// A repeat reviewer gets the duplicate rejection no matter what the new
	// submission carries. The unique index inside AddReview still backstops
	// the race between two simultaneous first reviews.
	for _, existing := range product.Reviews {
		if existing.UserID == reviewer.ID {
			return apperr.BadRequest("DUPLICATE_REVIEW", "Product already reviewed")
		}
	}

	validator := &validate.Validator{}
	validator.
		Range(FieldRating, input.Rating, constants.ReviewRatingMin, constants.ReviewRatingMax).
		Required(FieldComment, input.Comment)

	if err := validator.Err(); err != nil {
		return err
	}

	review := &Review{
		ID:        uuidv7.New(),
		ProductID: productID,
		UserID:    reviewer.ID,
		Name:      reviewer.Name,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	if err := service.repository.AddReview(ctx, review); err != nil {
		if errors.Is(err, ErrDuplicateReview) {
			return apperr.BadRequest("DUPLICATE_REVIEW", "Product already reviewed")
		}
		return fmt.Errorf("catalog_service_add_review_failed: %w", err)
	}

	service.topCache.Invalidate(ctx)
	service.logger.Info("review_added",
		slog.String("product_id", productID),
		slog.String("user_id", reviewer.ID),
		slog.Int("rating", input.Rating),
	)

	return nil
}

// validateProductInput applies the shared field rules for create and update.
func validateProductInput(input ProductInput) error {
	validator := &validate.Validator{}
	validator.
		Required(FieldProductName, input.Name).MaxLen(FieldProductName, input.Name, 200).
		Required(FieldImage, input.Image).
		Required(FieldBrand, input.Brand).
		Required(FieldCategory, input.Category).
		Required(FieldDescription, input.Description).
		Positive(FieldPrice, input.Price).
		Custom(FieldCountInStock, input.CountInStock < 0, "Must not be negative")

	return validator.Err()
}
