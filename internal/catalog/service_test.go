// Copyright (c) 2026 Aeroray. All rights reserved.

package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroray/storefront/internal/catalog"
	"github.com/aeroray/storefront/internal/platform/apperr"
	"github.com/aeroray/storefront/internal/platform/sec"
	"github.com/aeroray/storefront/pkg/pagination"
	"github.com/aeroray/storefront/pkg/uuidv7"
)

// fakeRepository is an in-memory [catalog.Repository] for service tests.
//
// AddReview mirrors the production aggregate rule: review count plus the
// mean rating rounded to one decimal place, updated atomically with the
// insert.
type fakeRepository struct {
	products map[string]*catalog.Product
	reviews  map[string][]*catalog.Review // keyed by product id
	sequence int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		products: make(map[string]*catalog.Product),
		reviews:  make(map[string][]*catalog.Review),
	}
}

func (f *fakeRepository) ListProducts(_ context.Context, filter catalog.Filter, limit, offset int) ([]*catalog.Product, int, error) {
	var matches []*catalog.Product
	for _, product := range f.products {
		if product.DeletedAt != nil {
			continue
		}
		if strings.Contains(strings.ToLower(product.Name), strings.ToLower(filter.Keyword)) {
			matches = append(matches, product)
		}
	}

	// Newest first, as the SQL implementation orders by createdat DESC.
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	total := len(matches)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (f *fakeRepository) TopRated(_ context.Context, limit int) ([]*catalog.Product, error) {
	var all []*catalog.Product
	for _, product := range f.products {
		if product.DeletedAt == nil {
			all = append(all, product)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Rating > all[j].Rating
	})
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeRepository) FindProduct(_ context.Context, id string) (*catalog.Product, error) {
	product, ok := f.products[id]
	if !ok || product.DeletedAt != nil {
		return nil, apperr.NotFound("Product")
	}
	product.Reviews = f.reviews[id]
	return product, nil
}

func (f *fakeRepository) CreateProduct(_ context.Context, product *catalog.Product) error {
	// Monotonic timestamps keep the newest-first ordering deterministic.
	f.sequence++
	product.CreatedAt = time.Unix(int64(f.sequence), 0)
	product.UpdatedAt = product.CreatedAt
	f.products[product.ID] = product
	return nil
}

func (f *fakeRepository) UpdateProduct(_ context.Context, product *catalog.Product) error {
	if _, ok := f.products[product.ID]; !ok {
		return apperr.NotFound("Product")
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeRepository) SoftDeleteProduct(_ context.Context, id string) error {
	product, ok := f.products[id]
	if !ok {
		return apperr.NotFound("Product")
	}
	now := time.Now()
	product.DeletedAt = &now
	return nil
}

func (f *fakeRepository) AddReview(_ context.Context, review *catalog.Review) error {
	for _, existing := range f.reviews[review.ProductID] {
		if existing.UserID == review.UserID {
			return catalog.ErrDuplicateReview
		}
	}

	f.reviews[review.ProductID] = append(f.reviews[review.ProductID], review)

	product := f.products[review.ProductID]
	reviews := f.reviews[review.ProductID]

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	mean := float64(sum) / float64(len(reviews))

	product.NumReviews = len(reviews)
	product.Rating = math.Round(mean*10) / 10
	return nil
}

// fakeTopCache records cache traffic for assertions.
type fakeTopCache struct {
	stored      []*catalog.Product
	hasValue    bool
	hits        int
	fills       int
	invalidated int
}

func (f *fakeTopCache) GetTop(_ context.Context) ([]*catalog.Product, bool) {
	if f.hasValue {
		f.hits++
		return f.stored, true
	}
	return nil, false
}

func (f *fakeTopCache) SetTop(_ context.Context, products []*catalog.Product, _ time.Duration) {
	f.stored = products
	f.hasValue = true
	f.fills++
}

func (f *fakeTopCache) Invalidate(_ context.Context) {
	f.stored = nil
	f.hasValue = false
	f.invalidated++
}

func newTestService(repository catalog.Repository, cache catalog.TopCache) *catalog.Service {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return catalog.NewService(repository, cache, logger)
}

func testReviewer() *sec.Identity {
	return &sec.Identity{
		ID:    uuidv7.New(),
		Name:  "Ada Lovelace",
		Email: "ada@example.com",
		Role:  sec.RoleCustomer,
	}
}

func validProductInput(name string) catalog.ProductInput {
	return catalog.ProductInput{
		Name:         name,
		Image:        "/images/sample.jpg",
		Brand:        "Acme",
		Category:     "Electronics",
		Description:  "A sample product",
		Price:        89.99,
		CountInStock: 10,
	}
}

/*
TestService_ListProducts covers keyword filtering and fixed-size paging with
the full match count.
*/
func TestService_ListProducts(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository()
	service := newTestService(repository, &fakeTopCache{})

	for i := 0; i < 10; i++ {
		_, err := service.CreateProduct(ctx, "admin-id", validProductInput("Wireless Gadget "+string(rune('A'+i))))
		require.NoError(t, err)
	}
	_, err := service.CreateProduct(ctx, "admin-id", validProductInput("Coffee Grinder"))
	require.NoError(t, err)

	t.Run("keyword_page_one", func(t *testing.T) {
		page, err := service.ListProducts(ctx, catalog.Filter{Keyword: "wireless"}, pagination.Params{Page: 1, Limit: 8})
		require.NoError(t, err)

		assert.Len(t, page.Products, 8)
		assert.Equal(t, 10, page.Count)
	})

	t.Run("keyword_page_two", func(t *testing.T) {
		page, err := service.ListProducts(ctx, catalog.Filter{Keyword: "wireless"}, pagination.Params{Page: 2, Limit: 8})
		require.NoError(t, err)

		// 10 matches at 8 per page leaves 2 on the second page.
		assert.Len(t, page.Products, 2)
		assert.Equal(t, 10, page.Count)
	})

	t.Run("page_past_the_end_is_empty_not_an_error", func(t *testing.T) {
		page, err := service.ListProducts(ctx, catalog.Filter{Keyword: "wireless"}, pagination.Params{Page: 5, Limit: 8})
		require.NoError(t, err)

		assert.Empty(t, page.Products)
		assert.NotNil(t, page.Products) // serializes as [] rather than null
		assert.Equal(t, 10, page.Count)
	})

	t.Run("no_keyword_matches_everything", func(t *testing.T) {
		page, err := service.ListProducts(ctx, catalog.Filter{}, pagination.Params{Page: 1, Limit: 8})
		require.NoError(t, err)

		assert.Equal(t, 11, page.Count)
	})
}

/*
TestService_TopProducts exercises the read-through cache and its eager
invalidation on product mutations.
*/
func TestService_TopProducts(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository()
	cache := &fakeTopCache{}
	service := newTestService(repository, cache)

	created, err := service.CreateProduct(ctx, "admin-id", validProductInput("Headphones"))
	require.NoError(t, err)

	t.Run("miss_fills_cache", func(t *testing.T) {
		products, err := service.TopProducts(ctx)
		require.NoError(t, err)

		assert.Len(t, products, 1)
		assert.Equal(t, 1, cache.fills)
	})

	t.Run("second_read_hits_cache", func(t *testing.T) {
		_, err := service.TopProducts(ctx)
		require.NoError(t, err)

		assert.Equal(t, 1, cache.hits)
		assert.Equal(t, 1, cache.fills)
	})

	t.Run("mutation_invalidates", func(t *testing.T) {
		invalidatedBefore := cache.invalidated

		err := service.UpdateProduct(ctx, created.ID, validProductInput("Headphones v2"))
		require.NoError(t, err)

		assert.Greater(t, cache.invalidated, invalidatedBefore)
		assert.False(t, cache.hasValue)
	})
}

/*
TestService_AddReview verifies the aggregate arithmetic, the one-review-per-
user rule, and that a rejected submission leaves the aggregates untouched.
*/
func TestService_AddReview(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository()
	service := newTestService(repository, &fakeTopCache{})

	product, err := service.CreateProduct(ctx, "admin-id", validProductInput("Keyboard"))
	require.NoError(t, err)

	first := testReviewer()
	second := testReviewer()
	third := testReviewer()

	t.Run("aggregates_track_the_mean", func(t *testing.T) {
		err := service.AddReview(ctx, first, product.ID, catalog.ReviewInput{Rating: 4, Comment: "Solid"})
		require.NoError(t, err)
		err = service.AddReview(ctx, second, product.ID, catalog.ReviewInput{Rating: 5, Comment: "Excellent"})
		require.NoError(t, err)

		// Mean of 4 and 5, rounded to one decimal.
		updated, err := service.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, updated.NumReviews)
		assert.InDelta(t, 4.5, updated.Rating, 0.001)

		err = service.AddReview(ctx, third, product.ID, catalog.ReviewInput{Rating: 3, Comment: "Average"})
		require.NoError(t, err)

		updated, err = service.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, updated.NumReviews)
		assert.InDelta(t, 4.0, updated.Rating, 0.001)
	})

	t.Run("duplicate_rejected_and_aggregates_unchanged", func(t *testing.T) {
		err := service.AddReview(ctx, first, product.ID, catalog.ReviewInput{Rating: 1, Comment: "Changed my mind"})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		assert.Equal(t, "DUPLICATE_REVIEW", ae.Code)
		assert.Equal(t, "Product already reviewed", ae.Message)

		unchanged, err := service.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, unchanged.NumReviews)
		assert.InDelta(t, 4.0, unchanged.Rating, 0.001)
	})

	t.Run("duplicate_wins_over_bad_rating", func(t *testing.T) {
		// A repeat reviewer hits the single duplicate rejection path even
		// when the new submission would also fail validation.
		err := service.AddReview(ctx, first, product.ID, catalog.ReviewInput{Rating: 99, Comment: ""})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "DUPLICATE_REVIEW", ae.Code)
	})

	t.Run("rating_out_of_range_rejected", func(t *testing.T) {
		for _, rating := range []int{0, 6, -1} {
			err := service.AddReview(ctx, testReviewer(), product.ID, catalog.ReviewInput{Rating: rating, Comment: "?"})
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		}
	})

	t.Run("missing_product_not_found", func(t *testing.T) {
		err := service.AddReview(ctx, testReviewer(), uuidv7.New(), catalog.ReviewInput{Rating: 4, Comment: "Ghost"})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	})
}

/*
TestService_ProductCRUD covers validation, slug derivation, aggregate
protection on update, and soft deletion.
*/
func TestService_ProductCRUD(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository()
	service := newTestService(repository, &fakeTopCache{})

	t.Run("create_derives_slug", func(t *testing.T) {
		product, err := service.CreateProduct(ctx, "admin-id", validProductInput("AirPods Wireless Headphones"))
		require.NoError(t, err)

		assert.Equal(t, "airpods-wireless-headphones", product.Slug)
		assert.Zero(t, product.Rating)
		assert.Zero(t, product.NumReviews)
	})

	t.Run("create_rejects_invalid_input", func(t *testing.T) {
		input := validProductInput("Broken")
		input.Price = -1

		_, err := service.CreateProduct(ctx, "admin-id", input)
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	})

	t.Run("update_preserves_aggregates", func(t *testing.T) {
		product, err := service.CreateProduct(ctx, "admin-id", validProductInput("Mouse"))
		require.NoError(t, err)

		err = service.AddReview(ctx, testReviewer(), product.ID, catalog.ReviewInput{Rating: 5, Comment: "Great"})
		require.NoError(t, err)

		err = service.UpdateProduct(ctx, product.ID, validProductInput("Mouse Pro"))
		require.NoError(t, err)

		updated, err := service.GetProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Mouse Pro", updated.Name)
		assert.Equal(t, 1, updated.NumReviews)
		assert.InDelta(t, 5.0, updated.Rating, 0.001)
	})

	t.Run("delete_then_reads_fail", func(t *testing.T) {
		product, err := service.CreateProduct(ctx, "admin-id", validProductInput("Ephemeral"))
		require.NoError(t, err)

		require.NoError(t, service.DeleteProduct(ctx, product.ID))

		_, err = service.GetProduct(ctx, product.ID)
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	})

	t.Run("delete_missing_product_not_found", func(t *testing.T) {
		err := service.DeleteProduct(ctx, uuidv7.New())
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	})
}
