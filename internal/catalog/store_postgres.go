// Copyright (c) 2026 Aeroray. All rights reserved.

/*
Catalog (Postgres) implements the storage layer for products and reviews.

# Schema Table Mapping
  - catalog.product: Descriptive data plus denormalized rating aggregates.
  - catalog.review: One row per (product, user), enforced by a unique index.
*/

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeroray/storefront/internal/platform/apperr"
	"github.com/aeroray/storefront/internal/platform/database/schema"
	"github.com/aeroray/storefront/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation for the catalogue.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// productColumns is the canonical SELECT column list for product rows.
func productColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		schema.CatalogProduct.ID, schema.CatalogProduct.Name, schema.CatalogProduct.Slug,
		schema.CatalogProduct.Image, schema.CatalogProduct.Brand, schema.CatalogProduct.Category,
		schema.CatalogProduct.Description, schema.CatalogProduct.Price, schema.CatalogProduct.CountInStock,
		schema.CatalogProduct.Rating, schema.CatalogProduct.NumReviews, schema.CatalogProduct.CreatedBy,
		schema.CatalogProduct.CreatedAt, schema.CatalogProduct.UpdatedAt,
	)
}

// scanProduct hydrates a single product from a row matching [productColumns].
func scanProduct(row pgx.Row) (*Product, error) {
	product := &Product{}
	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Image,
		&product.Brand,
		&product.Category,
		&product.Description,
		&product.Price,
		&product.CountInStock,
		&product.Rating,
		&product.NumReviews,
		&product.CreatedBy,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

/*
ListProducts retrieves one page of products matching the filter, newest
first, together with the total match count.

The count query runs first and deliberately ignores LIMIT/OFFSET, so a page
past the end of the result set still reports the real total.

Parameters:
  - ctx: context.Context
  - filter: Filter (keyword substring match, case-insensitive)
  - limit, offset: int

Returns:
  - []*Product: One page of products
  - int: Total number of matching products
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListProducts(ctx context.Context, filter Filter, limit, offset int) ([]*Product, int, error) {
	where := fmt.Sprintf("%s IS NULL AND %s ILIKE $1",
		schema.CatalogProduct.DeletedAt, schema.CatalogProduct.Name)
	keywordPattern := "%" + filter.Keyword + "%"

	// ── 1. Total Count ────────────────────────────────────────────────────

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`,
		schema.CatalogProduct.Table, where)

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery, keywordPattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_repo_count_failed: %w", err)
	}

	// ── 2. Page Retrieval ─────────────────────────────────────────────────

	pageQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		productColumns(),
		schema.CatalogProduct.Table,
		where,
		schema.CatalogProduct.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, pageQuery, keywordPattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_catalog_repo_list_scan_failed: %w", err)
		}
		products = append(products, product)
	}

	return products, total, rows.Err()
}

/*
TopRated retrieves the highest-rated products.

Ties on rating break on review count, so a product rated 4.5 over thirty
reviews outranks one rated 4.5 over two.

Parameters:
  - ctx: context.Context
  - limit: int

Returns:
  - []*Product: Up to limit products, best first
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) TopRated(ctx context.Context, limit int) ([]*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s IS NULL
		ORDER BY %s DESC, %s DESC
		LIMIT $1`,
		productColumns(),
		schema.CatalogProduct.Table,
		schema.CatalogProduct.DeletedAt,
		schema.CatalogProduct.Rating, schema.CatalogProduct.NumReviews,
	)

	rows, err := repository.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_catalog_repo_top_failed: %w", err)
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_catalog_repo_top_scan_failed: %w", err)
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

/*
FindProduct retrieves a single product hydrated with all of its reviews,
newest review first.

Parameters:
  - ctx: context.Context
  - id: string (UUID)

Returns:
  - *Product: Product with embedded reviews
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindProduct(ctx context.Context, id string) (*Product, error) {
	productQuery := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		productColumns(),
		schema.CatalogProduct.Table,
		schema.CatalogProduct.ID, schema.CatalogProduct.DeletedAt,
	)

	product, err := scanProduct(repository.pool.QueryRow(ctx, productQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Product")
		}
		return nil, fmt.Errorf("postgres_catalog_repo_find_failed: %w", err)
	}

	reviewQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC`,
		schema.CatalogReview.ID, schema.CatalogReview.ProductID, schema.CatalogReview.UserID,
		schema.CatalogReview.UserName, schema.CatalogReview.Rating, schema.CatalogReview.Comment,
		schema.CatalogReview.CreatedAt,
		schema.CatalogReview.Table,
		schema.CatalogReview.ProductID,
		schema.CatalogReview.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, reviewQuery, id)
	if err != nil {
		return nil, fmt.Errorf("postgres_catalog_repo_reviews_failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		review := &Review{}
		err := rows.Scan(
			&review.ID,
			&review.ProductID,
			&review.UserID,
			&review.Name,
			&review.Rating,
			&review.Comment,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_catalog_repo_reviews_scan_failed: %w", err)
		}
		product.Reviews = append(product.Reviews, review)
	}

	return product, rows.Err()
}

/*
CreateProduct persists a new product row with zeroed rating aggregates.

Parameters:
  - ctx: context.Context
  - product: *Product

Returns:
  - error: Insertion failures
*/
func (repository *PostgresRepository) CreateProduct(ctx context.Context, product *Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s, %s`,
		schema.CatalogProduct.Table,
		schema.CatalogProduct.ID, schema.CatalogProduct.Name, schema.CatalogProduct.Slug,
		schema.CatalogProduct.Image, schema.CatalogProduct.Brand, schema.CatalogProduct.Category,
		schema.CatalogProduct.Description, schema.CatalogProduct.Price, schema.CatalogProduct.CountInStock,
		schema.CatalogProduct.CreatedBy,
		schema.CatalogProduct.CreatedAt, schema.CatalogProduct.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Image,
		product.Brand,
		product.Category,
		product.Description,
		product.Price,
		product.CountInStock,
		product.CreatedBy,
	).Scan(&product.CreatedAt, &product.UpdatedAt)

	if err != nil {
		return fmt.Errorf("postgres_catalog_repo_create_failed: %w", err)
	}

	return nil
}

/*
UpdateProduct modifies the descriptive fields and stock of a product and
refreshes the updatedat timestamp. The rating aggregates are untouched.

Parameters:
  - ctx: context.Context
  - product: *Product

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) UpdateProduct(ctx context.Context, product *Product) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10
		WHERE %s = $1 AND %s IS NULL`,
		schema.CatalogProduct.Table,
		schema.CatalogProduct.Name, schema.CatalogProduct.Slug, schema.CatalogProduct.Image,
		schema.CatalogProduct.Brand, schema.CatalogProduct.Category, schema.CatalogProduct.Description,
		schema.CatalogProduct.Price, schema.CatalogProduct.CountInStock, schema.CatalogProduct.UpdatedAt,
		schema.CatalogProduct.ID, schema.CatalogProduct.DeletedAt,
	)

	_, err := repository.pool.Exec(ctx, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Image,
		product.Brand,
		product.Category,
		product.Description,
		product.Price,
		product.CountInStock,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("postgres_catalog_repo_update_failed: %w", err)
	}

	return nil
}

/*
SoftDeleteProduct flags a product as logically destroyed.

Parameters:
  - ctx: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresRepository) SoftDeleteProduct(ctx context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1`,
		schema.CatalogProduct.Table, schema.CatalogProduct.DeletedAt, schema.CatalogProduct.ID)

	_, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_catalog_repo_soft_delete_failed: %w", err)
	}

	return nil
}

/*
AddReview inserts a review and recomputes the product's rating aggregates in
a single transaction.

Description: The insert and the aggregate update either both land or neither
does, so a concurrent reader never sees a review count that disagrees with
the stored mean. The unique index on (productid, userid) is the final
arbiter for duplicates, which also closes the race between two simultaneous
first reviews from the same user.

Parameters:
  - ctx: context.Context
  - review: *Review

Returns:
  - error: ErrDuplicateReview, or transaction failures
*/
func (repository *PostgresRepository) AddReview(ctx context.Context, review *Review) error {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres_catalog_repo_review_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	// ── 1. Review Insertion ───────────────────────────────────────────────

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`,
		schema.CatalogReview.Table,
		schema.CatalogReview.ID, schema.CatalogReview.ProductID, schema.CatalogReview.UserID,
		schema.CatalogReview.UserName, schema.CatalogReview.Rating, schema.CatalogReview.Comment,
		schema.CatalogReview.CreatedAt,
	)

	err = transaction.QueryRow(ctx, insertQuery,
		review.ID,
		review.ProductID,
		review.UserID,
		review.Name,
		review.Rating,
		review.Comment,
	).Scan(&review.CreatedAt)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrDuplicateReview
		}
		return fmt.Errorf("postgres_catalog_repo_review_insert_failed: %w", err)
	}

	// ── 2. Aggregate Recomputation ────────────────────────────────────────

	// Recompute from the review rows rather than incrementally adjusting,
	// so the aggregates can never drift.
	aggregateQuery := fmt.Sprintf(`
		UPDATE %s AS p
		SET %s = agg.review_count,
		    %s = agg.mean_rating,
		    %s = NOW()
		FROM (
			SELECT COUNT(*) AS review_count,
			       ROUND(AVG(%s)::numeric, 1) AS mean_rating
			FROM %s
			WHERE %s = $1
		) AS agg
		WHERE p.%s = $1`,
		schema.CatalogProduct.Table,
		schema.CatalogProduct.NumReviews,
		schema.CatalogProduct.Rating,
		schema.CatalogProduct.UpdatedAt,
		schema.CatalogReview.Rating,
		schema.CatalogReview.Table,
		schema.CatalogReview.ProductID,
		schema.CatalogProduct.ID,
	)

	if _, err := transaction.Exec(ctx, aggregateQuery, review.ProductID); err != nil {
		return fmt.Errorf("postgres_catalog_repo_review_aggregate_failed: %w", err)
	}

	if err := transaction.Commit(ctx); err != nil {
		return fmt.Errorf("postgres_catalog_repo_review_commit_failed: %w", err)
	}

	return nil
}
