// Copyright (c) 2026 Aeroray. All rights reserved.

/*
Order (Postgres) implements the storage layer for purchases.

# Schema Table Mapping
  - orders.purchase: One row per order; items, shippingaddress, and
    paymentresult are JSONB so every lifecycle update is a single-row write.
  - users.account: Joined for owner name/email on detail and admin views.
*/

package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aeroray/storefront/internal/platform/apperr"
	"github.com/aeroray/storefront/internal/platform/database/schema"
)

// PostgresRepository implements [Repository] using pgx.
//
// JSONB columns are encoded and decoded by pgx's JSON codec directly from
// the entity types; there is no intermediate representation.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation for purchases.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// orderColumns is the canonical SELECT column list for purchase rows,
// qualified with the alias "o" for joined queries.
func orderColumns() string {
	columns := []string{
		schema.OrderPurchase.ID, schema.OrderPurchase.UserID, schema.OrderPurchase.Items,
		schema.OrderPurchase.ShippingAddress, schema.OrderPurchase.PaymentMethod,
		schema.OrderPurchase.ItemsPrice, schema.OrderPurchase.TaxPrice,
		schema.OrderPurchase.ShippingPrice, schema.OrderPurchase.TotalPrice,
		schema.OrderPurchase.IsPaid, schema.OrderPurchase.PaidAt, schema.OrderPurchase.PaymentResult,
		schema.OrderPurchase.IsDelivered, schema.OrderPurchase.DeliveredAt,
		schema.OrderPurchase.CreatedAt, schema.OrderPurchase.UpdatedAt,
	}

	list := ""
	for i, column := range columns {
		if i > 0 {
			list += ", "
		}
		list += "o." + column
	}
	return list
}

// scanOrder hydrates the purchase from a row matching [orderColumns]. Extra
// destinations follow the order columns (joined owner fields).
func scanOrder(row pgx.Row, purchase *Order, extra ...any) error {
	destinations := []any{
		&purchase.ID,
		&purchase.UserID,
		&purchase.Items,
		&purchase.ShippingAddress,
		&purchase.PaymentMethod,
		&purchase.ItemsPrice,
		&purchase.TaxPrice,
		&purchase.ShippingPrice,
		&purchase.TotalPrice,
		&purchase.IsPaid,
		&purchase.PaidAt,
		&purchase.PaymentResult,
		&purchase.IsDelivered,
		&purchase.DeliveredAt,
		&purchase.CreatedAt,
		&purchase.UpdatedAt,
	}
	destinations = append(destinations, extra...)

	return row.Scan(destinations...)
}

/*
Create persists a new purchase row.

Parameters:
  - ctx: context.Context
  - order: *Order

Returns:
  - error: Insertion failures
*/
func (repository *PostgresRepository) Create(ctx context.Context, order *Order) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING %s, %s`,
		schema.OrderPurchase.Table,
		schema.OrderPurchase.ID, schema.OrderPurchase.UserID, schema.OrderPurchase.Items,
		schema.OrderPurchase.ShippingAddress, schema.OrderPurchase.PaymentMethod,
		schema.OrderPurchase.ItemsPrice, schema.OrderPurchase.TaxPrice,
		schema.OrderPurchase.ShippingPrice, schema.OrderPurchase.TotalPrice,
		schema.OrderPurchase.CreatedAt, schema.OrderPurchase.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		order.ID,
		order.UserID,
		order.Items,
		order.ShippingAddress,
		order.PaymentMethod,
		order.ItemsPrice,
		order.TaxPrice,
		order.ShippingPrice,
		order.TotalPrice,
	).Scan(&order.CreatedAt, &order.UpdatedAt)

	if err != nil {
		return fmt.Errorf("postgres_order_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a purchase hydrated with the owner's name and email.

Parameters:
  - ctx: context.Context
  - id: string (UUID)

Returns:
  - *Order: Purchase with owner contact fields
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Order, error) {
	query := fmt.Sprintf(`
		SELECT %s, u.%s, u.%s
		FROM %s AS o
		JOIN %s AS u ON u.%s = o.%s
		WHERE o.%s = $1`,
		orderColumns(), schema.UserAccount.Name, schema.UserAccount.Email,
		schema.OrderPurchase.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.OrderPurchase.UserID,
		schema.OrderPurchase.ID,
	)

	purchase := &Order{}
	row := repository.pool.QueryRow(ctx, query, id)
	err := scanOrder(row, purchase, &purchase.UserName, &purchase.UserEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Order")
		}
		return nil, fmt.Errorf("postgres_order_repo_find_failed: %w", err)
	}

	return purchase, nil
}

/*
ListByUser retrieves the given user's purchases, newest first.

Parameters:
  - ctx: context.Context
  - userID: string

Returns:
  - []*Order: The user's order history
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Order, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s AS o
		WHERE o.%s = $1
		ORDER BY o.%s DESC`,
		orderColumns(),
		schema.OrderPurchase.Table,
		schema.OrderPurchase.UserID,
		schema.OrderPurchase.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("postgres_order_repo_list_by_user_failed: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		purchase := &Order{}
		if err := scanOrder(rows, purchase); err != nil {
			return nil, fmt.Errorf("postgres_order_repo_list_by_user_scan_failed: %w", err)
		}
		orders = append(orders, purchase)
	}

	return orders, rows.Err()
}

/*
ListAll retrieves every purchase with the owner's name attached, newest first.

Parameters:
  - ctx: context.Context

Returns:
  - []*Order: All orders for the administrative overview
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListAll(ctx context.Context) ([]*Order, error) {
	query := fmt.Sprintf(`
		SELECT %s, u.%s
		FROM %s AS o
		JOIN %s AS u ON u.%s = o.%s
		ORDER BY o.%s DESC`,
		orderColumns(), schema.UserAccount.Name,
		schema.OrderPurchase.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.OrderPurchase.UserID,
		schema.OrderPurchase.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_order_repo_list_all_failed: %w", err)
	}
	defer rows.Close()

	var orders []*Order
	for rows.Next() {
		purchase := &Order{}
		if err := scanOrder(rows, purchase, &purchase.UserName); err != nil {
			return nil, fmt.Errorf("postgres_order_repo_list_all_scan_failed: %w", err)
		}
		orders = append(orders, purchase)
	}

	return orders, rows.Err()
}

/*
MarkPaid records a payment confirmation.

Description: COALESCE keeps paidat monotonic; the first confirmation stamps
it and repeats leave it alone, while paymentresult is overwritten verbatim
on every call (last write wins).

Parameters:
  - ctx: context.Context
  - id: string
  - result: *PaymentResult

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) MarkPaid(ctx context.Context, id string, result *PaymentResult) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = TRUE,
		    %s = COALESCE(%s, NOW()),
		    %s = $2,
		    %s = NOW()
		WHERE %s = $1`,
		schema.OrderPurchase.Table,
		schema.OrderPurchase.IsPaid,
		schema.OrderPurchase.PaidAt, schema.OrderPurchase.PaidAt,
		schema.OrderPurchase.PaymentResult,
		schema.OrderPurchase.UpdatedAt,
		schema.OrderPurchase.ID,
	)

	_, err := repository.pool.Exec(ctx, query, id, result)
	if err != nil {
		return fmt.Errorf("postgres_order_repo_mark_paid_failed: %w", err)
	}

	return nil
}

/*
MarkDelivered flags a purchase as delivered. COALESCE keeps deliveredat
monotonic across repeated calls.

Parameters:
  - ctx: context.Context
  - id: string

Returns:
  - error: Update failures
*/
func (repository *PostgresRepository) MarkDelivered(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = TRUE,
		    %s = COALESCE(%s, NOW()),
		    %s = NOW()
		WHERE %s = $1`,
		schema.OrderPurchase.Table,
		schema.OrderPurchase.IsDelivered,
		schema.OrderPurchase.DeliveredAt, schema.OrderPurchase.DeliveredAt,
		schema.OrderPurchase.UpdatedAt,
		schema.OrderPurchase.ID,
	)

	_, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_order_repo_mark_delivered_failed: %w", err)
	}

	return nil
}
