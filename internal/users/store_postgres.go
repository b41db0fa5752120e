// Copyright (c) 2026 Aeroray. All rights reserved.

/*
Users (Postgres) implements the storage layer for account records.

# Schema Table Mapping
  - users.account: Master identity, credentials, and role data.
*/

package users

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

// NewPostgresRepository creates a new Postgres implementation for account storage.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
FindByID retrieves a user record from the users.account table.

Parameters:
  - ctx: context.Context
  - id: string (UUID)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.ID, schema.UserAccount.Name, schema.UserAccount.Email,
		schema.UserAccount.PasswordHash, schema.UserAccount.Role,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	return repository.scanOne(ctx, query, id)
}

/*
FindByEmail retrieves a user record by its unique email.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.ID, schema.UserAccount.Name, schema.UserAccount.Email,
		schema.UserAccount.PasswordHash, schema.UserAccount.Role,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.DeletedAt,
	)

	return repository.scanOne(ctx, query, email)
}

/*
List retrieves every non-deleted account, newest first.

Parameters:
  - ctx: context.Context

Returns:
  - []*User: Collection of accounts
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) List(ctx context.Context) ([]*User, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s IS NULL
		ORDER BY %s DESC`,
		schema.UserAccount.ID, schema.UserAccount.Name, schema.UserAccount.Email,
		schema.UserAccount.PasswordHash, schema.UserAccount.Role,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table,
		schema.UserAccount.DeletedAt,
		schema.UserAccount.CreatedAt,
	)

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_users_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var userList []*User
	for rows.Next() {
		user := &User{}
		err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres_users_repo_list_scan_failed: %w", err)
		}
		userList = append(userList, user)
	}

	return userList, rows.Err()
}

/*
Create persists a brand-new account row.

Parameters:
  - ctx: context.Context
  - user: *User

Returns:
  - error: apperr.Conflict for duplicate emails, or insertion failures
*/
func (repository *PostgresRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Name, schema.UserAccount.Email,
		schema.UserAccount.PasswordHash, schema.UserAccount.Role,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	err := repository.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		// Registration races on the same email land here; the unique index
		// on users.account(email) is the final arbiter.
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_users_repo_create_failed: %w", err)
	}

	return nil
}

/*
Update modifies the mutable fields of an account (name, email, role) and
refreshes the updatedat timestamp.

Parameters:
  - ctx: context.Context
  - user: *User

Returns:
  - error: apperr.Conflict for duplicate emails, or update failures
*/
func (repository *PostgresRepository) Update(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.Name, schema.UserAccount.Email, schema.UserAccount.Role,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Role,
		time.Now(),
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Email is already registered")
		}
		return fmt.Errorf("postgres_users_repo_update_failed: %w", err)
	}

	return nil
}

/*
SoftDelete flags an account as logically destroyed. The row stays behind
for auditing, but all future lookups skip it.

Parameters:
  - ctx: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresRepository) SoftDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.DeletedAt, schema.UserAccount.ID)

	_, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("postgres_users_repo_soft_delete_failed: %w", err)
	}

	return nil
}

// scanOne runs a single-row account query and hydrates the entity.
func (repository *PostgresRepository) scanOne(ctx context.Context, query string, argument any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(ctx, query, argument).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_users_repo_find_failed: %w", err)
	}

	return user, nil
}
