// Copyright (c) 2026 Aeroray. All rights reserved.

package users

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aeroray/storefront/internal/platform/apperr"
	"github.com/aeroray/storefront/internal/platform/constants"
	"github.com/aeroray/storefront/internal/platform/sec"
	"github.com/aeroray/storefront/internal/platform/validate"
	"github.com/aeroray/storefront/pkg/uuidv7"
)

// TokenProvider defines the contract for issuing access tokens.
type TokenProvider interface {
	// GenerateToken creates a signed token bound to the given subject id.
	GenerateToken(subjectID string, timeToLive time.Duration) (string, error)
}

// Service implements account use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed carefully.
type Service struct {
	repository    Repository
	tokenProvider TokenProvider
	logger        *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repository Repository, tokenProvider TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		repository:    repository,
		tokenProvider: tokenProvider,
		logger:        logger,
	}
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register validates, hashes, and persists a brand new user account.
//
// # Returns
//   - An [*AuthResponse] carrying the profile and a fresh token.
//   - [apperr.Conflict] if the email is already registered.
//
// # Business Rules
//   - Emails must be unique.
//   - Default role is always customer.
func (service *Service) Register(ctx context.Context, input RegisterInput) (*AuthResponse, error) {
	// ── 1. Validation ─────────────────────────────────────────────────────

	validator := &validate.Validator{}
	validator.
		Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 100).
		Required(FieldEmail, input.Email).Email(FieldEmail, input.Email).
		MinLen(FieldPassword, input.Password, 8)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Uniqueness Check ───────────────────────────────────────────────

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.repository.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// ── 3. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("users_service_hash_failed: %w", err)
	}

	// ── 4. Entity Construction & Persistence ──────────────────────────────

	user := &User{
		ID:           uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleCustomer, // Rule: default role is always customer
	}

	if err := service.repository.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("users_service_register_failed: %w", err)
	}

	service.logger.Info("user_registered", slog.String("user_id", user.ID))

	return service.issueAuthResponse(user)
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// Login validates user credentials and issues a fresh access token.
//
// # Returns
//   - An [*AuthResponse] on success.
//   - [apperr.Unauthorized] if credentials do not match.
func (service *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	// ── 1. Fetch User Profile ─────────────────────────────────────────────

	user, err := service.repository.FindByEmail(ctx, input.Email)

	// Return generic unauthorized error to prevent email enumeration attacks.
	if err != nil {
		return nil, apperr.Unauthorized("Email and password do not match")
	}

	// ── 2. Security Verification ──────────────────────────────────────────

	// Bcrypt comparison is constant-time with respect to the stored hash.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Email and password do not match")
	}

	// ── 3. Token Issuance ─────────────────────────────────────────────────

	return service.issueAuthResponse(user)
}

// ListUsers returns every registered account. Administrative use only;
// the route is gated by the admin guard, not by this method.
func (service *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return service.repository.List(ctx)
}

// ProfileInput holds a self-service profile update.
//
// The current password must be supplied and must match; the account's
// password itself is not changed by this operation.
type ProfileInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateProfile lets the authenticated user change their own name and email.
//
// # Returns
//   - An [*AuthResponse] with a freshly issued token (the client replaces its
//     stored credential in one round trip).
//   - [apperr.Unauthorized] if the supplied current password does not match.
func (service *Service) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*AuthResponse, error) {
	validator := &validate.Validator{}
	validator.
		Required(FieldName, input.Name).MaxLen(FieldName, input.Name, 100).
		Required(FieldEmail, input.Email).Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.repository.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Re-authenticate before touching the profile.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Password could not be verified")
	}

	user.Name = input.Name
	user.Email = input.Email

	if err := service.repository.Update(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", user.ID))

	return service.issueAuthResponse(user)
}

// AdminUpdateInput holds an administrative account update.
type AdminUpdateInput struct {
	Name  string
	Email string
	Role  sec.Role
}

// AdminUpdateUser updates another account's name, email, and role.
func (service *Service) AdminUpdateUser(ctx context.Context, id string, input AdminUpdateInput) error {
	validator := &validate.Validator{}
	validator.
		Required(FieldName, input.Name).
		Required(FieldEmail, input.Email).Email(FieldEmail, input.Email).
		Custom(FieldRole, !input.Role.IsValid(), "Must be a known role")

	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.repository.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.Name = input.Name
	user.Email = input.Email
	user.Role = input.Role

	if err := service.repository.Update(ctx, user); err != nil {
		return err
	}

	service.logger.Info("user_updated_by_admin", slog.String("user_id", id))
	return nil
}

// DeleteUser soft-deletes an account.
//
// Outstanding tokens for the account stay cryptographically valid until
// expiry, but identity resolution fails from this point on, so they no
// longer authenticate.
func (service *Service) DeleteUser(ctx context.Context, id string) error {
	// Confirm existence first so absent ids answer 404 rather than silently
	// succeeding.
	if _, err := service.repository.FindByID(ctx, id); err != nil {
		return err
	}

	if err := service.repository.SoftDelete(ctx, id); err != nil {
		return err
	}

	service.logger.Warn("user_deleted", slog.String("user_id", id))
	return nil
}

// ResolveIdentity implements the middleware's identity resolution contract.
//
// It is read-only and strips the credential hash from the returned identity.
func (service *Service) ResolveIdentity(ctx context.Context, subjectID string) (*sec.Identity, error) {
	user, err := service.repository.FindByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return user.Identity(), nil
}

// issueAuthResponse bundles the public profile with a fresh access token.
func (service *Service) issueAuthResponse(user *User) (*AuthResponse, error) {
	token, err := service.tokenProvider.GenerateToken(user.ID, constants.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("users_service_token_generation_failed: %w", err)
	}

	return &AuthResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
		Token: token,
	}, nil
}
