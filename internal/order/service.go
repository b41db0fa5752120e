// Copyright (c) 2026 Aeroray. All rights reserved.

package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aeroray/storefront/internal/platform/apperr"
	"github.com/aeroray/storefront/internal/platform/validate"
	"github.com/aeroray/storefront/pkg/uuidv7"
)

// Service implements purchase use cases.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// CreateInput holds a checkout submission.
type CreateInput struct {
	Items           []Item
	ShippingAddress ShippingAddress
	PaymentMethod   string
	ItemsPrice      float64
	TaxPrice        float64
	ShippingPrice   float64
	TotalPrice      float64
}

// CreatedResponse is the body returned by a successful checkout.
type CreatedResponse struct {
	OrderID string `json:"orderId"`
}

// Create records a new order owned by the given user.
//
// # Business Rules
//   - An order without line items is rejected; there is nothing to buy.
//   - Line items are stored as snapshots. Later product edits or deletions
//     never reach back into existing orders.
func (service *Service) Create(ctx context.Context, userID string, input CreateInput) (*CreatedResponse, error) {
	if len(input.Items) == 0 {
		return nil, apperr.BadRequest("NO_ORDER_ITEMS", "No order items")
	}

	validator := &validate.Validator{}
	validator.
		Required(FieldPaymentMethod, input.PaymentMethod).
		Required(FieldShippingAddress, input.ShippingAddress.Address)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	purchase := &Order{
		ID:              uuidv7.New(),
		UserID:          userID,
		Items:           append([]Item(nil), input.Items...), // own the snapshot

		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      input.ItemsPrice,
		TaxPrice:        input.TaxPrice,
		ShippingPrice:   input.ShippingPrice,
		TotalPrice:      input.TotalPrice,
	}

	if err := service.repository.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("order_service_create_failed: %w", err)
	}

	service.logger.Info("order_created",
		slog.String("order_id", purchase.ID),
		slog.String("user_id", userID),
		slog.Int("item_count", len(purchase.Items)),
	)

	return &CreatedResponse{OrderID: purchase.ID}, nil
}

// Get returns a single order with its owner's name and email.
func (service *Service) Get(ctx context.Context, id string) (*Order, error) {
	return service.repository.FindByID(ctx, id)
}

// MyOrders returns the caller's order history, newest first.
func (service *Service) MyOrders(ctx context.Context, userID string) ([]*Order, error) {
	orders, err := service.repository.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*Order{}
	}
	return orders, nil
}

// ListAll returns every order for the administrative overview.
func (service *Service) ListAll(ctx context.Context) ([]*Order, error) {
	orders, err := service.repository.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []*Order{}
	}
	return orders, nil
}

// MarkPaid records a payment confirmation and returns the updated order.
//
// The paid flag is monotonic: the first confirmation sets it and stamps
// paidAt, repeats leave both alone. The payment result itself is overwritten
// verbatim on every call, so the stored confirmation always reflects the
// provider's latest word.
func (service *Service) MarkPaid(ctx context.Context, id string, result *PaymentResult) (*Order, error) {
	// Confirm existence first so absent ids answer 404.
	if _, err := service.repository.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if err := service.repository.MarkPaid(ctx, id, result); err != nil {
		return nil, fmt.Errorf("order_service_mark_paid_failed: %w", err)
	}

	service.logger.Info("order_paid",
		slog.String("order_id", id),
		slog.String("payment_status", result.Status),
	)

	return service.repository.FindByID(ctx, id)
}

// MarkDelivered flags an order as delivered and returns the updated order.
// Like the paid flag, delivery is monotonic.
func (service *Service) MarkDelivered(ctx context.Context, id string) (*Order, error) {
	if _, err := service.repository.FindByID(ctx, id); err != nil {
		return nil, err
	}

	if err := service.repository.MarkDelivered(ctx, id); err != nil {
		return nil, fmt.Errorf("order_service_mark_delivered_failed: %w", err)
	}

	service.logger.Info("order_delivered", slog.String("order_id", id))

	return service.repository.FindByID(ctx, id)
}
