// Copyright (c) 2026 Aeroray. All rights reserved.

package order_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroray/storefront/internal/order"
	"github.com/aeroray/storefront/internal/platform/apperr"
	"github.com/aeroray/storefront/pkg/uuidv7"
)

// fakeRepository is an in-memory [order.Repository] for service tests. It
// mirrors the production monotonic paid/delivered semantics.
type fakeRepository struct {
	orders   map[string]*order.Order
	sequence int
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{orders: make(map[string]*order.Order)}
}

func (f *fakeRepository) Create(_ context.Context, purchase *order.Order) error {
	f.sequence++
	purchase.CreatedAt = time.Unix(int64(f.sequence), 0)
	purchase.UpdatedAt = purchase.CreatedAt
	f.orders[purchase.ID] = purchase
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*order.Order, error) {
	purchase, ok := f.orders[id]
	if !ok {
		return nil, apperr.NotFound("Order")
	}
	return purchase, nil
}

func (f *fakeRepository) ListByUser(_ context.Context, userID string) ([]*order.Order, error) {
	var matches []*order.Order
	for _, purchase := range f.orders {
		if purchase.UserID == userID {
			matches = append(matches, purchase)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

func (f *fakeRepository) ListAll(_ context.Context) ([]*order.Order, error) {
	var all []*order.Order
	for _, purchase := range f.orders {
		all = append(all, purchase)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (f *fakeRepository) MarkPaid(_ context.Context, id string, result *order.PaymentResult) error {
	purchase, ok := f.orders[id]
	if !ok {
		return apperr.NotFound("Order")
	}
	purchase.IsPaid = true
	if purchase.PaidAt == nil {
		now := time.Now()
		purchase.PaidAt = &now
	}
	purchase.PaymentResult = result
	return nil
}

func (f *fakeRepository) MarkDelivered(_ context.Context, id string) error {
	purchase, ok := f.orders[id]
	if !ok {
		return apperr.NotFound("Order")
	}
	purchase.IsDelivered = true
	if purchase.DeliveredAt == nil {
		now := time.Now()
		purchase.DeliveredAt = &now
	}
	return nil
}

func newTestService(repository order.Repository) *order.Service {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return order.NewService(repository, logger)
}

func validCreateInput() order.CreateInput {
	return order.CreateInput{
		Items: []order.Item{
			{ProductID: uuidv7.New(), Name: "Keyboard", Image: "/images/kb.jpg", Qty: 2, Price: 49.99},
		},
		ShippingAddress: order.ShippingAddress{
			Address:    "1 Infinite Loop",
			City:       "Cupertino",
			PostalCode: "95014",
			Country:    "USA",
		},
		PaymentMethod: "PayPal",
		ItemsPrice:    99.98,
		TaxPrice:      10.0,
		ShippingPrice: 5.0,
		TotalPrice:    114.98,
	}
}

/*
TestService_Create covers checkout, including the empty-cart rejection.
*/
func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success_returns_order_id", func(t *testing.T) {
		repository := newFakeRepository()
		service := newTestService(repository)

		response, err := service.Create(ctx, "user-1", validCreateInput())
		require.NoError(t, err)
		assert.NotEmpty(t, response.OrderID)

		stored := repository.orders[response.OrderID]
		require.NotNil(t, stored)
		assert.Equal(t, "user-1", stored.UserID)
		assert.False(t, stored.IsPaid)
		assert.False(t, stored.IsDelivered)
		assert.Nil(t, stored.PaidAt)
	})

	t.Run("empty_items_rejected", func(t *testing.T) {
		service := newTestService(newFakeRepository())

		input := validCreateInput()
		input.Items = nil

		_, err := service.Create(ctx, "user-1", input)
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		assert.Equal(t, "NO_ORDER_ITEMS", ae.Code)
	})

	t.Run("items_are_snapshots", func(t *testing.T) {
		repository := newFakeRepository()
		service := newTestService(repository)

		input := validCreateInput()
		response, err := service.Create(ctx, "user-1", input)
		require.NoError(t, err)

		// Mutating the caller's slice after checkout must not reach the
		// stored order.
		originalName := repository.orders[response.OrderID].Items[0].Name
		input.Items[0].Name = "Renamed"
		assert.Equal(t, originalName, repository.orders[response.OrderID].Items[0].Name)
	})
}

/*
TestService_MarkPaid verifies the monotonic paid flag and the last-write-wins
payment result.
*/
func TestService_MarkPaid(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository()
	service := newTestService(repository)

	created, err := service.Create(ctx, "user-1", validCreateInput())
	require.NoError(t, err)

	t.Run("first_confirmation_sets_flag_and_timestamp", func(t *testing.T) {
		updated, err := service.MarkPaid(ctx, created.OrderID, &order.PaymentResult{
			ID: "PAY-1", Status: "COMPLETED", UpdateTime: "2026-08-30T10:00:00Z", EmailAddress: "payer@example.com",
		})
		require.NoError(t, err)

		assert.True(t, updated.IsPaid)
		require.NotNil(t, updated.PaidAt)
		require.NotNil(t, updated.PaymentResult)
		assert.Equal(t, "PAY-1", updated.PaymentResult.ID)
	})

	t.Run("repeat_overwrites_result_but_keeps_timestamp", func(t *testing.T) {
		firstPaidAt := repository.orders[created.OrderID].PaidAt

		updated, err := service.MarkPaid(ctx, created.OrderID, &order.PaymentResult{
			ID: "PAY-2", Status: "COMPLETED", UpdateTime: "2026-08-30T11:00:00Z", EmailAddress: "payer@example.com",
		})
		require.NoError(t, err)

		assert.True(t, updated.IsPaid)
		assert.Equal(t, firstPaidAt, updated.PaidAt)
		assert.Equal(t, "PAY-2", updated.PaymentResult.ID)
	})

	t.Run("missing_order_not_found", func(t *testing.T) {
		_, err := service.MarkPaid(ctx, uuidv7.New(), &order.PaymentResult{ID: "PAY-3"})
		require.Error(t, err)

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, http.StatusNotFound, ae.HTTPStatus)
	})
}

/*
TestService_MarkDelivered verifies the monotonic delivered flag.
*/
func TestService_MarkDelivered(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository()
	service := newTestService(repository)

	created, err := service.Create(ctx, "user-1", validCreateInput())
	require.NoError(t, err)

	updated, err := service.MarkDelivered(ctx, created.OrderID)
	require.NoError(t, err)
	assert.True(t, updated.IsDelivered)
	require.NotNil(t, updated.DeliveredAt)

	// Repeated delivery keeps the original timestamp.
	firstDeliveredAt := updated.DeliveredAt
	updated, err = service.MarkDelivered(ctx, created.OrderID)
	require.NoError(t, err)
	assert.Equal(t, firstDeliveredAt, updated.DeliveredAt)
}

/*
TestService_Listings covers the per-user history and the admin overview.
*/
func TestService_Listings(t *testing.T) {
	ctx := context.Background()
	repository := newFakeRepository()
	service := newTestService(repository)

	for i := 0; i < 3; i++ {
		_, err := service.Create(ctx, "alice", validCreateInput())
		require.NoError(t, err)
	}
	_, err := service.Create(ctx, "bob", validCreateInput())
	require.NoError(t, err)

	t.Run("my_orders_only_mine", func(t *testing.T) {
		orders, err := service.MyOrders(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, orders, 3)
	})

	t.Run("my_orders_empty_is_an_array", func(t *testing.T) {
		orders, err := service.MyOrders(ctx, "carol")
		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
	})

	t.Run("admin_sees_everything", func(t *testing.T) {
		orders, err := service.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, orders, 4)
	})
}
