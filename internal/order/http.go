// Copyright (c) 2026 Aeroray. All rights reserved.

package order

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aeroray/storefront/internal/platform/middleware"
	requestutil "github.com/aeroray/storefront/internal/platform/request"
	"github.com/aeroray/storefront/internal/platform/respond"
)

// Handler implements the purchase endpoints. Every route requires at least
// an authenticated identity.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the purchase routes.
//
// # Endpoints
//   - POST /               : Checkout (authenticated).
//   - GET  /myorders       : Caller's order history (authenticated).
//   - GET  /{id}           : Single order with owner contact (authenticated).
//   - PUT  /{id}/pay       : Record a payment confirmation (authenticated).
//   - GET  /               : All orders (admin).
//   - PUT  /{id}/deliver   : Flag delivery (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.Post("/", handler.create)
	router.Get("/myorders", handler.myOrders)
	router.Get("/{id}", handler.get)
	router.Put("/{id}/pay", handler.pay)

	// Admin only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireAdmin)

		adminRoute.Get("/", handler.listAll)
		adminRoute.Put("/{id}/deliver", handler.deliver)
	})

	return router
}

// createRequest represents the JSON payload for a checkout.
type createRequest struct {
	OrderItems      []Item          `json:"orderItems"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	ItemsPrice      float64         `json:"itemsPrice"`
	TaxPrice        float64         `json:"taxPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalPrice      float64         `json:"totalPrice"`
}

// create handles POST /api/orders. Responds 201 {"orderId": ...}.
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	response, err := handler.service.Create(request.Context(), identity.ID, CreateInput{
		Items:           input.OrderItems,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ItemsPrice:      input.ItemsPrice,
		TaxPrice:        input.TaxPrice,
		ShippingPrice:   input.ShippingPrice,
		TotalPrice:      input.TotalPrice,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, response)
}

// myOrders handles GET /api/orders/myorders.
func (handler *Handler) myOrders(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	orders, err := handler.service.MyOrders(request.Context(), identity.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, orders)
}

// get handles GET /api/orders/{id}.
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	orderID, err := requestutil.ValidID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	purchase, err := handler.service.Get(request.Context(), orderID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, purchase)
}

// listAll handles GET /api/orders (admin).
func (handler *Handler) listAll(writer http.ResponseWriter, request *http.Request) {
	orders, err := handler.service.ListAll(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, orders)
}

// payRequest mirrors the payment provider's confirmation body.
type payRequest struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
	Payer      struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

// pay handles PUT /api/orders/{id}/pay. Responds 200 with the updated order.
func (handler *Handler) pay(writer http.ResponseWriter, request *http.Request) {
	orderID, err := requestutil.ValidID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input payRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	purchase, err := handler.service.MarkPaid(request.Context(), orderID, &PaymentResult{
		ID:           input.ID,
		Status:       input.Status,
		UpdateTime:   input.UpdateTime,
		EmailAddress: input.Payer.EmailAddress,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, purchase)
}

// deliver handles PUT /api/orders/{id}/deliver (admin). Responds 200 with
// the updated order.
func (handler *Handler) deliver(writer http.ResponseWriter, request *http.Request) {
	orderID, err := requestutil.ValidID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	purchase, err := handler.service.MarkDelivered(request.Context(), orderID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, purchase)
}
