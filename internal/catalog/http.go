// Copyright (c) 2026 Aeroray. All rights reserved.

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aeroray/storefront/internal/platform/constants"
	"github.com/aeroray/storefront/internal/platform/middleware"
	requestutil "github.com/aeroray/storefront/internal/platform/request"
	"github.com/aeroray/storefront/internal/platform/respond"
	"github.com/aeroray/storefront/pkg/pagination"
)

// Handler implements the catalogue endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the catalogue routes.
//
// # Endpoints
//   - GET    /             : Paginated keyword search (public).
//   - GET    /top          : Highest-rated products (public).
//   - GET    /{id}         : Single product with reviews (public).
//   - POST   /{id}/review  : Submit a review (authenticated).
//   - POST   /             : Create a product (admin).
//   - PUT    /{id}         : Update a product (admin).
//   - DELETE /{id}         : Soft-delete a product (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public browsing
	router.Get("/", handler.listProducts)
	router.Get("/top", handler.topProducts)
	router.Get("/{id}", handler.getProduct)

	// Authenticated customers
	router.With(middleware.RequireAuth).Post("/{id}/review", handler.addReview)

	// Admin only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireAdmin)

		adminRoute.Post("/", handler.createProduct)
		adminRoute.Put("/{id}", handler.updateProduct)
		adminRoute.Delete("/{id}", handler.deleteProduct)
	})

	return router
}

// listProducts handles GET /api/products.
//
// Query parameters: keyword (optional substring match), page (1-indexed).
// The response body is {"products": [...], "count": N} where count ignores
// pagination.
func (handler *Handler) listProducts(writer http.ResponseWriter, request *http.Request) {
	filter := Filter{Keyword: request.URL.Query().Get("keyword")}
	page := pagination.FromRequest(request, constants.ProductPageSize)

	productPage, err := handler.service.ListProducts(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, productPage)
}

// topProducts handles GET /api/products/top.
func (handler *Handler) topProducts(writer http.ResponseWriter, request *http.Request) {
	products, err := handler.service.TopProducts(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, products)
}

// getProduct handles GET /api/products/{id}. Malformed ids answer 400
// before any lookup.
func (handler *Handler) getProduct(writer http.ResponseWriter, request *http.Request) {
	productID, err := requestutil.ValidID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.GetProduct(request.Context(), productID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, product)
}

// productRequest represents the JSON payload for product creation and update.
type productRequest struct {
	Name         string  `json:"name"`
	Image        string  `json:"image"`
	Brand        string  `json:"brand"`
	Category     string  `json:"category"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"countInStock"`
}

func (p productRequest) toInput() ProductInput {
	return ProductInput{
		Name:         p.Name,
		Image:        p.Image,
		Brand:        p.Brand,
		Category:     p.Category,
		Description:  p.Description,
		Price:        p.Price,
		CountInStock: p.CountInStock,
	}
}

// createProduct handles POST /api/products (admin). Responds 201 with the
// full product.
func (handler *Handler) createProduct(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input productRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	product, err := handler.service.CreateProduct(request.Context(), identity.ID, input.toInput())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, product)
}

// updateProduct handles PUT /api/products/{id} (admin). Responds 204.
func (handler *Handler) updateProduct(writer http.ResponseWriter, request *http.Request) {
	productID, err := requestutil.ValidID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input productRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateProduct(request.Context(), productID, input.toInput()); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// deleteProduct handles DELETE /api/products/{id} (admin). Responds 200 with
// a message.
func (handler *Handler) deleteProduct(writer http.ResponseWriter, request *http.Request) {
	productID, err := requestutil.ValidID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteProduct(request.Context(), productID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Product deleted")
}

// reviewRequest represents the JSON payload for a review submission.
type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// addReview handles POST /api/products/{id}/review (authenticated). Responds
// 201 with an empty body.
func (handler *Handler) addReview(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	productID, err := requestutil.ValidID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.AddReview(request.Context(), identity, productID, ReviewInput{
		Rating:  input.Rating,
		Comment: input.Comment,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.CreatedEmpty(writer)
}
