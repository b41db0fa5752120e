// Copyright (c) 2026 Aeroray. All rights reserved.

package users

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aeroray/storefront/internal/platform/middleware"
	requestutil "github.com/aeroray/storefront/internal/platform/request"
	"github.com/aeroray/storefront/internal/platform/respond"
	"github.com/aeroray/storefront/internal/platform/sec"
)

// Handler implements the user-facing and administrative account endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the account routes.
//
// # Endpoints
//   - POST /            : Creates a new account (public).
//   - POST /login       : Authenticates and returns a token (public).
//   - PUT  /profile     : Self-service profile update (authenticated).
//   - GET  /            : Lists all accounts (admin).
//   - PUT  /{id}        : Administrative account update (admin).
//   - DELETE /{id}      : Soft-deletes an account (admin).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public
	router.Post("/", handler.register)
	router.Post("/login", handler.login)

	// Authenticated self-service
	router.With(middleware.RequireAuth).Put("/profile", handler.updateProfile)

	// Admin only
	router.Group(func(adminRoute chi.Router) {
		adminRoute.Use(middleware.RequireAdmin)

		adminRoute.Get("/", handler.listUsers)
		adminRoute.Put("/{id}", handler.adminUpdateUser)
		adminRoute.Delete("/{id}", handler.deleteUser)
	})

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// register handles POST /api/users requests.
//
// # Returns
//   - HTTP 201 Created with the profile and token on success.
//   - HTTP 400 Bad Request if validation rules fail.
//   - HTTP 409 Conflict if the email is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	response, err := handler.service.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, response)
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/users/login requests.
//
// # Returns
//   - HTTP 200 OK with the profile and token on success.
//   - HTTP 401 Unauthorized for bad credentials (no reason leaked).
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	response, err := handler.service.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, response)
}

// listUsers handles GET /api/users (admin).
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	allUsers, err := handler.service.ListUsers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, allUsers)
}

// profileRequest represents the JSON payload for a self-service update.
type profileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// updateProfile handles PUT /api/users/profile (authenticated).
func (handler *Handler) updateProfile(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input profileRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	response, err := handler.service.UpdateProfile(request.Context(), identity.ID, ProfileInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, response)
}

// adminUpdateRequest represents the JSON payload for an administrative update.
type adminUpdateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// adminUpdateUser handles PUT /api/users/{id} (admin). Responds 204.
func (handler *Handler) adminUpdateUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ValidID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input adminUpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	err = handler.service.AdminUpdateUser(request.Context(), userID, AdminUpdateInput{
		Name:  input.Name,
		Email: input.Email,
		Role:  sec.Role(input.Role),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// deleteUser handles DELETE /api/users/{id} (admin). Responds 200 with a message.
func (handler *Handler) deleteUser(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ValidID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteUser(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "User deleted")
}
