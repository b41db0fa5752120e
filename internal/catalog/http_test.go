// Copyright (c) 2026 Aeroray. All rights reserved.

package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aeroray/storefront/internal/catalog"
	"github.com/aeroray/storefront/internal/platform/ctxutil"
	"github.com/aeroray/storefront/internal/platform/sec"
	"github.com/aeroray/storefront/pkg/uuidv7"
)

// handlerFixture wires a handler over the in-memory fakes.
type handlerFixture struct {
	handler    http.Handler
	service    *catalog.Service
	repository *fakeRepository
}

func newHandlerFixture() *handlerFixture {
	repository := newFakeRepository()
	service := newTestService(repository, &fakeTopCache{})
	return &handlerFixture{
		handler:    catalog.NewHandler(service).Routes(),
		service:    service,
		repository: repository,
	}
}

// do performs a request, optionally authenticated as the given identity.
func (fixture *handlerFixture) do(method, target, body string, identity *sec.Identity) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, target, strings.NewReader(body))
	if identity != nil {
		request = request.WithContext(ctxutil.WithIdentity(request.Context(), identity))
	}

	recorder := httptest.NewRecorder()
	fixture.handler.ServeHTTP(recorder, request)
	return recorder
}

func adminIdentity() *sec.Identity {
	return &sec.Identity{ID: uuidv7.New(), Name: "Root", Email: "root@aeroray.shop", Role: sec.RoleAdmin}
}

/*
TestHandler_ListProducts verifies the public listing body shape.
*/
func TestHandler_ListProducts(t *testing.T) {
	fixture := newHandlerFixture()

	for i := 0; i < 3; i++ {
		_, err := fixture.service.CreateProduct(context.Background(), "admin-id", validProductInput("Gadget "+string(rune('A'+i))))
		require.NoError(t, err)
	}

	recorder := fixture.do(http.MethodGet, "/?keyword=gadget", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Products []json.RawMessage `json:"products"`
		Count    int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Len(t, body.Products, 3)
	assert.Equal(t, 3, body.Count)
}

/*
TestHandler_GetProduct covers the id syntax guard and 404 mapping.
*/
func TestHandler_GetProduct(t *testing.T) {
	fixture := newHandlerFixture()

	created, err := fixture.service.CreateProduct(context.Background(), "admin-id", validProductInput("Widget"))
	require.NoError(t, err)

	t.Run("found", func(t *testing.T) {
		recorder := fixture.do(http.MethodGet, "/"+created.ID, "", nil)
		require.Equal(t, http.StatusOK, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "Widget", body["name"])
		assert.Equal(t, "widget", body["slug"])
	})

	t.Run("malformed_id_400_before_lookup", func(t *testing.T) {
		recorder := fixture.do(http.MethodGet, "/not-a-uuid", "", nil)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("absent_404", func(t *testing.T) {
		recorder := fixture.do(http.MethodGet, "/"+uuidv7.New(), "", nil)
		assert.Equal(t, http.StatusNotFound, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "Product not found", body["message"])
	})
}

/*
TestHandler_AdminGuards verifies the write routes reject anonymous and
non-admin callers with 401.
*/
func TestHandler_AdminGuards(t *testing.T) {
	fixture := newHandlerFixture()
	customer := testReviewer()
	productBody := `{"name":"N","image":"/i.jpg","brand":"B","category":"C","description":"D","price":1,"countInStock":1}`

	t.Run("anonymous_401", func(t *testing.T) {
		recorder := fixture.do(http.MethodPost, "/", productBody, nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("customer_401", func(t *testing.T) {
		recorder := fixture.do(http.MethodPost, "/", productBody, customer)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("admin_201", func(t *testing.T) {
		recorder := fixture.do(http.MethodPost, "/", productBody, adminIdentity())
		assert.Equal(t, http.StatusCreated, recorder.Code)
	})
}

/*
TestHandler_UpdateDelete verifies the bodiless 204 update and the message
envelope on delete.
*/
func TestHandler_UpdateDelete(t *testing.T) {
	fixture := newHandlerFixture()
	admin := adminIdentity()

	created, err := fixture.service.CreateProduct(context.Background(), admin.ID, validProductInput("Doomed"))
	require.NoError(t, err)

	t.Run("update_204", func(t *testing.T) {
		body := `{"name":"Renamed","image":"/i.jpg","brand":"B","category":"C","description":"D","price":2,"countInStock":3}`
		recorder := fixture.do(http.MethodPut, "/"+created.ID, body, admin)

		assert.Equal(t, http.StatusNoContent, recorder.Code)
		assert.Empty(t, recorder.Body.String())
	})

	t.Run("delete_200_with_message", func(t *testing.T) {
		recorder := fixture.do(http.MethodDelete, "/"+created.ID, "", admin)
		require.Equal(t, http.StatusOK, recorder.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "Product deleted", body["message"])
	})
}

/*
TestHandler_AddReview verifies the authenticated review route, the 201 empty
body, and the duplicate rejection envelope.
*/
func TestHandler_AddReview(t *testing.T) {
	fixture := newHandlerFixture()
	reviewer := testReviewer()

	created, err := fixture.service.CreateProduct(context.Background(), "admin-id", validProductInput("Reviewable"))
	require.NoError(t, err)

	t.Run("anonymous_401", func(t *testing.T) {
		recorder := fixture.do(http.MethodPost, "/"+created.ID+"/review", `{"rating":5,"comment":"ok"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("authenticated_201_empty", func(t *testing.T) {
		recorder := fixture.do(http.MethodPost, "/"+created.ID+"/review", `{"rating":5,"comment":"ok"}`, reviewer)
		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Empty(t, recorder.Body.String())
	})

	t.Run("duplicate_400", func(t *testing.T) {
		recorder := fixture.do(http.MethodPost, "/"+created.ID+"/review", `{"rating":4,"comment":"again"}`, reviewer)
		require.Equal(t, http.StatusBadRequest, recorder.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "Product already reviewed", body["message"])
	})
}
