// Copyright (c) 2026 Aeroray. All rights reserved.

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aeroray/storefront/pkg/pagination"
)

/*
TestFromRequest covers query parsing and clamping with a fixed page size.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantPage int
	}{
		{"default", "/products", 1},
		{"explicit_page", "/products?page=3", 3},
		{"zero_clamped", "/products?page=0", 1},
		{"negative_clamped", "/products?page=-2", 1},
		{"garbage_clamped", "/products?page=abc", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", tt.url, nil)
			params := pagination.FromRequest(request, 8)

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, 8, params.Limit)
		})
	}
}

/*
TestOffset verifies the SQL offset derivation.
*/
func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Params{Page: 1, Limit: 8}.Offset())
	assert.Equal(t, 8, pagination.Params{Page: 2, Limit: 8}.Offset())
	assert.Equal(t, 16, pagination.Params{Page: 3, Limit: 8}.Offset())
	assert.Equal(t, 0, pagination.Params{Page: 0, Limit: 8}.Offset())
}
