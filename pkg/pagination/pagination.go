// Copyright (c) 2026 Aeroray. All rights reserved.

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how offsets are derived for SQL queries. The storefront catalogue uses a
// fixed page size, so only the page number is client-controlled.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and the fixed per-page limit.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// FromRequest parses the "page" query parameter from an HTTP request and
// binds it to the given fixed page size.
//
// # Clamping
//
// Invalid or negative page values are clamped to [DefaultPage].
func FromRequest(r *http.Request, pageSize int) Params {
	page := parseIntParam(r, "page", DefaultPage)

	if page < 1 {
		page = DefaultPage
	}

	return Params{Page: page, Limit: pageSize}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
