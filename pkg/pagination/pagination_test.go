// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkovalov/contactio/pkg/pagination"
)

/*
TestFromRequest tests query-parameter parsing and clamping.
*/
func TestFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 10, 0},
		{"explicit", "?limit=25&offset=50", 25, 50},
		{"zero_limit", "?limit=0", 10, 0},
		{"negative_limit", "?limit=-5", 10, 0},
		{"limit_above_max", "?limit=9999", 500, 0},
		{"negative_offset", "?offset=-10", 10, 0},
		{"garbage_values", "?limit=abc&offset=xyz", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/api/contacts"+tt.query, nil)

			params := pagination.FromRequest(request)

			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOffset, params.Offset)
		})
	}
}

/*
TestNewMeta tests that response metadata mirrors the request parameters.
*/
func TestNewMeta(t *testing.T) {
	meta := pagination.NewMeta(pagination.Params{Limit: 20, Offset: 40}, 123)

	assert.Equal(t, 20, meta.Limit)
	assert.Equal(t, 40, meta.Offset)
	assert.Equal(t, 123, meta.Total)
}
