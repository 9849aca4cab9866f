package paging_test

import (
	"testing"

	"github.com/nasermirzaei89/vidstream/paging"
	"github.com/stretchr/testify/assert"
)

func TestNewParams(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{name: "plain", page: 3, limit: 20, wantPage: 3, wantLimit: 20, wantOffset: 40},
		{name: "zero values fall back to defaults", page: 0, limit: 0, wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "negative values fall back to defaults", page: -2, limit: -5, wantPage: 1, wantLimit: 10, wantOffset: 0},
		{name: "limit is capped", page: 1, limit: 1000, wantPage: 1, wantLimit: 100, wantOffset: 0},
		{name: "first page has no offset", page: 1, limit: 25, wantPage: 1, wantLimit: 25, wantOffset: 0},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			params := paging.NewParams(tc.page, tc.limit)

			assert.Equal(t, tc.wantPage, params.Page)
			assert.Equal(t, tc.wantLimit, params.Limit)
			assert.Equal(t, tc.wantOffset, params.Offset())
		})
	}
}

func TestPageTotalPages(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name       string
		totalItems int
		limit      int
		want       int
	}{
		{name: "empty", totalItems: 0, limit: 10, want: 0},
		{name: "exact multiple", totalItems: 30, limit: 10, want: 3},
		{name: "partial last page", totalItems: 25, limit: 10, want: 3},
		{name: "single item", totalItems: 1, limit: 10, want: 1},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			page := paging.NewPage([]int{}, paging.NewParams(1, tc.limit), tc.totalItems)

			assert.Equal(t, tc.want, page.TotalPages())
		})
	}
}
