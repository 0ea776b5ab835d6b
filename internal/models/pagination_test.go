package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampPage(t *testing.T) {
	tests := []struct {
		name          string
		page          int
		limit         int
		expectedPage  int
		expectedLimit int
	}{
		{"defaults", 0, 0, 1, 10},
		{"negative values", -3, -1, 1, 10},
		{"valid values pass through", 2, 25, 2, 25},
		{"limit capped", 1, 500, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := ClampPage(tt.page, tt.limit)

			assert.Equal(t, tt.expectedPage, page)
			assert.Equal(t, tt.expectedLimit, limit)
		})
	}
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name               string
		page, limit, total int
		expectedTotalPages int
	}{
		{"exact fit", 1, 10, 20, 2},
		{"partial last page", 1, 10, 21, 3},
		{"empty result", 1, 10, 0, 0},
		{"single row", 1, 10, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)

			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.total, p.Total)
			assert.Equal(t, tt.expectedTotalPages, p.TotalPages)
		})
	}
}
