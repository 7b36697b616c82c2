package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name                string
		page, limit         string
		wantPage, wantLimit int
		wantOffset          int
	}{
		{"defaults", "", "", 1, 3, 0},
		{"third page", "3", "10", 3, 10, 20},
		{"garbage falls back", "x", "-4", 1, 3, 0},
		{"limit capped", "2", "500", 2, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPagination(tt.page, tt.limit, 3)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestSetTotal(t *testing.T) {
	p := newPagination("1", "3", 3)
	p.SetTotal(7)
	assert.Equal(t, int64(7), p.Total)
	assert.Equal(t, 3, p.LastPage)

	p.SetTotal(0)
	assert.Equal(t, 0, p.LastPage)
}
