package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   PageRequest
		want PageRequest
	}{
		{"defaults", PageRequest{}, PageRequest{Page: DefaultPage, Limit: DefaultLimit}},
		{"negative page", PageRequest{Page: -3, Limit: 5}, PageRequest{Page: 1, Limit: 5}},
		{"limit clamped", PageRequest{Page: 2, Limit: 500}, PageRequest{Page: 2, Limit: MaxLimit}},
		{"huge page clamped", PageRequest{Page: math.MaxInt, Limit: 10}, PageRequest{Page: math.MaxInt/10 + 1, Limit: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestPageRequest_OffsetDoesNotOverflow(t *testing.T) {
	assert.Equal(t, 20, PageRequest{Page: 3, Limit: 10}.Offset())
	assert.GreaterOrEqual(t, PageRequest{Page: math.MaxInt64 / 5, Limit: 10}.Normalize().Offset(), 0)
	assert.Equal(t, math.MaxInt, PageRequest{Page: math.MaxInt64 / 5, Limit: 10}.Offset())
}

func TestNewPaginatedResult(t *testing.T) {
	r := NewPaginatedResult[int](nil, 21, 1, 10)
	assert.Equal(t, 3, r.TotalPages)
	assert.NotNil(t, r.Items)
}
