package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapValue(t *testing.T) {
	tests := []struct {
		name                              string
		value, srcMin, srcMax, dMin, dMax float64
		want                              float64
	}{
		{"midpoint", 1, 0, 2, 4, 8, 6},
		{"identity", 3.5, 0, 10, 0, 10, 3.5},
		{"lower bound", 0, 0, 2, 4, 8, 4},
		{"upper bound", 2, 0, 2, 4, 8, 8},
		{"inverted target", 1, 0, 4, 10, 0, 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MapValue(tt.value, tt.srcMin, tt.srcMax, tt.dMin, tt.dMax), 1e-9)
		})
	}
}

func TestAlignmentCell(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 24, 1},
		{-24, 24, 0},
		{24, 24, 2},
		{-9, 24, 0},
		{-8, 24, 0},
		{-7, 24, 1},
		{8, 24, 1},
		{9, 24, 2},
		{0, 3, 1},
		{100, 24, 2},
		{-100, 24, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AlignmentCell(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}
