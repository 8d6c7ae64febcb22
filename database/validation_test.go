package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateLimit(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{
			name:     "use provided limit",
			limit:    10,
			expected: 10,
		},
		{
			name:     "use default when zero",
			limit:    0,
			expected: defaultPageSize,
		},
		{
			name:     "use default when negative",
			limit:    -10,
			expected: defaultPageSize,
		},
		{
			name:     "cap at max",
			limit:    5000,
			expected: maxPageSize,
		},
		{
			name:     "exactly at max",
			limit:    maxPageSize,
			expected: maxPageSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateLimit(tt.limit, defaultPageSize, maxPageSize)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestValidateOffset(t *testing.T) {
	tests := []struct {
		name     string
		offset   int
		expected int
	}{
		{
			name:     "positive offset",
			offset:   10,
			expected: 10,
		},
		{
			name:     "zero offset",
			offset:   0,
			expected: 0,
		},
		{
			name:     "negative offset clamps to zero",
			offset:   -5,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateOffset(tt.offset)
			assert.Equal(t, tt.expected, result)
		})
	}
}
