package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateCORSMiddleware(t *testing.T) {
	logger := createTestLogger()

	t.Run("Disabled_ReturnsNil", func(t *testing.T) {
		assert.Nil(t, createCORSMiddleware(false, "https://example.com", logger))
	})

	t.Run("Enabled_NoOrigins_ReturnsNil", func(t *testing.T) {
		assert.Nil(t, createCORSMiddleware(true, "", logger))
		assert.Nil(t, createCORSMiddleware(true, " , ,", logger))
	})

	t.Run("Enabled_WithOrigins", func(t *testing.T) {
		middleware := createCORSMiddleware(true, "https://a.example.com, https://b.example.com", logger)
		assert.NotNil(t, middleware)
	})
}

func TestParseOrigins(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "https://example.com", []string{"https://example.com"}},
		{"multiple_with_spaces", " https://a.com , https://b.com ", []string{"https://a.com", "https://b.com"}},
		{"drops_empty_entries", "https://a.com,,https://b.com,", []string{"https://a.com", "https://b.com"}},
		{"only_separators", ", ,", []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseOrigins(tc.input)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tc.want, got)
		})
	}
}
