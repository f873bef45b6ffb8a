package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugifyName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Central Hospital", "central-hospital"},
		{"diacritics folded", "Café Delight", "cafe-delight"},
		{"punctuation stripped", "Luigi's Pizza Corner!", "luigi-s-pizza-corner"},
		{"whitespace collapsed", "Global   Trade \t Solutions", "global-trade-solutions"},
		{"leading and trailing junk", "  ***Metro General***  ", "metro-general"},
		{"digits kept", "7-Eleven 24hrs", "7-eleven-24hrs"},
		{"no usable characters", "!!! ???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlugifyName(tt.in))
		})
	}
}

func TestSlugifyNameBoundedLength(t *testing.T) {
	long := strings.Repeat("verylongbusinessname ", 10)
	slug := SlugifyName(long)
	assert.LessOrEqual(t, len(slug), maxSlugBaseLength)
	assert.False(t, strings.HasSuffix(slug, "-"))
	assert.False(t, strings.HasPrefix(slug, "-"))
}

func TestSlugSuffix(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		suffix := SlugSuffix()
		assert.Len(t, suffix, 8)
		assert.False(t, seen[suffix], "suffix %q repeated", suffix)
		seen[suffix] = true
	}
}
