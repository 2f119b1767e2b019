package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindSimilar(t *testing.T) {
	candidates := []string{"PetStore", "Admin", "PetStores", "Billing"}

	tests := []struct {
		name   string
		target string
		opts   *FuzzyMatchOptions
		want   []string
	}{
		{"closest first", "PetStor", nil, []string{"PetStore", "PetStores"}},
		{"case insensitive by default", "petstore", nil, []string{"PetStore", "PetStores"}},
		{"case sensitive", "petstore", &FuzzyMatchOptions{CaseSensitive: true, MaxDistance: 1}, nil},
		{"limited suggestions", "PetStor", &FuzzyMatchOptions{MaxSuggestions: 1}, []string{"PetStore"}},
		{"nothing close", "Inventory", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindSimilar(tt.target, candidates, tt.opts))
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 3, LevenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 3, LevenshteinDistance("saturday", "sunday"))
	assert.Equal(t, 4, LevenshteinDistance("", "pets"))
	assert.Equal(t, 0, LevenshteinDistance("pets", "pets"))
	assert.Equal(t, 1, LevenshteinDistance("café", "cafe"))
}
