package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "Netflix", "Netflix", 1},
		{"case and whitespace folded", "  netflix ", "NETFLIX", 1},
		{"both empty", "", "", 0},
		{"one empty", "Netflix", "", 0},
		{"one edit of seven runes", "netflix", "netflux", 1 - 1.0/7},
		{"completely different", "abc", "xyz", 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, Similarity(tc.a, tc.b), 1e-9)
		})
	}
}

func TestSimilaritySymmetry(t *testing.T) {
	pairs := [][2]string{
		{"Netflix", "Netflix 15.99"},
		{"Coffee shop", "coffee  shop"},
		{"a", "abcdef"},
		{"", "something"},
	}
	for _, p := range pairs {
		assert.Equal(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), "pair %q/%q", p[0], p[1])
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"abc", "abc", 0},
		{"", "abc", 3},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, levenshtein(tc.a, tc.b), "%q vs %q", tc.a, tc.b)
	}
}
