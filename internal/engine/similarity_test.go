package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinRatio(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected float64
	}{
		{"identical", "john smith", "john smith", 1},
		{"both empty", "", "", 1},
		{"one empty", "john", "", 0},
		{"single edit", "jon smith", "john smith", 0.9},
		{"single substitution", "john smyth", "john smith", 0.9},
		{"substituted suffix", "ann lee z", "ann lee x", 8.0 / 9.0},
		{"completely different", "abcd", "wxyz", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, LevenshteinRatio(tt.a, tt.b), 1e-9)
		})
	}
}

func TestLevenshteinRatioBounds(t *testing.T) {
	pairs := [][2]string{
		{"a", "abcdefgh"},
		{"maria", "mario"},
		{"", "x"},
		{"ann lee", "anne leigh"},
	}
	for _, p := range pairs {
		score := LevenshteinRatio(p[0], p[1])
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, 1.0)
		// symmetric
		assert.InDelta(t, score, LevenshteinRatio(p[1], p[0]), 1e-9)
	}
}
