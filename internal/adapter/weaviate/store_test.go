package weaviate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarityCertaintyConversion(t *testing.T) {
	tests := []struct {
		similarity float64
		certainty  float32
	}{
		{-1, 0},
		{0, 0.5},
		{0.7, 0.85},
		{1, 1},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.certainty, similarityToCertainty(tt.similarity), 1e-6)
		assert.InDelta(t, tt.similarity, certaintyToSimilarity(float64(tt.certainty)), 1e-6)
	}
}
