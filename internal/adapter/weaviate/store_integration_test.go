package weaviate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	weaviatestore "pat/backend/internal/adapter/weaviate"
	"pat/backend/internal/store"
	"pat/backend/internal/testutils"
	"pat/backend/internal/vector"
)

func TestWeaviateStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	suite := testutils.NewIntegrationSuite(t)
	suite.SetupWeaviate()
	defer suite.Teardown()

	ctx := context.Background()

	adapter := vector.NewWeaviateClientAdapter(suite.Weaviate)
	require.NoError(t, vector.EnsureSchema(ctx, adapter))

	s := weaviatestore.NewStore(suite.Weaviate)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	chunkA := store.Chunk{
		Content:      "Functionalism treats mental states as functional roles.",
		Embedding:    []float32{1, 0, 0},
		SourceFile:   "churchland.txt",
		ChunkIndex:   0,
		SectionTitle: "Functionalism",
		TokenCount:   14,
	}
	chunkB := store.Chunk{
		Content:    "Dualism separates mind and body.",
		Embedding:  []float32{0.1, 1, 0},
		SourceFile: "descartes.txt",
		ChunkIndex: 1,
		TokenCount: 8,
	}
	require.NoError(t, s.Insert(ctx, chunkA))
	require.NoError(t, s.Insert(ctx, chunkB))

	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// A query aligned with chunkA's vector clears a high threshold; the
	// near-orthogonal chunkB does not.
	results, err := s.SimilaritySearch(ctx, []float32{1, 0, 0}, 3, 0.9)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, chunkA.Content, results[0].Content)
	assert.Equal(t, "churchland.txt", results[0].SourceFile)
	assert.Equal(t, "Functionalism", results[0].SectionTitle)
	assert.Equal(t, 0, results[0].ChunkIndex)
	assert.Equal(t, 14, results[0].TokenCount)
	assert.InDelta(t, 1.0, results[0].Similarity, 0.01)

	// Lowering the threshold lets both through, best first.
	results, err = s.SimilaritySearch(ctx, []float32{1, 0, 0}, 3, 0.0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, chunkA.Content, results[0].Content)
	assert.Equal(t, chunkB.Content, results[1].Content)

	// Threshold nothing can clear yields an empty, non-error result.
	results, err = s.SimilaritySearch(ctx, []float32{-1, 0, 0}, 3, 0.99)
	require.NoError(t, err)
	assert.Empty(t, results)
}
