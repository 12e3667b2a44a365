// Package weaviate implements the document store on a Weaviate instance,
// selected with VECTOR_BACKEND=weaviate. Similarity is expressed to Weaviate
// as certainty ((1+cosine)/2) and converted back on the way out.
package weaviate

import (
	"context"
	"fmt"

	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	"github.com/weaviate/weaviate-go-client/v5/weaviate/graphql"

	"pat/backend/internal/store"
	"pat/backend/internal/vector"
)

type Store struct {
	client *weaviate.Client
}

func NewStore(client *weaviate.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Insert(ctx context.Context, chunk store.Chunk) error {
	_, err := s.client.Data().Creator().
		WithClassName(vector.ClassName).
		WithProperties(map[string]interface{}{
			"content":      chunk.Content,
			"sourceFile":   chunk.SourceFile,
			"chunkIndex":   chunk.ChunkIndex,
			"sectionTitle": chunk.SectionTitle,
			"tokenCount":   chunk.TokenCount,
		}).
		WithVector(chunk.Embedding).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: insert chunk %d of %s: %v", store.ErrWrite, chunk.ChunkIndex, chunk.SourceFile, err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	res, err := s.client.GraphQL().Aggregate().
		WithClassName(vector.ClassName).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}}).
		Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: aggregate count: %v", store.ErrRead, err)
	}
	if len(res.Errors) > 0 {
		return 0, fmt.Errorf("%w: aggregate count: %v", store.ErrRead, res.Errors)
	}

	if agg, ok := res.Data["Aggregate"].(map[string]interface{}); ok {
		if classes, ok := agg[vector.ClassName].([]interface{}); ok && len(classes) > 0 {
			if entry, ok := classes[0].(map[string]interface{}); ok {
				if meta, ok := entry["meta"].(map[string]interface{}); ok {
					if count, ok := meta["count"].(float64); ok {
						return int(count), nil
					}
				}
			}
		}
	}
	return 0, nil
}

// SimilaritySearch ranks chunks by nearVector certainty. Ties fall back to
// Weaviate's internal ordering; unlike the pgvector backend there is no
// insertion-order guarantee.
func (s *Store) SimilaritySearch(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]store.Result, error) {
	nearVector := s.client.GraphQL().NearVectorArgBuilder().
		WithVector(embedding).
		WithCertainty(similarityToCertainty(minSimilarity))

	fields := []graphql.Field{
		{Name: "content"},
		{Name: "sourceFile"},
		{Name: "chunkIndex"},
		{Name: "sectionTitle"},
		{Name: "tokenCount"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}}},
	}

	res, err := s.client.GraphQL().Get().
		WithClassName(vector.ClassName).
		WithNearVector(nearVector).
		WithLimit(limit).
		WithFields(fields...).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: near vector search: %v", store.ErrRead, err)
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("%w: near vector search: %v", store.ErrRead, res.Errors)
	}

	var results []store.Result
	if data, ok := res.Data["Get"].(map[string]interface{}); ok {
		if chunks, ok := data[vector.ClassName].([]interface{}); ok {
			for _, c := range chunks {
				props, ok := c.(map[string]interface{})
				if !ok {
					continue
				}

				var r store.Result
				if content, ok := props["content"].(string); ok {
					r.Content = content
				}
				if sourceFile, ok := props["sourceFile"].(string); ok {
					r.SourceFile = sourceFile
				}
				if title, ok := props["sectionTitle"].(string); ok {
					r.SectionTitle = title
				}
				if idx, ok := props["chunkIndex"].(float64); ok {
					r.ChunkIndex = int(idx)
				}
				if tokens, ok := props["tokenCount"].(float64); ok {
					r.TokenCount = int(tokens)
				}

				if additional, ok := props["_additional"].(map[string]interface{}); ok {
					if certainty, ok := additional["certainty"].(float64); ok {
						r.Similarity = certaintyToSimilarity(certainty)
					} else if certainty, ok := additional["certainty"].(string); ok {
						// Some server versions return _additional values as strings.
						var f float64
						fmt.Sscanf(certainty, "%f", &f)
						r.Similarity = certaintyToSimilarity(f)
					}
				}

				results = append(results, r)
			}
		}
	}

	return results, nil
}

// Weaviate certainty maps cosine similarity from [-1,1] to [0,1].
func similarityToCertainty(similarity float64) float32 {
	return float32((1 + similarity) / 2)
}

func certaintyToSimilarity(certainty float64) float64 {
	return 2*certainty - 1
}
