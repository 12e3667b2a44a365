// Package store defines the document-store domain types shared by the
// pgvector and weaviate backends and their consumers (ingestion writes
// chunks, retrieval reads results).
package store

import "errors"

var (
	// ErrWrite marks a connectivity or constraint failure while persisting
	// a chunk. Retryable by the caller.
	ErrWrite = errors.New("document store write failed")

	// ErrRead marks a failure reading or searching the store. Retryable.
	ErrRead = errors.New("document store read failed")
)

// Chunk is one row of the corpus: the text span, its embedding and the
// metadata recorded at ingestion time. Chunks are written once and never
// updated; a full re-seed (table truncation) is the only way they go away.
type Chunk struct {
	Content      string
	Embedding    []float32
	SourceFile   string
	ChunkIndex   int
	SectionTitle string // empty when no heading was inferred
	TokenCount   int
}

// Result is a similarity-search hit. Derived per query, never persisted.
type Result struct {
	Content      string
	SourceFile   string
	SectionTitle string
	ChunkIndex   int
	TokenCount   int
	Similarity   float64 // 0..1, higher is more similar
}
