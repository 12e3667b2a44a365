// Package pgvector implements the document store on Postgres with the
// pgvector extension: one append-only `documents` table with an embedding
// column ranked by cosine distance.
package pgvector

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"pat/backend/internal/store"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert appends one chunk row. The embedding is sent as a pgvector text
// literal so the driver needs no vector-aware type support.
func (s *Store) Insert(ctx context.Context, chunk store.Chunk) error {
	query := `INSERT INTO documents (content, embedding, source_file, chunk_index, section_title, token_count) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.db.ExecContext(ctx, query,
		chunk.Content,
		vectorLiteral(chunk.Embedding),
		chunk.SourceFile,
		chunk.ChunkIndex,
		nullableTitle(chunk.SectionTitle),
		chunk.TokenCount,
	)
	if err != nil {
		return fmt.Errorf("%w: insert chunk %d of %s: %v", store.ErrWrite, chunk.ChunkIndex, chunk.SourceFile, err)
	}
	return nil
}

// Count returns the total number of chunk rows. The ingestion pipeline uses
// it as its idempotency guard.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count documents: %v", store.ErrRead, err)
	}
	return count, nil
}

// SimilaritySearch returns up to limit chunks ordered by descending cosine
// similarity to the query embedding, excluding anything below minSimilarity.
// Ties are broken by insertion order (the serial id). An empty result set is
// not an error.
func (s *Store) SimilaritySearch(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]store.Result, error) {
	query := `
		SELECT content, source_file, chunk_index, section_title, token_count,
		       1 - (embedding <=> $1) AS similarity
		FROM documents
		WHERE 1 - (embedding <=> $1) >= $2
		ORDER BY embedding <=> $1, id
		LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, vectorLiteral(embedding), minSimilarity, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: similarity search: %v", store.ErrRead, err)
	}
	defer rows.Close()

	var results []store.Result
	for rows.Next() {
		var r store.Result
		var title sql.NullString
		if err := rows.Scan(&r.Content, &r.SourceFile, &r.ChunkIndex, &title, &r.TokenCount, &r.Similarity); err != nil {
			return nil, fmt.Errorf("%w: scan result: %v", store.ErrRead, err)
		}
		r.SectionTitle = title.String
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate results: %v", store.ErrRead, err)
	}
	return results, nil
}

// vectorLiteral renders an embedding in pgvector's input syntax: [v1,v2,...].
func vectorLiteral(embedding []float32) string {
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func nullableTitle(title string) sql.NullString {
	return sql.NullString{String: title, Valid: title != ""}
}
