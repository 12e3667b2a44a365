// Package ingest seeds the document store: fetch corpus, preprocess, chunk,
// embed, insert — strictly in order so chunk indexes stay monotonic per
// file. The run is idempotent: a non-empty store means there is nothing to
// do.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"pat/backend/internal/store"
	"pat/backend/internal/text"
)

type Embedder interface {
	Embed(ctx context.Context, content string) ([]float32, error)
}

type DocumentStore interface {
	Insert(ctx context.Context, chunk store.Chunk) error
	Count(ctx context.Context) (int, error)
}

type Corpus interface {
	Ensure(ctx context.Context) (bool, error)
	Files() ([]string, error)
	Read(name string) (string, error)
}

// Report summarizes one ingestion run.
type Report struct {
	Skipped        bool
	Reason         string
	FilesProcessed []string
	FilesFailed    []string
	ChunksStored   int
}

type Pipeline struct {
	corpus   Corpus
	embedder Embedder
	store    DocumentStore

	chunkSize        int
	overlapSentences int
}

func NewPipeline(corpus Corpus, embedder Embedder, docStore DocumentStore, chunkSize, overlapSentences int) *Pipeline {
	return &Pipeline{
		corpus:           corpus,
		embedder:         embedder,
		store:            docStore,
		chunkSize:        chunkSize,
		overlapSentences: overlapSentences,
	}
}

// Run executes one seeding pass. A failure on one file aborts that file
// (already-written chunks stay; partial files are acceptable) and the run
// moves on to the next. Only store-level failures on the idempotency check
// are fatal to the run itself.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	count, err := p.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking existing documents: %w", err)
	}
	if count > 0 {
		slog.InfoContext(ctx, "store already seeded, skipping ingestion", "documents", count)
		return &Report{Skipped: true, Reason: fmt.Sprintf("store already contains %d chunks", count)}, nil
	}

	available, err := p.corpus.Ensure(ctx)
	if err != nil {
		slog.WarnContext(ctx, "corpus unavailable, continuing with empty store", "error", err)
		return &Report{Skipped: true, Reason: "no data available"}, nil
	}
	if !available {
		slog.InfoContext(ctx, "no corpus data available, store left empty")
		return &Report{Skipped: true, Reason: "no data available"}, nil
	}

	files, err := p.corpus.Files()
	if err != nil {
		slog.WarnContext(ctx, "corpus listing failed, continuing with empty store", "error", err)
		return &Report{Skipped: true, Reason: "no data available"}, nil
	}
	if len(files) == 0 {
		return &Report{Skipped: true, Reason: "no data available"}, nil
	}

	slog.InfoContext(ctx, "starting ingestion", "files", len(files))

	report := &Report{}
	for _, file := range files {
		stored, err := p.processFile(ctx, file)
		report.ChunksStored += stored
		if err != nil {
			slog.ErrorContext(ctx, "file ingestion aborted", "file", file, "chunks_stored", stored, "error", err)
			report.FilesFailed = append(report.FilesFailed, file)
			continue
		}
		slog.InfoContext(ctx, "file ingested", "file", file, "chunks", stored)
		report.FilesProcessed = append(report.FilesProcessed, file)
	}

	return report, nil
}

// processFile embeds and stores every chunk of one document in order. The
// first embedding or insert failure aborts the file; chunks written so far
// are not rolled back.
func (p *Pipeline) processFile(ctx context.Context, file string) (int, error) {
	raw, err := p.corpus.Read(file)
	if err != nil {
		return 0, err
	}

	chunks := text.Split(text.Normalize(raw), p.chunkSize, p.overlapSentences)
	for i, chunk := range chunks {
		embedding, err := p.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return i, fmt.Errorf("embedding chunk %d: %w", i, err)
		}

		row := store.Chunk{
			Content:      chunk.Content,
			Embedding:    embedding,
			SourceFile:   file,
			ChunkIndex:   i,
			SectionTitle: chunk.SectionTitle,
			TokenCount:   chunk.TokenCount,
		}
		if err := p.store.Insert(ctx, row); err != nil {
			return i, fmt.Errorf("storing chunk %d: %w", i, err)
		}
	}

	return len(chunks), nil
}
