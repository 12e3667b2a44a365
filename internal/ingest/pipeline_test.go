package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pat/backend/internal/store"
)

type fakeCorpus struct {
	available bool
	ensureErr error
	files     map[string]string
	order     []string
	filesErr  error
}

func (c *fakeCorpus) Ensure(ctx context.Context) (bool, error) {
	return c.available, c.ensureErr
}

func (c *fakeCorpus) Files() ([]string, error) {
	if c.filesErr != nil {
		return nil, c.filesErr
	}
	return c.order, nil
}

func (c *fakeCorpus) Read(name string) (string, error) {
	content, ok := c.files[name]
	if !ok {
		return "", fmt.Errorf("%w: no such file", ErrCorpusUnavailable)
	}
	return content, nil
}

type fakeEmbedder struct {
	failOn string
	calls  []string
}

func (e *fakeEmbedder) Embed(ctx context.Context, content string) ([]float32, error) {
	e.calls = append(e.calls, content)
	if e.failOn != "" && content == e.failOn {
		return nil, errors.New("embedding failed")
	}
	return []float32{0.1, 0.2}, nil
}

type fakeDocStore struct {
	count     int
	countErr  error
	inserted  []store.Chunk
	insertErr error
}

func (s *fakeDocStore) Insert(ctx context.Context, chunk store.Chunk) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, chunk)
	return nil
}

func (s *fakeDocStore) Count(ctx context.Context) (int, error) {
	return s.count, s.countErr
}

func TestPipelineRun(t *testing.T) {
	t.Run("skips when store already seeded", func(t *testing.T) {
		docStore := &fakeDocStore{count: 120}
		p := NewPipeline(&fakeCorpus{}, &fakeEmbedder{}, docStore, 2500, 2)

		report, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.True(t, report.Skipped)
		assert.Contains(t, report.Reason, "120")
		assert.Empty(t, docStore.inserted)
	})

	t.Run("count failure is fatal", func(t *testing.T) {
		docStore := &fakeDocStore{countErr: errors.New("db down")}
		p := NewPipeline(&fakeCorpus{}, &fakeEmbedder{}, docStore, 2500, 2)

		_, err := p.Run(context.Background())
		assert.Error(t, err)
	})

	t.Run("unavailable corpus yields empty usable system", func(t *testing.T) {
		corpus := &fakeCorpus{available: false}
		p := NewPipeline(corpus, &fakeEmbedder{}, &fakeDocStore{}, 2500, 2)

		report, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.True(t, report.Skipped)
		assert.Equal(t, "no data available", report.Reason)
	})

	t.Run("corpus fetch failure is not fatal", func(t *testing.T) {
		corpus := &fakeCorpus{ensureErr: fmt.Errorf("%w: clone failed", ErrCorpusUnavailable)}
		p := NewPipeline(corpus, &fakeEmbedder{}, &fakeDocStore{}, 2500, 2)

		report, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.True(t, report.Skipped)
	})

	t.Run("stores chunks in order with metadata", func(t *testing.T) {
		corpus := &fakeCorpus{
			available: true,
			order:     []string{"a.txt"},
			files: map[string]string{
				"a.txt": "First point made. Second point made. Third point made.",
			},
		}
		docStore := &fakeDocStore{}
		p := NewPipeline(corpus, &fakeEmbedder{}, docStore, 40, 1)

		report, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.False(t, report.Skipped)
		assert.Equal(t, []string{"a.txt"}, report.FilesProcessed)
		assert.Equal(t, len(docStore.inserted), report.ChunksStored)

		require.NotEmpty(t, docStore.inserted)
		for i, chunk := range docStore.inserted {
			assert.Equal(t, i, chunk.ChunkIndex)
			assert.Equal(t, "a.txt", chunk.SourceFile)
			assert.Equal(t, []float32{0.1, 0.2}, chunk.Embedding)
			assert.Greater(t, chunk.TokenCount, 0)
		}
	})

	t.Run("one failing file does not abort the run", func(t *testing.T) {
		corpus := &fakeCorpus{
			available: true,
			order:     []string{"bad.txt", "good.txt"},
			files: map[string]string{
				"good.txt": "A fine sentence.",
			},
		}
		docStore := &fakeDocStore{}
		p := NewPipeline(corpus, &fakeEmbedder{}, docStore, 2500, 2)

		report, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"bad.txt"}, report.FilesFailed)
		assert.Equal(t, []string{"good.txt"}, report.FilesProcessed)
		assert.Len(t, docStore.inserted, 1)
	})

	t.Run("embedding failure aborts file but keeps earlier chunks", func(t *testing.T) {
		corpus := &fakeCorpus{
			available: true,
			order:     []string{"a.txt"},
			files: map[string]string{
				"a.txt": "Keep this sentence. Breaks on this one. Never reaches this.",
			},
		}
		embedder := &fakeEmbedder{failOn: "Breaks on this one."}
		docStore := &fakeDocStore{}
		p := NewPipeline(corpus, embedder, docStore, 20, 0)

		report, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt"}, report.FilesFailed)
		assert.Equal(t, 1, report.ChunksStored)
		require.Len(t, docStore.inserted, 1)
		assert.Equal(t, "Keep this sentence.", docStore.inserted[0].Content)
	})

	t.Run("insert failure aborts file", func(t *testing.T) {
		corpus := &fakeCorpus{
			available: true,
			order:     []string{"a.txt"},
			files:     map[string]string{"a.txt": "A sentence."},
		}
		docStore := &fakeDocStore{insertErr: fmt.Errorf("%w: disk full", store.ErrWrite)}
		p := NewPipeline(corpus, &fakeEmbedder{}, docStore, 2500, 2)

		report, err := p.Run(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt"}, report.FilesFailed)
		assert.Zero(t, report.ChunksStored)
	})
}
