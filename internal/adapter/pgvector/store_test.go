package pgvector

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pat/backend/internal/store"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func TestInsert(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents (content, embedding, source_file, chunk_index, section_title, token_count) VALUES ($1, $2, $3, $4, $5, $6)`)).
			WithArgs("some content", "[0.1,0.2]", "dennett.txt", 0, sqlmock.AnyArg(), 3).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := s.Insert(context.Background(), store.Chunk{
			Content:      "some content",
			Embedding:    []float32{0.1, 0.2},
			SourceFile:   "dennett.txt",
			ChunkIndex:   0,
			SectionTitle: "Intentional Stance",
			TokenCount:   3,
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db failure wraps ErrWrite", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectExec("INSERT INTO documents").
			WillReturnError(errors.New("connection reset"))

		err := s.Insert(context.Background(), store.Chunk{Content: "x", Embedding: []float32{0.5}})
		assert.ErrorIs(t, err, store.ErrWrite)
	})
}

func TestCount(t *testing.T) {
	t.Run("returns row count", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM documents`)).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

		count, err := s.Count(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 42, count)
	})

	t.Run("db failure wraps ErrRead", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("relation does not exist"))

		_, err := s.Count(context.Background())
		assert.ErrorIs(t, err, store.ErrRead)
	})
}

func TestSimilaritySearch(t *testing.T) {
	columns := []string{"content", "source_file", "chunk_index", "section_title", "token_count", "similarity"}

	t.Run("returns results with threshold and limit applied", func(t *testing.T) {
		s, mock := newMockStore(t)

		rows := sqlmock.NewRows(columns).
			AddRow("closest chunk", "a.txt", 2, "Dualism", 120, 0.92).
			AddRow("next chunk", "b.txt", 0, nil, 80, 0.75)

		mock.ExpectQuery("SELECT content, source_file, chunk_index, section_title, token_count").
			WithArgs("[0.5]", 0.7, 3).
			WillReturnRows(rows)

		results, err := s.SimilaritySearch(context.Background(), []float32{0.5}, 3, 0.7)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "closest chunk", results[0].Content)
		assert.Equal(t, "Dualism", results[0].SectionTitle)
		assert.Equal(t, 0.92, results[0].Similarity)
		assert.Equal(t, "", results[1].SectionTitle)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty result set is not an error", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT content").WillReturnRows(sqlmock.NewRows(columns))

		results, err := s.SimilaritySearch(context.Background(), []float32{0.5}, 3, 0.7)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("db failure wraps ErrRead", func(t *testing.T) {
		s, mock := newMockStore(t)

		mock.ExpectQuery("SELECT content").WillReturnError(errors.New("timeout"))

		_, err := s.SimilaritySearch(context.Background(), []float32{0.5}, 3, 0.7)
		assert.ErrorIs(t, err, store.ErrRead)
	})
}

func TestVectorLiteral(t *testing.T) {
	assert.Equal(t, "[]", vectorLiteral(nil))
	assert.Equal(t, "[1]", vectorLiteral([]float32{1}))
	assert.Equal(t, "[0.5,-0.25,2]", vectorLiteral([]float32{0.5, -0.25, 2}))
}
