// Package retrieval turns the recent conversation into a similarity query
// and formats the resulting excerpts for the persona prompt.
package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pat/backend/internal/dialogue"
	"pat/backend/internal/middleware"
	"pat/backend/internal/store"
)

const (
	DefaultLimit         = 3
	DefaultMinSimilarity = 0.7
	DefaultRecentTurns   = 3
)

type Embedder interface {
	Embed(ctx context.Context, content string) ([]float32, error)
}

type Searcher interface {
	SimilaritySearch(ctx context.Context, embedding []float32, limit int, minSimilarity float64) ([]store.Result, error)
}

type Service struct {
	embedder Embedder
	searcher Searcher
	logger   *QueryLogger

	limit         int
	minSimilarity float64
	recentTurns   int
}

func NewService(e Embedder, s Searcher, l *QueryLogger, limit int, minSimilarity float64, recentTurns int) *Service {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if minSimilarity <= 0 {
		minSimilarity = DefaultMinSimilarity
	}
	if recentTurns <= 0 {
		recentTurns = DefaultRecentTurns
	}
	return &Service{
		embedder:      e,
		searcher:      s,
		logger:        l,
		limit:         limit,
		minSimilarity: minSimilarity,
		recentTurns:   recentTurns,
	}
}

// BuildQuery concatenates the content of the most recent turns with the
// latest message, in chronological order, space-joined. Pulling recent
// turns in keeps follow-up questions ("what about that?") searchable.
func (s *Service) BuildQuery(history []dialogue.Turn, message string) string {
	start := len(history) - s.recentTurns
	if start < 0 {
		start = 0
	}

	parts := make([]string, 0, s.recentTurns+1)
	for _, turn := range history[start:] {
		if turn.Content != "" {
			parts = append(parts, turn.Content)
		}
	}
	parts = append(parts, message)
	return strings.Join(parts, " ")
}

// Search embeds the context-aware query and returns the chunks above the
// similarity threshold, best first.
func (s *Service) Search(ctx context.Context, history []dialogue.Turn, message string) ([]store.Result, error) {
	start := time.Now()
	query := s.BuildQuery(history, message)

	embedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := s.searcher.SimilaritySearch(ctx, embedding, s.limit, s.minSimilarity)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		entry := QueryLogEntry{
			Query:         query,
			NumResults:    len(results),
			Duration:      time.Since(start),
			CorrelationID: middleware.GetCorrelationID(ctx),
		}
		if len(results) > 0 {
			entry.TopSimilarity = results[0].Similarity
		}
		s.logger.Log(entry)
	}

	return results, nil
}

// Excerpts returns the formatted excerpt block for the persona prompt, or
// "" when nothing clears the threshold. Downstream prompt construction
// tolerates the empty string.
func (s *Service) Excerpts(ctx context.Context, history []dialogue.Turn, message string) (string, error) {
	results, err := s.Search(ctx, history, message)
	if err != nil {
		return "", err
	}
	return FormatExcerpts(results), nil
}

// FormatExcerpts renders results as labeled blocks separated by blank
// lines: rank, source file and section when known, and the similarity as a
// percentage with one decimal.
func FormatExcerpts(results []store.Result) string {
	blocks := make([]string, 0, len(results))
	for i, r := range results {
		header := fmt.Sprintf("[Excerpt %d", i+1)
		if r.SourceFile != "" {
			header += ", Source: " + r.SourceFile
		}
		if r.SectionTitle != "" {
			header += ", Section: " + r.SectionTitle
		}
		header += fmt.Sprintf(", Relevance: %.1f%%]", r.Similarity*100)
		blocks = append(blocks, header+"\n"+r.Content)
	}
	return strings.Join(blocks, "\n\n")
}
