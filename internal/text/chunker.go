package text

import (
	"regexp"
	"strings"
)

const (
	DefaultChunkSize        = 2500
	DefaultOverlapSentences = 2
)

// Chunk is the unit of embedding and retrieval: a bounded span of source
// text plus the metadata recorded alongside its vector.
type Chunk struct {
	Content      string
	SectionTitle string // empty when no heading-like line was detected
	TokenCount   int
}

var (
	sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

	// Heading-like patterns, checked against the first lines of a chunk.
	titleCapRe     = regexp.MustCompile(`^[A-Z][^.!?]*$`)
	titleNumberRe  = regexp.MustCompile(`^\d+\.?\s+[A-Z]`)
	titleKeywordRe = regexp.MustCompile(`(?i)^(Chapter|Section|Part)`)
	titleLabelRe   = regexp.MustCompile(`^[A-Z][a-z]+:`)
)

// Split breaks text into chunks of at most chunkSize characters, aligned to
// sentence boundaries, with the last overlapSentences sentences of each
// chunk repeated at the start of the next one. A sentence is never split:
// a single sentence longer than chunkSize produces an oversized chunk.
// Non-positive parameters fall back to the package defaults.
func Split(text string, chunkSize, overlapSentences int) []Chunk {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlapSentences < 0 {
		overlapSentences = DefaultOverlapSentences
	}

	text = Normalize(text)
	if text == "" {
		return nil
	}

	var chunks []Chunk
	var buf strings.Builder
	var sentences []string

	closeChunk := func() {
		content := strings.TrimSpace(buf.String())
		chunks = append(chunks, Chunk{
			Content:      content,
			SectionTitle: ExtractSectionTitle(content),
			TokenCount:   EstimateTokens(content),
		})

		// Seed the next chunk with the trailing sentences of this one so
		// local context survives the boundary.
		start := len(sentences) - overlapSentences
		if start < 0 {
			start = 0
		}
		sentences = append([]string(nil), sentences[start:]...)
		buf.Reset()
		if len(sentences) > 0 {
			buf.WriteString(strings.Join(sentences, " "))
			buf.WriteString(" ")
		}
	}

	for _, paragraph := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(paragraph) == "" {
			continue
		}

		parts := sentenceRe.FindAllString(paragraph, -1)
		if parts == nil {
			// No terminal punctuation: treat the paragraph as one sentence.
			parts = []string{paragraph}
		}

		for _, sentence := range parts {
			sentence = strings.TrimSpace(sentence)
			if sentence == "" {
				continue
			}

			if buf.Len()+len(sentence) > chunkSize && buf.Len() > 0 {
				closeChunk()
			}

			buf.WriteString(sentence)
			buf.WriteString(" ")
			sentences = append(sentences, sentence)
		}

		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
	}

	if strings.TrimSpace(buf.String()) != "" {
		closeChunk()
	}

	return chunks
}

// ExtractSectionTitle scans the first three lines of a chunk for a
// heading-like line: short, starting with a capital and free of sentence
// punctuation, or numbered ("1. Introduction"), or a Chapter/Section/Part
// marker, or a "Word:" label. Best effort; returns "" when nothing matches.
func ExtractSectionTitle(content string) string {
	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines) && i < 3; i++ {
		line := strings.TrimSpace(lines[i])
		if len(line) == 0 || len(line) >= 100 {
			continue
		}
		if titleCapRe.MatchString(line) ||
			titleNumberRe.MatchString(line) ||
			titleKeywordRe.MatchString(line) ||
			titleLabelRe.MatchString(line) {
			return line
		}
	}
	return ""
}

// EstimateTokens approximates the token count of text as ceil(len/4).
// A deliberately crude proxy, not real tokenization.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
