// Package retrieval implements the per-user nearest-quote index: an
// exhaustive cosine-similarity scan over the embeddings of the active
// quote set. Quote sets are tens of entries at most, so no approximate
// structure is warranted.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/models"
)

// Index is a queryable view over a stored quote set and its vectors.
type Index struct {
	data *models.QuoteIndex
}

// Build embeds every quote in one batch call and returns a fresh index.
// Deterministic given the same embedding model and quote set. Empty and
// whitespace-only quotes are dropped before embedding.
func Build(ctx context.Context, emb core.EmbeddingProvider, quotes []string) (*Index, error) {
	cleaned := make([]string, 0, len(quotes))
	for _, q := range quotes {
		if q = strings.TrimSpace(q); q != "" {
			cleaned = append(cleaned, q)
		}
	}
	if len(cleaned) == 0 {
		return nil, errors.New("retrieval: empty quote set")
	}

	vecs, err := emb.EmbedTexts(ctx, cleaned)
	if err != nil {
		return nil, fmt.Errorf("embed quotes: %w", err)
	}
	if len(vecs) != len(cleaned) {
		return nil, fmt.Errorf("embed quotes: got %d vectors for %d quotes", len(vecs), len(cleaned))
	}

	return &Index{data: &models.QuoteIndex{
		Quotes:  cleaned,
		Vectors: vecs,
		BuiltAt: time.Now().UTC(),
	}}, nil
}

// FromStored wraps a previously persisted index.
func FromStored(data *models.QuoteIndex) *Index {
	return &Index{data: data}
}

// Stored returns the persistable form of the index.
func (ix *Index) Stored() *models.QuoteIndex { return ix.data }

// Quotes returns the quote set the index was built from, in order.
func (ix *Index) Quotes() []string { return ix.data.Quotes }

// SameQuotes reports whether the index was built from exactly this
// quote set, in the same order (after the same trimming Build applies).
func (ix *Index) SameQuotes(quotes []string) bool {
	cleaned := make([]string, 0, len(quotes))
	for _, q := range quotes {
		if q = strings.TrimSpace(q); q != "" {
			cleaned = append(cleaned, q)
		}
	}
	if len(cleaned) != len(ix.data.Quotes) {
		return false
	}
	for i, q := range cleaned {
		if q != ix.data.Quotes[i] {
			return false
		}
	}
	return true
}

// Query embeds text with the same provider and returns the single
// highest-scoring quote by cosine similarity. Ties break toward the
// first occurrence in the original sequence.
func (ix *Index) Query(ctx context.Context, emb core.EmbeddingProvider, text string) (string, float64, error) {
	if len(ix.data.Quotes) == 0 {
		return "", 0, errors.New("retrieval: index is empty")
	}

	vecs, err := emb.EmbedTexts(ctx, []string{text})
	if err != nil {
		return "", 0, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return "", 0, fmt.Errorf("embed query: got %d vectors, want 1", len(vecs))
	}
	queryVec := vecs[0]

	best := 0
	bestScore := math.Inf(-1)
	for i, v := range ix.data.Vectors {
		if s := cosine(queryVec, v); s > bestScore {
			best, bestScore = i, s
		}
	}
	return ix.data.Quotes[best], bestScore, nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
