package retrieval

import (
	"context"
	"testing"
)

// stubEmbedder maps known texts to fixed vectors so similarity is
// fully under the test's control.
type stubEmbedder struct {
	vecs map[string][]float32
}

func (s stubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, ok := s.vecs[t]
		if !ok {
			v = []float32{0, 0, 1}
		}
		out = append(out, v)
	}
	return out, nil
}

func TestQuery_ReturnsNearestMemberOfQuoteSet(t *testing.T) {
	t.Parallel()

	emb := stubEmbedder{vecs: map[string][]float32{
		"quote a": {1, 0, 0},
		"quote b": {0, 1, 0},
		"quote c": {0.5, 0.5, 0},
		"query":   {0.9, 0.1, 0},
	}}
	quotes := []string{"quote a", "quote b", "quote c"}

	ix, err := Build(context.Background(), emb, quotes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got, score, err := ix.Query(context.Background(), emb, "query")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got != "quote a" {
		t.Fatalf("Query = %q, want %q", got, "quote a")
	}
	if score <= 0 {
		t.Fatalf("score = %v, want > 0", score)
	}

	member := false
	for _, q := range quotes {
		if q == got {
			member = true
		}
	}
	if !member {
		t.Fatalf("Query returned %q, not a member of the quote set", got)
	}
}

func TestQuery_Deterministic(t *testing.T) {
	t.Parallel()

	emb := stubEmbedder{vecs: map[string][]float32{
		"a": {1, 0, 0},
		"b": {0, 1, 0},
		"q": {0.2, 0.9, 0},
	}}

	ix, err := Build(context.Background(), emb, []string{"a", "b"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	first, _, err := ix.Query(context.Background(), emb, "q")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	for i := 0; i < 5; i++ {
		got, _, err := ix.Query(context.Background(), emb, "q")
		if err != nil {
			t.Fatalf("Query: %v", err)
		}
		if got != first {
			t.Fatalf("Query not deterministic: %q then %q", first, got)
		}
	}
}

func TestQuery_TieBreaksToFirstOccurrence(t *testing.T) {
	t.Parallel()

	// Two quotes with identical vectors: the earlier one must win.
	emb := stubEmbedder{vecs: map[string][]float32{
		"first":  {1, 0, 0},
		"second": {1, 0, 0},
		"q":      {1, 0, 0},
	}}

	ix, err := Build(context.Background(), emb, []string{"first", "second"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got, _, err := ix.Query(context.Background(), emb, "q")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got != "first" {
		t.Fatalf("Query = %q, want %q", got, "first")
	}
}

func TestBuild_DropsBlankQuotes(t *testing.T) {
	t.Parallel()

	emb := stubEmbedder{vecs: map[string][]float32{}}
	ix, err := Build(context.Background(), emb, []string{"  keep me  ", "", "   "})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(ix.Quotes()) != 1 || ix.Quotes()[0] != "keep me" {
		t.Fatalf("Quotes = %v, want [keep me]", ix.Quotes())
	}
	if !ix.SameQuotes([]string{"keep me", ""}) {
		t.Fatal("SameQuotes should trim and drop blanks before comparing")
	}
}

func TestBuild_EmptySetFails(t *testing.T) {
	t.Parallel()

	if _, err := Build(context.Background(), stubEmbedder{}, nil); err == nil {
		t.Fatal("Build with no quotes should fail")
	}
}
