package services

import (
	"context"
	"errors"
	"testing"

	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/core/quotes"
)

type stubEmbedder struct{}

// Deterministic per-text vectors so retrieval has something to rank.
func (stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		var sum float32
		for _, r := range t {
			sum += float32(r % 7)
		}
		out[i] = []float32{sum, float32(len(t)), 1}
	}
	return out, nil
}

type stubClassifier struct {
	label string
	conf  float64
	err   error
}

func (c stubClassifier) Classify(ctx context.Context, text string) (string, float64, error) {
	return c.label, c.conf, c.err
}

type stubGenerator struct {
	reply string
	err   error
}

func (g stubGenerator) Generate(ctx context.Context, quote, userInput, username string) (string, error) {
	return g.reply, g.err
}

type stubTranslator struct{}

func (stubTranslator) Translate(ctx context.Context, text, lang string) (string, error) {
	return "[" + lang + "] " + text, nil
}

func newTestChatService(t *testing.T, gen core.Generator, tr core.Translator) (*ChatService, core.Store) {
	t.Helper()
	store := newTestStore(t)
	journal := NewJournalService(store)
	svc := NewChatService(store, stubEmbedder{}, stubClassifier{label: "sadness", conf: 0.87}, gen, tr, journal)
	return svc, store
}

func TestRespondWritesJournalEntry(t *testing.T) {
	t.Parallel()
	svc, store := newTestChatService(t, stubGenerator{reply: "I hear you."}, nil)
	ctx := context.Background()

	res, err := svc.Respond(ctx, "maya", "I feel hopeless and want to end it all", "", "")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if !res.Crisis {
		t.Fatalf("crisis flag not set")
	}
	if res.Emotion != "sadness" || res.Confidence != 87 {
		t.Fatalf("emotion/confidence = %q/%v, want sadness/87", res.Emotion, res.Confidence)
	}
	if res.Response != "I hear you." {
		t.Fatalf("response = %q", res.Response)
	}

	entries, err := store.LoadJournal(ctx, "maya")
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("journal has %d entries, want 1", len(entries))
	}
	e := entries[0]
	if e.ID == "" || e.Date == "" || e.Emotion != "sadness" || e.Confidence != 87 {
		t.Fatalf("unexpected entry: %+v", e)
	}
}

func TestRespondBuildsDefaultIndexOnce(t *testing.T) {
	t.Parallel()
	svc, store := newTestChatService(t, stubGenerator{reply: "ok"}, nil)
	ctx := context.Background()

	if _, err := svc.Respond(ctx, "maya", "rough week at work", "", ""); err != nil {
		t.Fatalf("respond: %v", err)
	}

	stored, err := store.LoadQuoteIndex(ctx, "maya")
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	if stored == nil {
		t.Fatalf("no index persisted")
	}
	want := quotes.Categories[quotes.DefaultCategory]
	if len(stored.Quotes) != len(want) {
		t.Fatalf("index has %d quotes, want %d", len(stored.Quotes), len(want))
	}
	builtAt := stored.BuiltAt

	if _, err := svc.Respond(ctx, "maya", "still a rough week", "", ""); err != nil {
		t.Fatalf("second respond: %v", err)
	}
	stored, err = store.LoadQuoteIndex(ctx, "maya")
	if err != nil {
		t.Fatalf("reload index: %v", err)
	}
	if !stored.BuiltAt.Equal(builtAt) {
		t.Fatalf("index was rebuilt on reuse")
	}
}

func TestRespondSwitchesCategory(t *testing.T) {
	t.Parallel()
	svc, store := newTestChatService(t, stubGenerator{reply: "ok"}, nil)
	ctx := context.Background()

	if _, err := svc.Respond(ctx, "maya", "hello", "Motivation", ""); err != nil {
		t.Fatalf("respond: %v", err)
	}
	if _, err := svc.Respond(ctx, "maya", "hello again", "Grief", ""); err != nil {
		t.Fatalf("respond with new category: %v", err)
	}

	stored, err := store.LoadQuoteIndex(ctx, "maya")
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	if stored.Quotes[0] != quotes.Categories["Grief"][0] {
		t.Fatalf("index not rebuilt for Grief: %q", stored.Quotes[0])
	}
}

func TestRespondUnknownCategory(t *testing.T) {
	t.Parallel()
	svc, _ := newTestChatService(t, stubGenerator{reply: "ok"}, nil)

	if _, err := svc.Respond(context.Background(), "maya", "hello", "Nonsense", ""); err == nil {
		t.Fatalf("expected error for unknown category")
	}
}

func TestRespondGeneratorFailureLeavesJournalEmpty(t *testing.T) {
	t.Parallel()
	svc, store := newTestChatService(t, stubGenerator{err: errors.New("rate limited")}, nil)
	ctx := context.Background()

	if _, err := svc.Respond(ctx, "maya", "hello", "", ""); !errors.Is(err, core.ErrGeneration) {
		t.Fatalf("err = %v, want ErrGeneration", err)
	}

	entries, err := store.LoadJournal(ctx, "maya")
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("journal written despite failure: %+v", entries)
	}
}

func TestRespondClassifierFailure(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	journal := NewJournalService(store)
	svc := NewChatService(store, stubEmbedder{}, stubClassifier{err: errors.New("down")}, stubGenerator{reply: "ok"}, nil, journal)

	if _, err := svc.Respond(context.Background(), "maya", "hello", "", ""); !errors.Is(err, core.ErrClassification) {
		t.Fatalf("err = %v, want ErrClassification", err)
	}
}

func TestRespondTranslates(t *testing.T) {
	t.Parallel()
	svc, _ := newTestChatService(t, stubGenerator{reply: "I hear you."}, stubTranslator{})

	res, err := svc.Respond(context.Background(), "maya", "hello", "", "hi")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if !res.Translated || res.Response != "[hi] I hear you." {
		t.Fatalf("translation missing: %+v", res)
	}
}

type failingTranslator struct{}

func (failingTranslator) Translate(ctx context.Context, text, lang string) (string, error) {
	return "", errors.New("translator down")
}

func TestRespondTranslationFailureFallsBackToOriginal(t *testing.T) {
	t.Parallel()
	svc, store := newTestChatService(t, stubGenerator{reply: "I hear you."}, failingTranslator{})
	ctx := context.Background()

	res, err := svc.Respond(ctx, "maya", "hello", "", "hi")
	if err != nil {
		t.Fatalf("respond: %v", err)
	}
	if res.Translated {
		t.Fatalf("Translated flag set despite translator failure")
	}
	if res.Response != "I hear you." {
		t.Fatalf("response = %q, want original reply", res.Response)
	}

	entries, err := store.LoadJournal(ctx, "maya")
	if err != nil {
		t.Fatalf("load journal: %v", err)
	}
	if len(entries) != 1 || entries[0].Response != "I hear you." {
		t.Fatalf("journal entry = %+v, want original reply recorded", entries)
	}
}

func TestRespondEmptyMessage(t *testing.T) {
	t.Parallel()
	svc, _ := newTestChatService(t, stubGenerator{reply: "ok"}, nil)

	if _, err := svc.Respond(context.Background(), "maya", "   ", "", ""); err == nil {
		t.Fatalf("expected error for blank message")
	}
}

func TestReplaceQuotes(t *testing.T) {
	t.Parallel()
	svc, store := newTestChatService(t, stubGenerator{reply: "ok"}, nil)
	ctx := context.Background()

	n, err := svc.ReplaceQuotes(ctx, "maya", []string{"one step at a time", "  ", "breathe"})
	if err != nil {
		t.Fatalf("replace quotes: %v", err)
	}
	if n != 2 {
		t.Fatalf("n = %d, want 2 after dropping blanks", n)
	}

	stored, err := store.LoadQuoteIndex(ctx, "maya")
	if err != nil {
		t.Fatalf("load index: %v", err)
	}
	if len(stored.Quotes) != 2 || stored.Quotes[0] != "one step at a time" {
		t.Fatalf("unexpected index: %+v", stored.Quotes)
	}
}
