package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/core/quotes"
	"github.com/csg-hackathon/dilbot/internal/core/retrieval"
	"github.com/csg-hackathon/dilbot/internal/core/safety"
	"github.com/csg-hackathon/dilbot/internal/models"
)

// ChatResult carries everything a single conversation turn produced.
type ChatResult struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
	Quote      string  `json:"quote"`
	QuoteScore float64 `json:"quote_score"`
	Response   string  `json:"response"`
	Crisis     bool    `json:"crisis"`
	Translated bool    `json:"translated"`
}

// ChatService runs the full conversation pipeline: crisis screening,
// emotion classification, quote retrieval, response generation, and the
// journal write. The translator is optional.
type ChatService struct {
	store      core.Store
	embedder   core.EmbeddingProvider
	classifier core.Classifier
	generator  core.Generator
	translator core.Translator
	journal    *JournalService
}

func NewChatService(
	store core.Store,
	embedder core.EmbeddingProvider,
	classifier core.Classifier,
	generator core.Generator,
	translator core.Translator,
	journal *JournalService,
) *ChatService {
	return &ChatService{
		store:      store,
		embedder:   embedder,
		classifier: classifier,
		generator:  generator,
		translator: translator,
		journal:    journal,
	}
}

// Respond handles one user message. The crisis flag is advisory: the
// pipeline still runs and the entry is still journaled, the caller
// decides how prominently to surface the warning. Nothing is journaled
// if any pipeline stage fails.
func (s *ChatService) Respond(ctx context.Context, username, text, category, lang string) (*ChatResult, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, errors.New("empty message")
	}

	crisis := safety.DetectCrisis(trimmed)

	label, conf, err := s.classifier.Classify(ctx, trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrClassification, err)
	}

	idx, err := s.activeIndex(ctx, username, category)
	if err != nil {
		return nil, err
	}

	quote, score, err := idx.Query(ctx, s.embedder, trimmed)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	reply, err := s.generator.Generate(ctx, quote, trimmed, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrGeneration, err)
	}

	localized := models.Original(reply)
	if s.translator != nil && lang != "" {
		translated, err := s.translator.Translate(ctx, reply, lang)
		if err != nil {
			// Fall back to the original reply; the Translated flag in
			// the result tells the caller the language was not honored.
			log.Printf("translation to %q failed for %s: %v", lang, username, err)
		} else {
			localized = models.Translated(translated)
		}
	}

	now := time.Now().UTC()
	confidence := math.Round(conf*10000) / 100
	entry := models.JournalEntry{
		ID:         uuid.NewString(),
		Date:       now.Format("2006-01-02"),
		Timestamp:  now,
		UserInput:  trimmed,
		Emotion:    label,
		Confidence: confidence,
		Response:   localized.Content(),
	}
	if err := s.journal.Append(ctx, username, entry); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStorage, err)
	}

	return &ChatResult{
		Emotion:    label,
		Confidence: confidence,
		Quote:      quote,
		QuoteScore: score,
		Response:   localized.Content(),
		Crisis:     crisis,
		Translated: localized.IsTranslated(),
	}, nil
}

// activeIndex resolves which quote index serves this turn. A stored
// index is reused as long as the requested quote set has not changed;
// otherwise a fresh one is built and persisted.
func (s *ChatService) activeIndex(ctx context.Context, username, category string) (*retrieval.Index, error) {
	stored, err := s.store.LoadQuoteIndex(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStorage, err)
	}

	if category == "" {
		if stored != nil {
			return retrieval.FromStored(stored), nil
		}
		category = quotes.DefaultCategory
	}

	qs, ok := quotes.CategoryQuotes(category)
	if !ok {
		return nil, fmt.Errorf("unknown quote category %q", category)
	}
	if stored != nil {
		if idx := retrieval.FromStored(stored); idx.SameQuotes(qs) {
			return idx, nil
		}
	}

	idx, err := retrieval.Build(ctx, s.embedder, qs)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	if err := s.store.SaveQuoteIndex(ctx, username, idx.Stored()); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrStorage, err)
	}
	return idx, nil
}

// ReplaceQuotes swaps the user's active quote set for the uploaded one
// and rebuilds the index. Returns how many quotes survived cleaning.
func (s *ChatService) ReplaceQuotes(ctx context.Context, username string, qs []string) (int, error) {
	idx, err := retrieval.Build(ctx, s.embedder, qs)
	if err != nil {
		return 0, fmt.Errorf("build index: %w", err)
	}
	if err := s.store.SaveQuoteIndex(ctx, username, idx.Stored()); err != nil {
		return 0, fmt.Errorf("%w: %v", core.ErrStorage, err)
	}
	return len(idx.Quotes()), nil
}
