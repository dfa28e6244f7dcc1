package services

import (
	"context"
	"fmt"
	"math"

	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/models"
)

// JournalService maintains each user's append-only conversation
// journal. Entries are never edited after being written; a reset wipes
// the journal and the quote index together.
type JournalService struct {
	store core.Store
}

func NewJournalService(store core.Store) *JournalService {
	return &JournalService{store: store}
}

func (s *JournalService) Append(ctx context.Context, username string, entry models.JournalEntry) error {
	entries, err := s.store.LoadJournal(ctx, username)
	if err != nil {
		return fmt.Errorf("load journal: %w", err)
	}
	entries = append(entries, entry)
	if err := s.store.SaveJournal(ctx, username, entries); err != nil {
		return fmt.Errorf("save journal: %w", err)
	}
	return nil
}

func (s *JournalService) Load(ctx context.Context, username string) ([]models.JournalEntry, error) {
	return s.store.LoadJournal(ctx, username)
}

// Reset clears a user's history and their retrieval index, returning
// the account to a fresh state without touching the user record.
func (s *JournalService) Reset(ctx context.Context, username string) error {
	if err := s.store.DeleteJournal(ctx, username); err != nil {
		return fmt.Errorf("delete journal: %w", err)
	}
	if err := s.store.DeleteQuoteIndex(ctx, username); err != nil {
		return fmt.Errorf("delete quote index: %w", err)
	}
	return nil
}

// UserStats summarizes a journal for the user's own dashboard.
func (s *JournalService) UserStats(ctx context.Context, username string) (models.JournalStats, error) {
	entries, err := s.store.LoadJournal(ctx, username)
	if err != nil {
		return models.JournalStats{}, err
	}
	return summarize(entries), nil
}

func summarize(entries []models.JournalEntry) models.JournalStats {
	stats := models.JournalStats{
		TotalConversations: len(entries),
		EmotionBreakdown:   map[string]int{},
	}
	if len(entries) == 0 {
		return stats
	}

	var confSum float64
	for _, e := range entries {
		stats.EmotionBreakdown[e.Emotion]++
		confSum += e.Confidence
	}
	stats.AvgConfidence = math.Round(confSum/float64(len(entries))*100) / 100

	// Ties break toward the emotion seen first.
	best := -1
	for _, e := range entries {
		if n := stats.EmotionBreakdown[e.Emotion]; n > best {
			best = n
			stats.MostCommonEmotion = e.Emotion
		}
	}
	return stats
}
