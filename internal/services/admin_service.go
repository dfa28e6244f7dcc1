package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/models"
)

// adminLogRetention caps the audit trail at the newest entries.
const adminLogRetention = 100

// ExportBundle is the downloadable snapshot of platform state.
type ExportBundle struct {
	ExportTimestamp time.Time              `json:"export_timestamp"`
	Statistics      models.AdminStats      `json:"statistics"`
	AdminLogs       []models.AdminLogEntry `json:"admin_logs"`
}

// AdminService covers the admin dashboard: the audit log, cross-user
// statistics, user resets and the export bundle.
type AdminService struct {
	store   core.Store
	journal *JournalService
}

func NewAdminService(store core.Store, journal *JournalService) *AdminService {
	return &AdminService{store: store, journal: journal}
}

// LogActivity appends one audit entry, trimming to the newest
// adminLogRetention entries.
func (s *AdminService) LogActivity(ctx context.Context, admin, action, detail string) error {
	entries, err := s.store.LoadAdminLog(ctx)
	if err != nil {
		return fmt.Errorf("load admin log: %w", err)
	}
	entries = append(entries, models.AdminLogEntry{
		Timestamp: time.Now().UTC(),
		Action:    action,
		Detail:    detail,
		Admin:     admin,
	})
	if len(entries) > adminLogRetention {
		entries = entries[len(entries)-adminLogRetention:]
	}
	if err := s.store.SaveAdminLog(ctx, entries); err != nil {
		return fmt.Errorf("save admin log: %w", err)
	}
	return nil
}

func (s *AdminService) Logs(ctx context.Context) ([]models.AdminLogEntry, error) {
	return s.store.LoadAdminLog(ctx)
}

// ClearLogs empties the audit trail, then records the clearing itself
// as the first entry of the fresh log.
func (s *AdminService) ClearLogs(ctx context.Context, admin string) error {
	if err := s.store.SaveAdminLog(ctx, nil); err != nil {
		return fmt.Errorf("save admin log: %w", err)
	}
	return s.LogActivity(ctx, admin, "Logs Cleared", "admin log wiped")
}

// ResetUser wipes a user's journal and quote index. The account record
// survives so the user can keep logging in.
func (s *AdminService) ResetUser(ctx context.Context, admin, username string) error {
	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrStorage, err)
	}
	if user == nil {
		return core.ErrUserNotFound
	}
	if err := s.journal.Reset(ctx, username); err != nil {
		return err
	}
	return s.LogActivity(ctx, admin, "User Reset", fmt.Sprintf("cleared data for %s", username))
}

// Stats aggregates activity over every user. Per-user journals are
// loaded concurrently, the aggregation itself runs serially afterwards.
func (s *AdminService) Stats(ctx context.Context) (models.AdminStats, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return models.AdminStats{}, fmt.Errorf("list users: %w", err)
	}

	details := make([]models.UserDetail, len(users))
	journals := make([][]models.JournalEntry, len(users))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range users {
		g.Go(func() error {
			entries, err := s.store.LoadJournal(gctx, users[i].Username)
			if err != nil {
				return fmt.Errorf("load journal for %s: %w", users[i].Username, err)
			}
			journals[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.AdminStats{}, err
	}

	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	weekAgo := now.AddDate(0, 0, -7)

	stats := models.AdminStats{TotalUsers: len(users)}
	for i, u := range users {
		entries := journals[i]
		summary := summarize(entries)

		lastActivity := ""
		if n := len(entries); n > 0 {
			lastActivity = entries[n-1].Timestamp.Format(time.RFC3339)
			stats.ActiveUsers++
		}
		details[i] = models.UserDetail{
			Username:          u.Username,
			Email:             u.Email,
			Joined:            u.CreatedAt.Format("2006-01-02"),
			Conversations:     summary.TotalConversations,
			LastActivity:      lastActivity,
			MostCommonEmotion: summary.MostCommonEmotion,
			EmotionBreakdown:  summary.EmotionBreakdown,
		}

		stats.TotalConversations += summary.TotalConversations
		if u.CreatedAt.Format("2006-01-02") == today {
			stats.UsersToday++
		}
		if u.CreatedAt.After(weekAgo) {
			stats.UsersThisWeek++
		}
	}
	stats.UserDetails = details
	return stats, nil
}

// Export bundles statistics and the audit trail for download, and logs
// the export itself.
func (s *AdminService) Export(ctx context.Context, admin string) (*ExportBundle, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	logs, err := s.store.LoadAdminLog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load admin log: %w", err)
	}
	bundle := &ExportBundle{
		ExportTimestamp: time.Now().UTC(),
		Statistics:      stats,
		AdminLogs:       logs,
	}
	if err := s.LogActivity(ctx, admin, "Data Export", "downloaded platform export"); err != nil {
		return nil, err
	}
	return bundle, nil
}
