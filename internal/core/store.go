package core

import (
	"context"

	"github.com/csg-hackathon/dilbot/internal/models"
)

// Store defines all persistence the services need. The default backend
// rewrites whole JSON files per user; a Postgres backend can be swapped
// in without touching call sites. Absence is an empty result, never an
// error: GetUser and LoadQuoteIndex return nil for a missing record,
// the Load* slice methods return empty slices.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	LoadJournal(ctx context.Context, username string) ([]models.JournalEntry, error)
	SaveJournal(ctx context.Context, username string, entries []models.JournalEntry) error
	DeleteJournal(ctx context.Context, username string) error

	LoadQuoteIndex(ctx context.Context, username string) (*models.QuoteIndex, error)
	SaveQuoteIndex(ctx context.Context, username string, idx *models.QuoteIndex) error
	DeleteQuoteIndex(ctx context.Context, username string) error

	LoadAdminLog(ctx context.Context) ([]models.AdminLogEntry, error)
	SaveAdminLog(ctx context.Context, entries []models.AdminLogEntry) error

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
// Used for archiving raw quote uploads and synthesized audio; the
// service runs fine without one configured.
type ObjectClient interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) (url string, err error)
	GetFile(ctx context.Context, key string) ([]byte, error)
	DeleteFile(ctx context.Context, key string) error
}
