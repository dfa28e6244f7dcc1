// Package filestore is the default Store backend: whole-file JSON
// read/rewrite under a data directory, one subdirectory per user.
//
// Layout:
//
//	<root>/users.json                  username -> user record
//	<root>/users/<name>/journal.json   ordered journal entries
//	<root>/users/<name>/index.json     persisted quote index
//	<root>/admin_log.json              shared admin audit trail
//
// A missing file is an empty result, never an error. Writes go to a
// temp file renamed into place, so readers always see a whole file;
// they are serialized with a process-wide mutex, and concurrent
// processes writing the same user's files are last-writer-wins.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/models"
)

type FileStore struct {
	root string
	mu   sync.Mutex
}

func New(root string) (*FileStore, error) {
	if root == "" {
		return nil, errors.New("filestore: empty data directory")
	}
	if err := os.MkdirAll(filepath.Join(root, "users"), 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create data directory: %w", err)
	}
	return &FileStore{root: root}, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) usersPath() string    { return filepath.Join(s.root, "users.json") }
func (s *FileStore) adminLogPath() string { return filepath.Join(s.root, "admin_log.json") }

func (s *FileStore) userPath(username, file string) string {
	return filepath.Join(s.root, "users", username, file)
}

func (s *FileStore) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil || user.Username == "" {
		return errors.New("filestore: nil or unnamed user")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	users := map[string]models.User{}
	if err := readJSON(s.usersPath(), &users); err != nil {
		return err
	}
	if _, exists := users[user.Username]; exists {
		return core.ErrDuplicateUser
	}
	users[user.Username] = *user
	if err := writeJSON(s.usersPath(), users); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(s.root, "users", user.Username), 0o755)
}

func (s *FileStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	users := map[string]models.User{}
	if err := readJSON(s.usersPath(), &users); err != nil {
		return nil, err
	}
	u, ok := users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *FileStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := map[string]models.User{}
	if err := readJSON(s.usersPath(), &users); err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (s *FileStore) LoadJournal(ctx context.Context, username string) ([]models.JournalEntry, error) {
	var entries []models.JournalEntry
	if err := readJSON(s.userPath(username, "journal.json"), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *FileStore) SaveJournal(ctx context.Context, username string, entries []models.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.userPath(username, "journal.json"), entries)
}

func (s *FileStore) DeleteJournal(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeIfPresent(s.userPath(username, "journal.json"))
}

func (s *FileStore) LoadQuoteIndex(ctx context.Context, username string) (*models.QuoteIndex, error) {
	var idx models.QuoteIndex
	path := s.userPath(username, "index.json")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("filestore: decode %s: %w", path, err)
	}
	return &idx, nil
}

func (s *FileStore) SaveQuoteIndex(ctx context.Context, username string, idx *models.QuoteIndex) error {
	if idx == nil {
		return errors.New("filestore: nil quote index")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.userPath(username, "index.json"), idx)
}

func (s *FileStore) DeleteQuoteIndex(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return removeIfPresent(s.userPath(username, "index.json"))
}

func (s *FileStore) LoadAdminLog(ctx context.Context) ([]models.AdminLogEntry, error) {
	var entries []models.AdminLogEntry
	if err := readJSON(s.adminLogPath(), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *FileStore) SaveAdminLog(ctx context.Context, entries []models.AdminLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.adminLogPath(), entries)
}

// readJSON loads path into v. A missing file leaves v untouched so the
// caller sees its zero value as the empty result.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("filestore: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("filestore: decode %s: %w", path, err)
	}
	return nil
}

// writeJSON writes to a temp file in the target directory and renames
// it into place, so concurrent readers never observe a partial file.
func writeJSON(path string, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("filestore: create %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("filestore: temp file for %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("filestore: replace %s: %w", path, err)
	}
	return nil
}

func removeIfPresent(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("filestore: remove %s: %w", path, err)
}

var _ core.Store = (*FileStore)(nil)
