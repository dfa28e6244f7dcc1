// Package pgstore is the Postgres Store backend, for deployments that
// outgrow the per-user files. Quote embeddings live in a pgvector
// column. Save* calls replace the user's rows in one transaction so the
// semantics match the file backend's whole-file rewrite.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pgvector/pgvector-go"

	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/models"
)

type PgStore struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*PgStore, error) {
	if databaseURL == "" {
		return nil, errors.New("pgstore: DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := ensureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &PgStore{db: db}, nil
}

func (s *PgStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PgStore) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("pgstore: nil user")
	}
	const q = `
		INSERT INTO users (username, password_hash, email, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`
	_, err := s.db.ExecContext(ctx, q, user.Username, user.PasswordHash, user.Email, user.CreatedAt)
	if isUniqueViolation(err) {
		return core.ErrDuplicateUser
	}
	return err
}

func (s *PgStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	const q = `
		SELECT username, password_hash, email, created_at
		FROM users WHERE username = $1
	`
	var u models.User
	err := s.db.QueryRowContext(ctx, q, username).Scan(&u.Username, &u.PasswordHash, &u.Email, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *PgStore) ListUsers(ctx context.Context) ([]models.User, error) {
	const q = `
		SELECT username, password_hash, email, created_at
		FROM users ORDER BY username
	`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.Username, &u.PasswordHash, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *PgStore) LoadJournal(ctx context.Context, username string) ([]models.JournalEntry, error) {
	const q = `
		SELECT id, entry_date, created_at, user_input, emotion, confidence, response
		FROM journal_entries
		WHERE username = $1
		ORDER BY position ASC
	`
	rows, err := s.db.QueryContext(ctx, q, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.JournalEntry
	for rows.Next() {
		var e models.JournalEntry
		if err := rows.Scan(&e.ID, &e.Date, &e.Timestamp, &e.UserInput, &e.Emotion, &e.Confidence, &e.Response); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PgStore) SaveJournal(ctx context.Context, username string, entries []models.JournalEntry) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM journal_entries WHERE username = $1`, username); err != nil {
		_ = tx.Rollback()
		return err
	}

	const q = `
		INSERT INTO journal_entries
			(id, username, position, entry_date, created_at, user_input, emotion, confidence, response)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range entries {
		e := &entries[i]
		if _, err := stmt.ExecContext(ctx,
			e.ID, username, i, e.Date, e.Timestamp, e.UserInput, e.Emotion, e.Confidence, e.Response,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *PgStore) DeleteJournal(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM journal_entries WHERE username = $1`, username)
	return err
}

func (s *PgStore) LoadQuoteIndex(ctx context.Context, username string) (*models.QuoteIndex, error) {
	const q = `
		SELECT quote, embedding, built_at
		FROM quote_index_entries
		WHERE username = $1
		ORDER BY position ASC
	`
	rows, err := s.db.QueryContext(ctx, q, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var idx models.QuoteIndex
	for rows.Next() {
		var (
			quote string
			emb   pgvector.Vector
		)
		if err := rows.Scan(&quote, &emb, &idx.BuiltAt); err != nil {
			return nil, err
		}
		idx.Quotes = append(idx.Quotes, quote)
		idx.Vectors = append(idx.Vectors, emb.Slice())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(idx.Quotes) == 0 {
		return nil, nil
	}
	return &idx, nil
}

func (s *PgStore) SaveQuoteIndex(ctx context.Context, username string, idx *models.QuoteIndex) error {
	if idx == nil {
		return errors.New("pgstore: nil quote index")
	}
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM quote_index_entries WHERE username = $1`, username); err != nil {
		_ = tx.Rollback()
		return err
	}

	const q = `
		INSERT INTO quote_index_entries (username, position, quote, embedding, built_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i, quote := range idx.Quotes {
		vec := pgvector.NewVector(idx.Vectors[i])
		if _, err := stmt.ExecContext(ctx, username, i, quote, vec, idx.BuiltAt); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *PgStore) DeleteQuoteIndex(ctx context.Context, username string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM quote_index_entries WHERE username = $1`, username)
	return err
}

func (s *PgStore) LoadAdminLog(ctx context.Context) ([]models.AdminLogEntry, error) {
	const q = `
		SELECT created_at, action, detail, admin_name
		FROM admin_log
		ORDER BY position ASC
	`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AdminLogEntry
	for rows.Next() {
		var e models.AdminLogEntry
		if err := rows.Scan(&e.Timestamp, &e.Action, &e.Detail, &e.Admin); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PgStore) SaveAdminLog(ctx context.Context, entries []models.AdminLogEntry) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM admin_log`); err != nil {
		_ = tx.Rollback()
		return err
	}

	const q = `
		INSERT INTO admin_log (position, created_at, action, detail, admin_name)
		VALUES ($1, $2, $3, $4, $5)
	`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for i := range entries {
		e := &entries[i]
		if _, err := stmt.ExecContext(ctx, i, e.Timestamp, e.Action, e.Detail, e.Admin); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ core.Store = (*PgStore)(nil)
