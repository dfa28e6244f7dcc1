package models

import (
	"time"
)

// Role distinguishes regular users from the configured admin account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a registered account. Only the bcrypt hash of the
// password is ever persisted. The record itself is never mutated after
// signup; an admin reset deletes the user's journal and quote index,
// not this record.
type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

// JournalEntry is one recorded interaction: what the user said, what
// emotion was detected, and what the bot replied. Confidence is a
// percentage in [0, 100].
type JournalEntry struct {
	ID         string    `json:"id"`
	Date       string    `json:"date"` // YYYY-MM-DD, kept alongside the full timestamp
	Timestamp  time.Time `json:"timestamp"`
	UserInput  string    `json:"user_input"`
	Emotion    string    `json:"emotion"`
	Confidence float64   `json:"confidence"`
	Response   string    `json:"response"`
}

// QuoteIndex is the persisted form of a user's retrieval index: the
// active quote set and one embedding vector per quote, in quote order.
// The index must always be rebuildable from its quote set; when the
// quote set changes it is discarded and rebuilt.
type QuoteIndex struct {
	Quotes  []string    `json:"quotes"`
	Vectors [][]float32 `json:"vectors"`
	BuiltAt time.Time   `json:"built_at"`
}

// AdminLogEntry is one line of the shared admin audit trail.
type AdminLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	Admin     string    `json:"admin"`
}

// JournalStats summarizes one user's journal for their dashboard.
type JournalStats struct {
	TotalConversations int            `json:"total_conversations"`
	MostCommonEmotion  string         `json:"most_common_emotion"`
	AvgConfidence      float64        `json:"avg_confidence"`
	EmotionBreakdown   map[string]int `json:"emotion_breakdown"`
}

// UserDetail is the per-user row of the admin statistics view.
type UserDetail struct {
	Username          string         `json:"username"`
	Email             string         `json:"email"`
	Joined            string         `json:"joined"`
	Conversations     int            `json:"conversations"`
	LastActivity      string         `json:"last_activity"`
	MostCommonEmotion string         `json:"most_common_emotion"`
	EmotionBreakdown  map[string]int `json:"emotions_breakdown"`
}

// AdminStats aggregates activity across all users.
type AdminStats struct {
	TotalUsers         int          `json:"total_users"`
	UsersToday         int          `json:"users_today"`
	UsersThisWeek      int          `json:"users_this_week"`
	TotalConversations int          `json:"total_conversations"`
	ActiveUsers        int          `json:"active_users"`
	UserDetails        []UserDetail `json:"user_details"`
}

// LocalizedText is a tagged result for the optional translation pass:
// a reply is either the generator's original text or a translated
// rendering of it. Content is the uniform accessor either way.
type LocalizedText struct {
	text       string
	translated bool
}

func Original(text string) LocalizedText {
	return LocalizedText{text: text}
}

func Translated(text string) LocalizedText {
	return LocalizedText{text: text, translated: true}
}

func (l LocalizedText) Content() string { return l.text }

func (l LocalizedText) IsTranslated() bool { return l.translated }
